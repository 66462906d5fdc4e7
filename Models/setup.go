package Models

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Firestore collections
const (
	StudentsCollection = "students"
	TasksCollection    = "tasks"
)

var DB *gorm.DB

// Global Firebase clients
var Firestore *firestore.Client
var AuthClient *auth.Client

// Connect opens the local sqlite database used for cached snapshots and
// refresh-throttle counters.
func Connect() {
	path := os.Getenv("CACHE_DB_PATH")
	if path == "" {
		path = "cache.db"
	}
	connection, err := gorm.Open(sqlite.Open(path))
	if err != nil {
		log.Println(err)
	}
	DB = connection
	DB.AutoMigrate(&CacheEntry{})
}

// Initialize Firebase (call this once at startup)
func InitFirebase() error {
	credsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
	if credsFile == "" {
		credsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}

	ctx := context.Background()
	opt := option.WithCredentialsFile(credsFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing Firebase app: %v", err)
	}

	Firestore, err = app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("error getting Firestore client: %v", err)
	}

	AuthClient, err = app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("error getting Auth client: %v", err)
	}

	log.Println("Firebase initialized successfully")
	return nil
}

// CacheEntry is one local key-value row: a cached snapshot of a remote
// resource plus the refresh-throttle counters for that resource. Payload is
// empty until the first snapshot is captured.
type CacheEntry struct {
	Key             string `gorm:"primaryKey"`
	Payload         string
	Timestamp       int64 // capture time of Payload, unix ms
	RefreshCount    int
	LastRefreshTime int64 // unix ms
}
