package main

import (
	"log"

	"github.com/joho/godotenv"

	"Podium/Cache"
	"Podium/CronJobs"
	"Podium/FiberConfig"
	"Podium/Models"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	Models.Connect()

	if err := Models.InitFirebase(); err != nil {
		log.Fatal("Failed to initialize Firebase:", err)
	}

	janitor := CronJobs.NewCacheJanitor(Cache.NewStore(Models.DB), true)
	if err := janitor.Start(); err != nil {
		log.Printf("Failed to start cache janitor: %v", err)
	}
	defer janitor.Stop()

	FiberConfig.FiberConfig()
}
