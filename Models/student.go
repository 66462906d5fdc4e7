package Models

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Student mirrors one document in the "students" collection. Points are
// only ever changed through AwardPoints; updatedAt is refreshed on every
// mutation.
type Student struct {
	ID             string    `json:"id" firestore:"-"`
	FullName       string    `json:"fullName" firestore:"fullName"`
	DepartmentName string    `json:"departmentName" firestore:"departmentName"`
	SSHR           int       `json:"sshr" firestore:"sshr"`
	AvatarURL      string    `json:"avatarUrl" firestore:"avatarUrl"`
	Points         int       `json:"points" firestore:"points"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt"`
}

var ErrNotFound = fmt.Errorf("document not found")

func decodeStudent(doc *firestore.DocumentSnapshot) (Student, error) {
	var s Student
	if err := doc.DataTo(&s); err != nil {
		return s, err
	}
	s.ID = doc.Ref.ID
	return s, nil
}

// ListStudents returns the full collection in leaderboard order.
func ListStudents(ctx context.Context) ([]Student, error) {
	q := Firestore.Collection(StudentsCollection).
		OrderBy("points", firestore.Desc).
		OrderBy("updatedAt", firestore.Asc)

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	students := make([]Student, 0, len(docs))
	for _, doc := range docs {
		s, err := decodeStudent(doc)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, nil
}

func GetStudent(ctx context.Context, id string) (*Student, error) {
	doc, err := Firestore.Collection(StudentsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s, err := decodeStudent(doc)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateStudent adds a new student document. New students always start at
// zero points.
func CreateStudent(ctx context.Context, input *Student) (string, error) {
	now := time.Now()
	ref, _, err := Firestore.Collection(StudentsCollection).Add(ctx, map[string]interface{}{
		"fullName":       input.FullName,
		"departmentName": input.DepartmentName,
		"sshr":           input.SSHR,
		"avatarUrl":      input.AvatarURL,
		"points":         0,
		"createdAt":      now,
		"updatedAt":      now,
	})
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// UpdateStudent edits the identity fields of a student. Points are not
// touched here.
func UpdateStudent(ctx context.Context, id string, input *Student) error {
	_, err := Firestore.Collection(StudentsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "fullName", Value: input.FullName},
		{Path: "departmentName", Value: input.DepartmentName},
		{Path: "sshr", Value: input.SSHR},
		{Path: "avatarUrl", Value: input.AvatarURL},
		{Path: "updatedAt", Value: time.Now()},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func DeleteStudent(ctx context.Context, id string) error {
	_, err := Firestore.Collection(StudentsCollection).Doc(id).Delete(ctx)
	return err
}

// AwardPoints re-reads the authoritative point total, adds amount and
// writes the sum back with a refreshed updatedAt. The read and the write
// are not atomic against a concurrent award; last write to complete wins.
func AwardPoints(ctx context.Context, id string, amount int) (*Student, error) {
	student, err := GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	student.Points += amount
	student.UpdatedAt = time.Now()

	_, err = Firestore.Collection(StudentsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "points", Value: student.Points},
		{Path: "updatedAt", Value: student.UpdatedAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return student, nil
}
