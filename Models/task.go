package Models

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Task statuses. Tasks are created pending; the transition to completed is
// a manual admin action, nothing in the system flips it automatically.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task mirrors one document in the "tasks" collection. Deadline is stored
// the way the admin form submits it, as a calendar date string.
type Task struct {
	ID          string `json:"id" firestore:"-"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description" firestore:"description"`
	Deadline    string `json:"deadline" firestore:"deadline"`
	Reward      int    `json:"reward" firestore:"reward"`
	Status      string `json:"status" firestore:"status"`
}

var deadlineLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// DeadlineTime parses the stored deadline. The zero time is returned for
// unparseable values, which sorts them like already-expired tasks.
func (t Task) DeadlineTime() time.Time {
	for _, layout := range deadlineLayouts {
		if parsed, err := time.Parse(layout, t.Deadline); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Expired reports whether the deadline has passed at the given instant.
func (t Task) Expired(now time.Time) bool {
	return !t.DeadlineTime().After(now)
}

func decodeTask(doc *firestore.DocumentSnapshot) (Task, error) {
	var task Task
	if err := doc.DataTo(&task); err != nil {
		return task, err
	}
	task.ID = doc.Ref.ID
	return task, nil
}

func ListTasks(ctx context.Context) ([]Task, error) {
	docs, err := Firestore.Collection(TasksCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(docs))
	for _, doc := range docs {
		task, err := decodeTask(doc)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// CreateTask adds a new task document, always with a pending status.
func CreateTask(ctx context.Context, input *Task) (string, error) {
	ref, _, err := Firestore.Collection(TasksCollection).Add(ctx, map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"deadline":    input.Deadline,
		"reward":      input.Reward,
		"status":      TaskStatusPending,
	})
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// UpdateTask edits a task. The status is preserved, not reset.
func UpdateTask(ctx context.Context, id string, input *Task) error {
	_, err := Firestore.Collection(TasksCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "title", Value: input.Title},
		{Path: "description", Value: input.Description},
		{Path: "deadline", Value: input.Deadline},
		{Path: "reward", Value: input.Reward},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// CompleteTask performs the manual pending -> completed transition.
func CompleteTask(ctx context.Context, id string) error {
	_, err := Firestore.Collection(TasksCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: TaskStatusCompleted},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func DeleteTask(ctx context.Context, id string) error {
	_, err := Firestore.Collection(TasksCollection).Doc(id).Delete(ctx)
	return err
}
