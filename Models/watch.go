package Models

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// WatchStudents opens a live subscription on the students collection in
// leaderboard order. Every delivered query snapshot is decoded whole and
// sent on the returned channel, in delivery order. The returned cancel
// function tears the subscription down; the channel is closed when the
// stream ends for any reason.
//
// A snapshot that fails to deliver ends the stream without retrying; the
// caller keeps whatever value it last received.
func WatchStudents(ctx context.Context) (<-chan []Student, func()) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan []Student, 1)

	q := Firestore.Collection(StudentsCollection).
		OrderBy("points", firestore.Desc).
		OrderBy("updatedAt", firestore.Asc)

	go func() {
		defer close(out)
		it := q.Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Println("students subscription error:", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Println("students snapshot read error:", err)
				return
			}

			students := make([]Student, 0, len(docs))
			for _, doc := range docs {
				s, err := decodeStudent(doc)
				if err != nil {
					log.Println("students snapshot decode error:", err)
					continue
				}
				students = append(students, s)
			}

			select {
			case out <- students:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cancel
}

// WatchTasks opens a live subscription on the tasks collection. Same
// contract as WatchStudents.
func WatchTasks(ctx context.Context) (<-chan []Task, func()) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan []Task, 1)

	go func() {
		defer close(out)
		it := Firestore.Collection(TasksCollection).Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Println("tasks subscription error:", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Println("tasks snapshot read error:", err)
				return
			}

			tasks := make([]Task, 0, len(docs))
			for _, doc := range docs {
				task, err := decodeTask(doc)
				if err != nil {
					log.Println("tasks snapshot decode error:", err)
					continue
				}
				tasks = append(tasks, task)
			}

			select {
			case out <- tasks:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cancel
}
