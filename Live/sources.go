package Live

import (
	"context"
	"encoding/json"
	"log"

	"Podium/Models"
)

// Resource keys, shared with the cache rows and websocket message types.
const (
	LeaderboardKey = "leaderboard"
	TasksKey       = "tasks"
)

// StudentSource opens the students subscription and yields each snapshot
// as a marshaled leaderboard. The ranking is recomputed whole on every
// snapshot.
func StudentSource() (<-chan string, func()) {
	ch, cancel := Models.WatchStudents(context.Background())
	out := make(chan string, 1)

	go func() {
		defer close(out)
		for students := range ch {
			payload, err := json.Marshal(Models.SortLeaderboard(students))
			if err != nil {
				log.Println("leaderboard marshal error:", err.Error())
				continue
			}
			out <- string(payload)
		}
	}()
	return out, cancel
}

// TaskSource opens the tasks subscription and yields each snapshot as a
// marshaled task list. Filtering and sorting stay per-request; the wire
// payload is the raw collection.
func TaskSource() (<-chan string, func()) {
	ch, cancel := Models.WatchTasks(context.Background())
	out := make(chan string, 1)

	go func() {
		defer close(out)
		for tasks := range ch {
			payload, err := json.Marshal(tasks)
			if err != nil {
				log.Println("tasks marshal error:", err.Error())
				continue
			}
			out <- string(payload)
		}
	}()
	return out, cancel
}
