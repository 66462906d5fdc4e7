package Models

import (
	"sort"
	"time"
)

// Task list filter and sort selectors, matching the public page dropdowns.
const (
	FilterAll     = "all"
	FilterActive  = "active"
	FilterExpired = "expired"

	SortDefault = "default"
	SortReward  = "points"
)

// SortLeaderboard orders students by points descending, ties broken by
// ascending update time (first to reach a total ranks above a later
// arrival). The input slice is not modified.
func SortLeaderboard(students []Student) []Student {
	ranked := make([]Student, len(students))
	copy(ranked, students)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].UpdatedAt.Before(ranked[j].UpdatedAt)
	})
	return ranked
}

// FilterTasks derives the task list for a filter/sort selector pair at the
// given instant. Pure function of its inputs; the input slice is not
// modified.
//
// Default sort places active tasks before expired ones and orders each
// group by ascending deadline. The reward sort ignores expiry grouping and
// orders strictly by descending reward.
func FilterTasks(tasks []Task, now time.Time, filter, sortBy string) []Task {
	filtered := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		switch filter {
		case FilterActive:
			if task.Expired(now) {
				continue
			}
		case FilterExpired:
			if !task.Expired(now) {
				continue
			}
		}
		filtered = append(filtered, task)
	}

	if sortBy == SortReward {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Reward > filtered[j].Reward
		})
		return filtered
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		iExpired := filtered[i].Expired(now)
		jExpired := filtered[j].Expired(now)
		if iExpired != jExpired {
			return !iExpired
		}
		return filtered[i].DeadlineTime().Before(filtered[j].DeadlineTime())
	})
	return filtered
}
