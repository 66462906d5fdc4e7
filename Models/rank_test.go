package Models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func student(name string, points int, updated time.Time) Student {
	return Student{ID: name, FullName: name, Points: points, UpdatedAt: updated}
}

func TestSortLeaderboardOrdersByPointsThenUpdateTime(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	students := []Student{
		student("late-tie", 50, base.Add(2*time.Hour)),
		student("low", 10, base),
		student("top", 90, base.Add(time.Hour)),
		student("early-tie", 50, base),
	}

	ranked := SortLeaderboard(students)

	require.Len(t, ranked, 4)
	assert.Equal(t, "top", ranked[0].ID)
	// first to reach the total ranks above the later arrival
	assert.Equal(t, "early-tie", ranked[1].ID)
	assert.Equal(t, "late-tie", ranked[2].ID)
	assert.Equal(t, "low", ranked[3].ID)
}

func TestSortLeaderboardIgnoresInputOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	students := []Student{
		student("a", 30, base),
		student("b", 70, base.Add(time.Minute)),
		student("c", 70, base),
		student("d", 5, base),
	}

	reversed := make([]Student, len(students))
	for i, s := range students {
		reversed[len(students)-1-i] = s
	}

	forward := SortLeaderboard(students)
	backward := SortLeaderboard(reversed)

	assert.Equal(t, forward, backward)
}

func TestSortLeaderboardDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	students := []Student{
		student("a", 1, base),
		student("b", 2, base),
	}

	SortLeaderboard(students)

	assert.Equal(t, "a", students[0].ID)
	assert.Equal(t, "b", students[1].ID)
}

func task(id string, deadline time.Time, reward int) Task {
	return Task{ID: id, Title: id, Deadline: deadline.Format("2006-01-02T15:04"), Reward: reward}
}

func TestFilterTasksActiveAndExpiredPartition(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		task("past", now.Add(-time.Hour), 10),
		task("soon", now.Add(time.Hour), 20),
		task("later", now.Add(48*time.Hour), 30),
		task("old", now.Add(-48*time.Hour), 40),
	}

	active := FilterTasks(tasks, now, FilterActive, SortDefault)
	expired := FilterTasks(tasks, now, FilterExpired, SortDefault)

	require.Len(t, active, 2)
	require.Len(t, expired, 2)
	assert.Equal(t, len(tasks), len(active)+len(expired))
	for _, item := range active {
		assert.False(t, item.Expired(now))
	}
	for _, item := range expired {
		assert.True(t, item.Expired(now))
	}
}

func TestFilterTasksDeadlineExactlyNowIsExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tasks := []Task{task("edge", now, 10)}

	active := FilterTasks(tasks, now, FilterActive, SortDefault)
	expired := FilterTasks(tasks, now, FilterExpired, SortDefault)

	assert.Empty(t, active)
	assert.Len(t, expired, 1)
}

func TestFilterTasksDefaultSortGroupsActiveFirst(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		task("expired-late", now.Add(-time.Hour), 10),
		task("active-late", now.Add(72*time.Hour), 20),
		task("expired-early", now.Add(-72*time.Hour), 30),
		task("active-early", now.Add(time.Hour), 40),
	}

	sorted := FilterTasks(tasks, now, FilterAll, SortDefault)

	require.Len(t, sorted, 4)
	assert.Equal(t, "active-early", sorted[0].ID)
	assert.Equal(t, "active-late", sorted[1].ID)
	assert.Equal(t, "expired-early", sorted[2].ID)
	assert.Equal(t, "expired-late", sorted[3].ID)
}

func TestFilterTasksRewardSortIgnoresExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		task("small", now.Add(time.Hour), 5),
		task("big-expired", now.Add(-time.Hour), 100),
		task("medium", now.Add(2*time.Hour), 50),
	}

	sorted := FilterTasks(tasks, now, FilterAll, SortReward)

	require.Len(t, sorted, 3)
	assert.Equal(t, "big-expired", sorted[0].ID)
	assert.Equal(t, "medium", sorted[1].ID)
	assert.Equal(t, "small", sorted[2].ID)
}

func TestFilterTasksIsIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tasks := []Task{
		task("a", now.Add(time.Hour), 10),
		task("b", now.Add(-time.Hour), 20),
		task("c", now.Add(3*time.Hour), 30),
	}

	first := FilterTasks(tasks, now, FilterAll, SortDefault)
	second := FilterTasks(tasks, now, FilterAll, SortDefault)

	assert.Equal(t, first, second)
	// input untouched
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)
	assert.Equal(t, "c", tasks[2].ID)
}

func TestDeadlineTimeParsesFormLayouts(t *testing.T) {
	cases := map[string]string{
		"datetime-local": "2025-03-01T15:04",
		"date only":      "2025-03-01",
		"full timestamp": "2025-03-01 15:04:05",
	}
	for name, raw := range cases {
		parsed := Task{Deadline: raw}.DeadlineTime()
		assert.False(t, parsed.IsZero(), name)
	}

	assert.True(t, Task{Deadline: "not a date"}.DeadlineTime().IsZero())
}
