package CronJobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"Podium/Cache"
)

// CacheJanitor periodically prunes expired snapshot rows from the local
// cache database.
type CacheJanitor struct {
	cronScheduler  *cron.Cron
	store          *Cache.Store
	runImmediately bool
	jobID          cron.EntryID
}

// NewCacheJanitor creates a new janitor over the given cache store
func NewCacheJanitor(store *Cache.Store, runImmediately bool) *CacheJanitor {
	return &CacheJanitor{
		cronScheduler:  cron.New(cron.WithSeconds()),
		store:          store,
		runImmediately: runImmediately,
	}
}

// Start initiates the janitor cron job
func (j *CacheJanitor) Start() error {
	var err error
	j.jobID, err = j.cronScheduler.AddFunc("0 */5 * * * *", func() {
		j.runPrune()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	j.cronScheduler.Start()
	log.Println("Cache janitor started - will run every 5 minutes")

	if j.runImmediately {
		j.runPrune()
	}
	return nil
}

// Stop terminates the janitor
func (j *CacheJanitor) Stop() {
	if j.cronScheduler != nil {
		j.cronScheduler.Stop()
		log.Println("Cache janitor stopped")
	}
}

// UpdateSchedule changes the schedule of the janitor
// Format: "0 */5 * * * *" = every 5 minutes
func (j *CacheJanitor) UpdateSchedule(schedule string) error {
	j.cronScheduler.Remove(j.jobID)

	var err error
	j.jobID, err = j.cronScheduler.AddFunc(schedule, func() {
		j.runPrune()
	})
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}

	log.Printf("Cache janitor schedule updated to: %s\n", schedule)
	return nil
}

func (j *CacheJanitor) runPrune() {
	if pruned := j.store.PruneExpired(); pruned > 0 {
		log.Printf("Pruned %d expired cache entries\n", pruned)
	}
}
