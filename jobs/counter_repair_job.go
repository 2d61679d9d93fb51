// File: /jobs/counter_repair_job.go
package jobs

import (
	"context"
	"log"
	"time"

	"athlos-api/services"
)

// CounterRepairJob periodically recomputes stored follower and following
// counters from the follow edges, healing any drift left by crashes or
// partial writes.
type CounterRepairJob struct {
	counters *services.CounterService
	ticker   *time.Ticker
	done     chan bool
}

func NewCounterRepairJob(counters *services.CounterService, interval time.Duration) *CounterRepairJob {
	return &CounterRepairJob{
		counters: counters,
		ticker:   time.NewTicker(interval),
		done:     make(chan bool),
	}
}

// Start begins the repair job
func (j *CounterRepairJob) Start() {
	log.Println("Counter repair job started")

	go func() {
		// Run immediately on start
		j.repair()

		// Then run on schedule
		for {
			select {
			case <-j.ticker.C:
				j.repair()
			case <-j.done:
				log.Println("Counter repair job stopped")
				return
			}
		}
	}()
}

// Stop stops the repair job
func (j *CounterRepairJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *CounterRepairJob) repair() {
	log.Println("Running counter repair...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := j.counters.RepairAll(ctx); err != nil {
		log.Printf("Error during counter repair: %v", err)
		return
	}

	log.Println("Counter repair completed successfully")
}
