package queue

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler wraps gocron for recurring job enqueueing
type Scheduler struct {
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler in UTC
func NewScheduler() *Scheduler {
	return &Scheduler{scheduler: gocron.NewScheduler(time.UTC)}
}

// DailyAt schedules fn every day at the given "HH:MM" time
func (s *Scheduler) DailyAt(at string, name string, fn func()) {
	_, err := s.scheduler.Every(1).Day().At(at).Do(func() {
		log.Printf("Running scheduled task %s", name)
		fn()
	})
	if err != nil {
		log.Printf("Failed to schedule task %s: %v", name, err)
	}
}

// Every schedules fn at a fixed interval
func (s *Scheduler) Every(interval time.Duration, name string, fn func()) {
	_, err := s.scheduler.Every(interval).Do(func() {
		log.Printf("Running scheduled task %s", name)
		fn()
	})
	if err != nil {
		log.Printf("Failed to schedule task %s: %v", name, err)
	}
}

// Start starts the scheduler asynchronously
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
