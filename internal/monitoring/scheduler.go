package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// TaskCounter reports how many tasks exist per status.
type TaskCounter interface {
	CountTasksByStatus(ctx context.Context) (map[models.TaskStatus]int, error)
}

// StatsSink receives refreshed task counts.
type StatsSink interface {
	SetTaskCounts(counts map[models.TaskStatus]int)
}

// Scheduler periodically refreshes task statistics on a cron schedule.
type Scheduler struct {
	counter  TaskCounter
	sink     StatsSink
	onError  func()
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
}

// NewScheduler creates a new scheduler instance. schedule uses the
// standard cron syntax or descriptors such as "@every 1m". onError, if not
// nil, is called after every failed refresh.
func NewScheduler(counter TaskCounter, sink StatsSink, schedule string, onError func()) *Scheduler {
	return &Scheduler{
		counter:  counter,
		sink:     sink,
		onError:  onError,
		schedule: schedule,
		timeout:  10 * time.Second,
	}
}

// Start refreshes once immediately, then on every tick of the schedule.
func (s *Scheduler) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.Refresh); err != nil {
		return fmt.Errorf("invalid stats schedule %q: %w", s.schedule, err)
	}
	s.cron = c

	log.Info().Str("schedule", s.schedule).Msg("Starting task stats scheduler")
	s.Refresh()
	c.Start()
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped task stats scheduler")
}

// Refresh queries the counts and publishes them.
func (s *Scheduler) Refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	counts, err := s.counter.CountTasksByStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to count tasks")
		if s.onError != nil {
			s.onError()
		}
		return
	}
	s.sink.SetTaskCounts(counts)
	log.Debug().Interface("counts", counts).Msg("Scheduler: task stats refreshed")
}
