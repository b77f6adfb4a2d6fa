package disclosure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/cache"
)

// Scheduler queues a drafting run for a disclosure without waiting for it.
type Scheduler interface {
	ScheduleDrafting(ctx context.Context, disclosureID uuid.UUID) error
}

// Runner executes one drafting run.
type Runner interface {
	Run(ctx context.Context, disclosureID uuid.UUID) error
}

// InlineScheduler runs drafting jobs on goroutines inside the API process.
// Runs that find the drafting lock taken are retried a few times.
type InlineScheduler struct {
	runner   Runner
	attempts int
	delay    time.Duration
	wg       sync.WaitGroup
}

func NewInlineScheduler(r Runner) *InlineScheduler {
	return &InlineScheduler{runner: r, attempts: 5, delay: 2 * time.Second}
}

func (s *InlineScheduler) ScheduleDrafting(ctx context.Context, disclosureID uuid.UUID) error {
	// The job outlives the request that scheduled it.
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("drafting job panicked", "disclosure_id", disclosureID, "panic", fmt.Sprint(r))
			}
		}()

		for attempt := 1; ; attempt++ {
			err := s.runner.Run(ctx, disclosureID)
			if err == nil {
				return
			}
			if !errors.Is(err, cache.ErrLocked) || attempt >= s.attempts {
				slog.Error("drafting job failed", "disclosure_id", disclosureID, "attempt", attempt, "error", err)
				return
			}
			time.Sleep(time.Duration(attempt) * s.delay)
		}
	}()
	return nil
}

// Wait blocks until every scheduled job has finished.
func (s *InlineScheduler) Wait() {
	s.wg.Wait()
}
