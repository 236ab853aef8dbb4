package watcher

import (
	"context"
	"time"

	"github.com/suren2787/contextmap/pkg/logging"
)

// Debouncer batches rapid file system events to avoid rebuilding the context
// map once per file while a catalog sync or bulk edit is in flight.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer. quietPeriod is the silence
// required before flushing; maxWait caps how long a steady stream of events
// can delay the flush.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	var (
		quietTimer   *time.Timer
		maxWaitTimer *time.Timer
		accumulated  []string
	)

	timerC := func(t *time.Timer) <-chan time.Time {
		if t != nil {
			return t.C
		}
		return nil
	}

	flush := func() {
		if len(accumulated) == 0 {
			return
		}

		logging.Debug("flushing accumulated catalog changes", "count", len(accumulated))
		d.output <- ChangeEvent{
			Paths:     accumulated,
			Timestamp: time.Now(),
		}
		accumulated = nil

		if quietTimer != nil {
			quietTimer.Stop()
			quietTimer = nil
		}
		if maxWaitTimer != nil {
			maxWaitTimer.Stop()
			maxWaitTimer = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}

			accumulated = append(accumulated, event.Paths...)

			if quietTimer == nil {
				quietTimer = time.NewTimer(d.quietPeriod)
			} else {
				quietTimer.Reset(d.quietPeriod)
			}
			if maxWaitTimer == nil {
				maxWaitTimer = time.NewTimer(d.maxWait)
			}

		case <-timerC(quietTimer):
			flush()

		case <-timerC(maxWaitTimer):
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
