package gesture

import (
	"context"
	"fmt"
	"io"

	"github.com/banshee-data/gestured/internal/evdev"
	"github.com/banshee-data/gestured/internal/timeutil"
)

// Engine is the composition root of the recognition core: one Tracker,
// one Classifier, one immutable Config. It turns an evdev.Source into an
// ordered sequence of gesture and lifecycle events.
type Engine struct {
	cfg        Config
	tracker    *Tracker
	classifier *Classifier
}

// NewEngine creates an engine with the given config snapshot. A nil clock
// selects the real clock.
func NewEngine(cfg Config, clock timeutil.Clock) *Engine {
	return &Engine{
		cfg:        cfg,
		tracker:    NewTracker(cfg.Debounce, clock),
		classifier: NewClassifier(cfg),
	}
}

// Process feeds one raw event through the tracker and, when the event
// closed a decision point, through the classifier. Events are returned in
// emission order: lifecycle notifications first, then at most one gesture.
func (e *Engine) Process(ev evdev.Event) []Event {
	events, snap := e.tracker.Ingest(ev)
	if snap != nil {
		if g := e.classifier.Analyze(*snap); g != nil {
			events = append(events, *g)
		}
	}
	return events
}

// Run pumps the source until it ends or ctx is cancelled, sending every
// produced event to out in order. It closes out on return. The source is
// read from a helper goroutine so a blocking device read cannot outlive
// cancellation; events are still processed strictly in arrival order by
// this single goroutine.
//
// A source that ends cleanly (io.EOF) returns nil; a failing source
// returns the wrapped terminal error. Reconnect policy belongs to the
// caller.
func (e *Engine) Run(ctx context.Context, src evdev.Source, out chan<- Event) error {
	defer close(out)

	type readResult struct {
		ev  evdev.Event
		err error
	}
	readCh := make(chan readResult)
	go func() {
		defer close(readCh)
		for {
			ev, err := src.Next()
			select {
			case readCh <- readResult{ev: ev, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-readCh:
			if !ok {
				return nil
			}
			if r.err == io.EOF {
				return nil
			}
			if r.err != nil {
				return fmt.Errorf("input source failed: %w", r.err)
			}
			for _, ev := range e.Process(r.ev) {
				select {
				case out <- ev:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}
