package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrNoCollaborator is reported when an event has no backend to go to.
var ErrNoCollaborator = errors.New("no collaborator for event")

// Options configures a Dispatcher. Any collaborator may be nil.
type Options struct {
	Desktop Desktop
	Mixer   Mixer
	Canvas  Canvas
	Journal Journal
	Logger  zerolog.Logger
}

// Dispatcher applies events to the OS boundary. Collaborator failures are
// logged and counted but never returned, so one bad frame cannot stop the loop.
type Dispatcher struct {
	desktop Desktop
	mixer   Mixer
	canvas  Canvas
	journal Journal
	log     zerolog.Logger

	applied  metric.Int64Counter
	failures metric.Int64Counter
}

// NewDispatcher creates a Dispatcher.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewDispatcher(opts Options) (*Dispatcher, error) {
	d := &Dispatcher{
		desktop: opts.Desktop,
		mixer:   opts.Mixer,
		canvas:  opts.Canvas,
		journal: opts.Journal,
		log:     opts.Logger.With().Str("component", "dispatcher").Logger(),
	}

	m := meter()

	var err error

	d.applied, err = m.Int64Counter(
		"mudra.actions",
		metric.WithDescription("Total actions applied"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating actions counter: %w", err)
	}

	d.failures, err = m.Int64Counter(
		"mudra.action.failures",
		metric.WithDescription("Total actions that failed at the OS boundary"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}

	return d, nil
}

// Dispatch applies ev and reports whether it reached its collaborator.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) bool {
	kindAttr := metric.WithAttributes(attribute.String("kind", string(ev.Kind)))

	if err := d.apply(ctx, ev); err != nil {
		d.failures.Add(ctx, 1, kindAttr)
		if errors.Is(err, ErrNoCollaborator) {
			d.log.Debug().Str("kind", string(ev.Kind)).Msg("event dropped")
		} else {
			d.log.Warn().Err(err).Str("kind", string(ev.Kind)).Str("detail", ev.Detail()).Msg("action failed")
		}
		return false
	}

	d.applied.Add(ctx, 1, kindAttr)

	if d.journal != nil && ev.Kind.Discrete() {
		if err := d.journal.Record(ctx, ev); err != nil {
			d.log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("journal write failed")
		}
	}
	return true
}

func (d *Dispatcher) apply(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case KindMove:
		if d.desktop == nil {
			return ErrNoCollaborator
		}
		return d.desktop.MoveCursor(ctx, ev.X, ev.Y)
	case KindClick:
		if d.desktop == nil {
			return ErrNoCollaborator
		}
		return d.desktop.Click(ctx, ev.Button)
	case KindScroll:
		if d.desktop == nil {
			return ErrNoCollaborator
		}
		return d.desktop.Scroll(ctx, ev.Delta)
	case KindVolume:
		if d.mixer == nil {
			return ErrNoCollaborator
		}
		return d.mixer.SetVolume(ctx, ev.Percent)
	case KindDraw:
		if d.canvas == nil {
			return ErrNoCollaborator
		}
		return d.canvas.DrawStroke(ev.Stroke)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}
