package audit

import "log/slog"

type Event struct {
	ActorKind string
	ActorID   *uint
	Action    string
	Entity    string
	EntityID  string
	Metadata  any
}

// Sink accepts audit events.
type Sink interface {
	Dispatch(ev Event)
}

// Dispatcher writes audit events from a background goroutine so request
// handlers never block on the audit table.
type Dispatcher struct {
	logger *Logger
	slog   *slog.Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger, sl *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		slog:   sl,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.ActorKind,
			ev.ActorID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.slog.Error("audit write failed", slog.String("action", ev.Action), slog.String("error", err.Error()))
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// queue full, drop rather than block the request path
		d.slog.Warn("audit queue full, dropping event", slog.String("action", ev.Action))
	}
}

var _ Sink = (*Dispatcher)(nil)
