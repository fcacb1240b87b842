package lifecycle

import (
	"context"
	"fmt"

	domainerrors "github.com/tracewire/tracewire/pkg/instrument/errors"
)

// Phase identifies one of the two pipeline phases.
type Phase string

const (
	PhaseBeforePackage Phase = "before-package"
	PhaseAfterPackage  Phase = "after-package"
)

// Event is a host lifecycle event name.
type Event string

const (
	EventBeforePackage        Event = "before:package"
	EventAfterPackage         Event = "after:package"
	EventBeforeDeployFunction Event = "before:deploy:function"
	EventAfterDeployFunction  Event = "after:deploy:function"
	EventBeforeInvokeLocal    Event = "before:invoke:local"
	EventAfterInvokeLocal     Event = "after:invoke:local"
	EventBeforeOfflineStart   Event = "before:offline:start"
	EventGenerateInit         Event = "instrument:generate:init"
	EventGenerateWrite        Event = "instrument:generate:write"
	EventCleanInit            Event = "instrument:clean:init"
	EventCleanWrite           Event = "instrument:clean:write"
)

// phaseForEvent collapses the many host event names onto the two phase
// handlers. Several distinct events deliberately share a phase.
var phaseForEvent = map[Event]Phase{
	EventBeforePackage:        PhaseBeforePackage,
	EventBeforeDeployFunction: PhaseBeforePackage,
	EventBeforeInvokeLocal:    PhaseBeforePackage,
	EventBeforeOfflineStart:   PhaseBeforePackage,
	EventGenerateInit:         PhaseBeforePackage,
	EventCleanInit:            PhaseBeforePackage,

	EventAfterPackage:        PhaseAfterPackage,
	EventAfterDeployFunction: PhaseAfterPackage,
	EventAfterInvokeLocal:    PhaseAfterPackage,
	EventGenerateWrite:       PhaseAfterPackage,
	EventCleanWrite:          PhaseAfterPackage,
}

// Events returns every routable event name.
func Events() []Event {
	events := make([]Event, 0, len(phaseForEvent))
	for e := range phaseForEvent {
		events = append(events, e)
	}
	return events
}

// PhaseFor returns the phase an event routes to.
func PhaseFor(event Event) (Phase, bool) {
	p, ok := phaseForEvent[event]
	return p, ok
}

// Runner is the pair of phase entry points the dispatcher routes to.
// *instrument.Pipeline satisfies it.
type Runner interface {
	BeforePackage(ctx context.Context) error
	AfterPackage(ctx context.Context) error
}

// Dispatcher maps lifecycle events to phases. It performs no business
// logic of its own; it only decides which phase to invoke and enforces
// that the before-package phase completes before the after-package
// phase runs within one command execution.
type Dispatcher struct {
	runner    Runner
	ranBefore bool
}

// NewDispatcher creates a dispatcher over the given runner.
func NewDispatcher(runner Runner) *Dispatcher {
	return &Dispatcher{runner: runner}
}

// Dispatch routes one event to its phase. An event for the
// after-package phase arriving before the before-package phase has run
// triggers the before-package phase first, preserving the fixed phase
// order no matter which host events fire.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	phase, ok := phaseForEvent[event]
	if !ok {
		return domainerrors.New(domainerrors.DomainPipeline, domainerrors.CodeUnknownEvent,
			fmt.Sprintf("unknown lifecycle event %q", event))
	}

	switch phase {
	case PhaseBeforePackage:
		if d.ranBefore {
			return nil
		}
		if err := d.runner.BeforePackage(ctx); err != nil {
			return err
		}
		d.ranBefore = true
		return nil
	default:
		if !d.ranBefore {
			if err := d.runner.BeforePackage(ctx); err != nil {
				return err
			}
			d.ranBefore = true
		}
		return d.runner.AfterPackage(ctx)
	}
}
