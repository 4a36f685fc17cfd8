package conversation

import (
	"fmt"
	"log/slog"
	"time"

	"tablebook/internal/domain/policy"
	"tablebook/internal/pkg/clock"
)

// StateTransitionError reports a rejected transition; the engine's state is
// unchanged when it is returned.
type StateTransitionError struct {
	From   State
	To     State
	Reason string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.To, e.Reason)
}

// Updates is a batch of field values keyed by field name. Unknown keys are
// reported per field rather than failing the batch.
type Updates map[Field]any

// UpdateResult is the complete contract an orchestrator needs to decide
// what to say next.
type UpdateResult struct {
	Updated     []Field
	Corrections []Field
	Errors      map[Field]string
}

type Progress struct {
	State           State
	CollectedFields []Field
	MissingFields   []Field
	IsComplete      bool
	Percentage      int
}

// Engine owns one conversation's context and current state. It is
// single-owner: exactly one orchestration loop drives it, so it carries no
// locking of its own.
type Engine struct {
	ctx   *Context
	cfg   *policy.Config
	clock clock.Clock
}

func NewEngine(cfg *policy.Config, clk clock.Clock) *Engine {
	return &Engine{
		ctx:   NewContext(),
		cfg:   cfg,
		clock: clk,
	}
}

func (e *Engine) State() State      { return e.ctx.State() }
func (e *Engine) Context() *Context { return e.ctx }

// CanTransitionTo validates a transition without applying it.
func (e *Engine) CanTransitionTo(target State) (bool, string) {
	current := e.ctx.State()

	if !target.IsValid() {
		return false, fmt.Sprintf("unknown state: %s", target)
	}

	// Completed is terminal.
	if current == StateCompleted {
		return false, "cannot transition from completed state"
	}

	// Resetting to greeting is always allowed (except from completed).
	if target == StateGreeting {
		return true, ""
	}

	if target == StateCompleted {
		if current != StateConfirming {
			return false, "can only complete from confirming state"
		}
		// Re-validate completeness at this moment; the context may have
		// been corrupted between confirming and completing.
		if missing := e.ctx.MissingFields(); len(missing) > 0 {
			return false, fmt.Sprintf("cannot complete booking: missing fields %v", missing)
		}
		return true, ""
	}

	if target == StateConfirming {
		if missing := e.ctx.MissingFields(); len(missing) > 0 {
			return false, fmt.Sprintf("cannot confirm: missing required fields %v", missing)
		}
		return true, ""
	}

	// Jumps between collection states support corrections.
	return true, ""
}

func (e *Engine) TransitionTo(target State) error {
	current := e.ctx.State()

	ok, reason := e.CanTransitionTo(target)
	if !ok {
		slog.Warn("rejected state transition",
			"from", current.String(), "to", target.String(), "reason", reason)
		return &StateTransitionError{From: current, To: target, Reason: reason}
	}

	e.ctx.state = target
	slog.Debug("state transition", "from", current.String(), "to", target.String())
	return nil
}

// UpdateContext applies a batch of field values in one call, supporting the
// "user said several things at once" case. Each field is set and the whole
// context re-validated; a failing field is reverted to its prior value
// without affecting the rest of the batch.
func (e *Engine) UpdateContext(updates Updates) UpdateResult {
	result := UpdateResult{Errors: make(map[Field]string)}
	now := e.clock.Now()

	for field, value := range updates {
		prior, known := e.ctx.fieldValue(field)
		if !known {
			result.Errors[field] = fmt.Sprintf("unknown field: %s", field)
			continue
		}

		if err := e.ctx.setFieldValue(field, value); err != nil {
			result.Errors[field] = err.Error()
			continue
		}

		if err := e.ctx.validate(now, e.cfg); err != nil {
			// Revert only the offending field.
			if revertErr := e.ctx.setFieldValue(field, prior); revertErr != nil {
				slog.Error("failed to revert context field", "field", field.String(), "error", revertErr)
			}
			result.Errors[field] = err.Error()
			continue
		}

		stored, _ := e.ctx.fieldValue(field)
		if prior != nil && prior != stored {
			result.Corrections = append(result.Corrections, field)
		} else {
			result.Updated = append(result.Updated, field)
		}
	}

	if len(result.Updated) > 0 || len(result.Corrections) > 0 {
		slog.Debug("context updated",
			"updated", fieldNames(result.Updated),
			"corrections", fieldNames(result.Corrections),
			"errors", len(result.Errors))
	}
	return result
}

// MissingFields returns the required fields not yet collected, in the
// canonical collection order.
func (e *Engine) MissingFields() []Field {
	return e.ctx.MissingFields()
}

// AutoAdvanceState picks the next logical state from the collected data. It
// returns the new state and true when a transition happened. It is a
// convenience over TransitionTo and MissingFields and adds no rules of its
// own.
func (e *Engine) AutoAdvanceState() (State, bool) {
	current := e.ctx.State()

	switch current {
	case StateGreeting, StateConfirming, StateCompleted:
		return current, false
	}

	if e.ctx.IsComplete() {
		if err := e.TransitionTo(StateConfirming); err != nil {
			return current, false
		}
		return StateConfirming, true
	}

	missing := e.ctx.MissingFields()
	if len(missing) == 0 {
		return current, false
	}
	next, ok := CollectionStateFor(missing[0])
	if !ok || next == current {
		return current, false
	}
	if err := e.TransitionTo(next); err != nil {
		return current, false
	}
	return next, true
}

// Reset discards the context and returns to greeting. Unlike
// TransitionTo(StateGreeting) it is allowed from the completed state, so a
// finished call can start a fresh booking.
func (e *Engine) Reset() {
	e.ctx = NewContext()
	slog.Debug("conversation reset")
}

func (e *Engine) Progress() Progress {
	collected := e.ctx.CollectedFields()
	missing := e.ctx.MissingFields()
	required := len(requiredFields)
	return Progress{
		State:           e.ctx.State(),
		CollectedFields: collected,
		MissingFields:   missing,
		IsComplete:      len(missing) == 0,
		Percentage:      (required - len(missing)) * 100 / required,
	}
}

// Now exposes the engine's clock so callers share its notion of "today".
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return names
}
