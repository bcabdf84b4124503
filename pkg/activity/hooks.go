package activity

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// Event is one catalog mutation as seen by activity hooks. ObjectID carries
// the product or variant id in its string form.
type Event struct {
	Verb       string
	ActorID    string
	ObjectType string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Normalize returns a copy with trimmed identifiers, its own metadata map and
// a timestamp.
func (e Event) Normalize() Event {
	out := e
	out.Verb = strings.TrimSpace(e.Verb)
	out.ActorID = strings.TrimSpace(e.ActorID)
	out.ObjectType = strings.TrimSpace(e.ObjectType)
	out.ObjectID = strings.TrimSpace(e.ObjectID)
	out.Channel = strings.TrimSpace(e.Channel)
	out.Metadata = cloneMap(e.Metadata)
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now()
	}
	return out
}

// Addressable reports whether the event names a verb and the entity it
// touched. Hooks skip events that do not.
func (e Event) Addressable() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// ActivityHook receives normalized catalog events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// HookError reports which hook in a Hooks list failed.
type HookError struct {
	Index int
	Verb  string
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("activity: hook %d on %s: %v", e.Index, e.Verb, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// Hooks delivers each event to every hook in order.
type Hooks []ActivityHook

// Enabled reports whether any non-nil hook is present.
func (h Hooks) Enabled() bool {
	for _, hook := range h {
		if hook != nil {
			return true
		}
	}
	return false
}

// Notify normalizes event and hands it to every hook, including those after a
// failing one. Failures come back joined, each as a *HookError.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if !h.Enabled() {
		return nil
	}
	event = event.Normalize()
	if !event.Addressable() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for i, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, &HookError{Index: i, Verb: event.Verb, Err: err})
		}
	}
	return errors.Join(errs...)
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}
