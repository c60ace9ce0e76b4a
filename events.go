package splaytext

import (
	"context"

	"github.com/guiguan/caster"
)

// ReplaceEvent describes a change of a text. The section from
// (StartLine, StartChar) to (ReplacedEndLine, ReplacedEndCharPlusOne) is the
// replacement, in coordinates valid after the change. Deleted holds the
// removed section, or nil if nothing is removed.
type ReplaceEvent struct {
	StartLine              int
	StartChar              int
	Deleted                *Text
	ReplacedEndLine        int
	ReplacedEndCharPlusOne int
}

// LinesAffected returns the number of lines changed or inserted by the
// replacement, starting at StartLine.
func (ev ReplaceEvent) LinesAffected() int {
	return ev.ReplacedEndLine - ev.StartLine + 1
}

// LinesRemoved returns the number of lines the replacement removed behind
// StartLine.
func (ev ReplaceEvent) LinesRemoved() int {
	if ev.Deleted == nil {
		return 0
	}
	return ev.Deleted.Count() - 1
}

// OnReplace registers a hook which is called synchronously before a section
// operation changes t.
func (t *Text) OnReplace(hook func(ReplaceEvent)) {
	t.hooks = append(t.hooks, hook)
}

// Subscribe returns a channel of replace events of t. Events are delivered
// asynchronously, in order, after the hooks registered with OnReplace have
// run. The channel is closed when ctx is done or t is closed. Subscribers
// have to keep reading until they cancel ctx, otherwise modifications of t
// will block.
func (t *Text) Subscribe(ctx context.Context, capacity uint) <-chan ReplaceEvent {
	if t.cast == nil {
		t.cast = caster.New(nil)
	}
	out := make(chan ReplaceEvent, capacity)
	sub, ok := t.cast.Sub(ctx, capacity)
	if !ok {
		close(out)
		return out
	}
	go func() {
		defer close(out)
		for msg := range sub {
			select {
			case out <- msg.(ReplaceEvent):
			case <-ctx.Done():
				// The caster blocks on a full subscription and closes it
				// with the next event after ctx is done.
				for range sub {
				}
				return
			}
		}
	}()
	return out
}

// Close closes all subscription channels of t. t remains usable.
func (t *Text) Close() {
	if t.cast != nil {
		t.cast.Close()
		t.cast = nil
	}
}

func (t *Text) observed() bool {
	return len(t.hooks) > 0 || t.cast != nil
}

func (t *Text) notify(ev ReplaceEvent) {
	T().Debugf("text: replace (%d,%d)-(%d,%d)", ev.StartLine, ev.StartChar,
		ev.ReplacedEndLine, ev.ReplacedEndCharPlusOne)
	for _, hook := range t.hooks {
		hook(ev)
	}
	if t.cast != nil {
		t.cast.Pub(ev)
	}
}
