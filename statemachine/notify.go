package statemachine

import (
	"slices"

	"github.com/google/uuid"
)

// Handle identifies a listener registration.
type Handle struct {
	id uuid.UUID
}

func (h Handle) String() string {
	return h.id.String()
}

type listener[T any] struct {
	handle Handle
	fn     func(T)
}

// Notifier is the synchronous listener registry shared by both machine
// kinds. Listeners run in registration order, on the goroutine performing
// the transition, once per successful transition.
//
// Registrations are copy-on-write: a transition notifies the listeners that
// were registered when its notification began, even if some of them are
// removed, or new ones added, while it is being delivered.
type Notifier[S comparable] struct {
	stateListeners      []listener[S]
	transitionListeners []listener[TransitionEvent[S]]
}

// AddStateListener registers fn to receive every new state.
func (n *Notifier[S]) AddStateListener(fn func(state S)) Handle {
	h := Handle{id: uuid.New()}
	n.stateListeners = append(slices.Clip(n.stateListeners), listener[S]{handle: h, fn: fn})

	return h
}

// AddTransitionListener registers fn to receive every completed transition.
func (n *Notifier[S]) AddTransitionListener(fn func(event TransitionEvent[S])) Handle {
	h := Handle{id: uuid.New()}
	n.transitionListeners = append(
		slices.Clip(n.transitionListeners),
		listener[TransitionEvent[S]]{handle: h, fn: fn},
	)

	return h
}

// RemoveListener deregisters the listener behind h. It reports whether a
// registration was found.
func (n *Notifier[S]) RemoveListener(h Handle) bool {
	if i := slices.IndexFunc(n.stateListeners, matchHandle[S](h)); i >= 0 {
		n.stateListeners = slices.Delete(slices.Clone(n.stateListeners), i, i+1)

		return true
	}

	if i := slices.IndexFunc(n.transitionListeners, matchHandle[TransitionEvent[S]](h)); i >= 0 {
		n.transitionListeners = slices.Delete(slices.Clone(n.transitionListeners), i, i+1)

		return true
	}

	return false
}

// ListenerCount returns the number of registered listeners of both kinds.
func (n *Notifier[S]) ListenerCount() int {
	return len(n.stateListeners) + len(n.transitionListeners)
}

func (n *Notifier[S]) notify(event TransitionEvent[S]) {
	states, transitions := n.stateListeners, n.transitionListeners

	for _, l := range states {
		l.fn(event.Target)
	}

	for _, l := range transitions {
		l.fn(event)
	}
}

func matchHandle[T any](h Handle) func(listener[T]) bool {
	return func(l listener[T]) bool {
		return l.handle == h
	}
}
