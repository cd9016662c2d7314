// Package state tracks what the bot currently expects from each user.
// The machine is per user, lives in memory only and is gone after a
// restart, which is fine for this domain.
package state

import "sync"

type Kind int

const (
	// Idle means the user sits at the main menu.
	Idle Kind = iota
	// AwaitingPartnerHandle means the next free-text message is read as
	// a partner username.
	AwaitingPartnerHandle
	// ViewingMovie means a movie card is on screen; MovieID says which.
	ViewingMovie
)

// State is the full per-user conversation state. The zero value is Idle
// with no current movie.
type State struct {
	Kind    Kind
	MovieID int64
}

type EventKind int

const (
	// PartnerPromptShown fires when the bot asks for a partner username.
	PartnerPromptShown EventKind = iota
	// PartnerHandleConsumed fires after one free-text message was read,
	// whether or not the handle resolved.
	PartnerHandleConsumed
	// MovieShown fires whenever a fresh movie card is rendered.
	MovieShown
	// MenuOpened fires when the user returns to the main menu.
	MenuOpened
)

type Event struct {
	Kind    EventKind
	MovieID int64
}

// Apply is the pure transition function. It knows nothing about the
// transport or about side effects.
func Apply(current State, event Event) State {
	switch event.Kind {
	case PartnerPromptShown:
		return State{Kind: AwaitingPartnerHandle}
	case PartnerHandleConsumed:
		return State{Kind: Idle}
	case MovieShown:
		return State{Kind: ViewingMovie, MovieID: event.MovieID}
	case MenuOpened:
		return State{Kind: Idle}
	}
	return current
}

// Registry maps user identifiers to their conversation state. An absent
// entry reads as Idle; entries never leak between users.
type Registry struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewRegistry() *Registry {
	return &Registry{states: make(map[int64]State)}
}

func (r *Registry) Get(userID int64) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[userID]
}

// Apply advances one user's state through the transition function and
// returns the new state. Idle entries are dropped from the map so the
// registry only holds users mid-interaction.
func (r *Registry) Apply(userID int64, event Event) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := Apply(r.states[userID], event)
	if next.Kind == Idle {
		delete(r.states, userID)
	} else {
		r.states[userID] = next
	}
	return next
}
