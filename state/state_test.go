package state

import "testing"

func TestApplyTransitions(t *testing.T) {
	idle := State{}

	awaiting := Apply(idle, Event{Kind: PartnerPromptShown})
	if awaiting.Kind != AwaitingPartnerHandle {
		t.Fatalf("expected AwaitingPartnerHandle got %v", awaiting.Kind)
	}

	back := Apply(awaiting, Event{Kind: PartnerHandleConsumed})
	if back.Kind != Idle {
		t.Fatalf("expected Idle after handle consumed, got %v", back.Kind)
	}

	viewing := Apply(idle, Event{Kind: MovieShown, MovieID: 42})
	if viewing.Kind != ViewingMovie || viewing.MovieID != 42 {
		t.Fatalf("expected ViewingMovie(42) got %+v", viewing)
	}

	next := Apply(viewing, Event{Kind: MovieShown, MovieID: 7})
	if next.Kind != ViewingMovie || next.MovieID != 7 {
		t.Fatalf("expected ViewingMovie(7) got %+v", next)
	}

	menu := Apply(viewing, Event{Kind: MenuOpened})
	if menu.Kind != Idle || menu.MovieID != 0 {
		t.Fatalf("expected clean Idle got %+v", menu)
	}
}

func TestRegistryDefaultsToIdle(t *testing.T) {
	registry := NewRegistry()

	got := registry.Get(99)
	if got.Kind != Idle || got.MovieID != 0 {
		t.Fatalf("expected zero state for unknown user, got %+v", got)
	}
}

func TestRegistryKeepsUsersApart(t *testing.T) {
	registry := NewRegistry()

	registry.Apply(1, Event{Kind: MovieShown, MovieID: 42})
	registry.Apply(2, Event{Kind: PartnerPromptShown})

	if got := registry.Get(1); got.Kind != ViewingMovie || got.MovieID != 42 {
		t.Fatalf("user 1 state wrong: %+v", got)
	}
	if got := registry.Get(2); got.Kind != AwaitingPartnerHandle {
		t.Fatalf("user 2 state wrong: %+v", got)
	}
}

func TestRegistryDropsIdleEntries(t *testing.T) {
	registry := NewRegistry()

	registry.Apply(1, Event{Kind: MovieShown, MovieID: 42})
	registry.Apply(1, Event{Kind: MenuOpened})

	registry.mu.Lock()
	_, present := registry.states[1]
	registry.mu.Unlock()
	if present {
		t.Fatalf("idle entry should be dropped from the registry")
	}
}
