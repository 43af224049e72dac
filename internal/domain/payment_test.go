package domain

import (
	"testing"
	"time"
)

func TestAttemptState_IsTerminal(t *testing.T) {
	t.Parallel()

	terminal := []AttemptState{AttemptStateCompleted, AttemptStateFailed, AttemptStateTimedOut}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	open := []AttemptState{AttemptStateInitiating, AttemptStateAwaitingConfirmation}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
}

func TestPaymentAttempt_ResolveOnce(t *testing.T) {
	t.Parallel()

	attempt := &PaymentAttempt{State: AttemptStateAwaitingConfirmation}
	now := time.Now()

	if !attempt.Resolve(AttemptStateCompleted, now) {
		t.Fatal("expected first resolution to apply")
	}
	if attempt.State != AttemptStateCompleted {
		t.Fatalf("expected COMPLETED, got %s", attempt.State)
	}

	// A later resolution must never overwrite a terminal state.
	if attempt.Resolve(AttemptStateTimedOut, now.Add(time.Minute)) {
		t.Error("expected second resolution to be rejected")
	}
	if attempt.State != AttemptStateCompleted {
		t.Errorf("terminal state was overwritten to %s", attempt.State)
	}
}

func TestPaymentAttempt_ResolveRejectsNonTerminal(t *testing.T) {
	t.Parallel()

	attempt := &PaymentAttempt{State: AttemptStateAwaitingConfirmation}
	if attempt.Resolve(AttemptStateInitiating, time.Now()) {
		t.Error("expected non-terminal target state to be rejected")
	}
}
