package domain

import "testing"

func TestPercentageGuardsZeroAnswered(t *testing.T) {
	if got := Percentage(0, 0); got != 0 {
		t.Fatalf("expected 0 for zero answered, got %v", got)
	}
	if got := Percentage(5, 0); got != 0 {
		t.Fatalf("expected 0 for zero answered regardless of score, got %v", got)
	}
}

func TestPercentageRounds(t *testing.T) {
	if got := Percentage(2, 3); got != 67 {
		t.Fatalf("expected 67, got %v", got)
	}
	if got := Percentage(2, 2); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestNewSessionIsSentinel(t *testing.T) {
	s := NewSession()
	if s.Started() {
		t.Fatalf("new session should not be started")
	}
	if s.Index != SentinelIndex {
		t.Fatalf("expected sentinel index, got %d", s.Index)
	}
}
