package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/ardika/scanarb/internal/apperror"
)

func TestExecute_Success(t *testing.T) {
	cb := New[int](DefaultConfig("test"))

	got, err := cb.Execute(func() (int, error) { return 7, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestExecute_PassesThroughError(t *testing.T) {
	cb := New[int](DefaultConfig("test"))
	boom := errors.New("boom")

	_, err := cb.Execute(func() (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected underlying error, got %v", err)
	}
}

func TestExecute_OpensAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.FailureThreshold = 3
	cb := New[string](cfg)

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (string, error) { return "", boom })
	}

	_, err := cb.Execute(func() (string, error) { return "never", nil })
	if apperror.GetCode(err) != apperror.CodeCircuitOpen {
		t.Errorf("expected CIRCUIT_OPEN, got %v", err)
	}
	if cb.State() != "open" {
		t.Errorf("expected open state, got %s", cb.State())
	}
}
