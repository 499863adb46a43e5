package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fd1az/campus-rewards/internal/apperror"
)

var errBoom = errors.New("boom")

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Minute

	var transitions []gobreaker.State
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}

	cb := New[int](cfg)
	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(func() (int, error) { return 0, errBoom }); !errors.Is(err, errBoom) {
			t.Fatalf("attempt %d: expected errBoom, got %v", i, err)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", cb.State())
	}

	_, err := cb.Execute(func() (int, error) { return 1, nil })
	if apperror.GetCode(err) != apperror.CodeCircuitOpen {
		t.Errorf("expected CIRCUIT_OPEN, got %v", err)
	}
	if len(transitions) != 1 || transitions[0] != gobreaker.StateOpen {
		t.Errorf("unexpected transitions %v", transitions)
	}
}

func TestCircuitBreaker_IsSuccessfulExcludesErrors(t *testing.T) {
	cfg := DefaultConfig("declines")
	cfg.FailureThreshold = 1
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, errBoom) }

	cb := New[string](cfg)
	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (string, error) { return "", errBoom })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected closed breaker, got %s", cb.State())
	}

	got, err := cb.Execute(func() (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Errorf("got %q, %v", got, err)
	}
}
