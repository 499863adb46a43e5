package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew_UsesMessageTable(t *testing.T) {
	err := New(CodeUserRejected)
	if err.Message != messages[CodeUserRejected] {
		t.Errorf("expected table message, got %q", err.Message)
	}
	if len(err.stack) == 0 {
		t.Error("expected captured stack")
	}
}

func TestNew_UnknownCodeFallsBackToCode(t *testing.T) {
	err := New(Code("SOMETHING_ELSE"))
	if err.Message != "SOMETHING_ELSE" {
		t.Errorf("expected code as message, got %q", err.Message)
	}
}

func TestHasCode_ThroughWrapping(t *testing.T) {
	base := External(CodeConnectionFailed, "bridge", errors.New("dial refused"))
	wrapped := fmt.Errorf("connect: %w", base)

	if !HasCode(wrapped, CodeConnectionFailed) {
		t.Error("expected code to be found through fmt wrapping")
	}
	if HasCode(wrapped, CodeUserRejected) {
		t.Error("did not expect a different code to match")
	}
	if GetCode(wrapped) != CodeConnectionFailed {
		t.Errorf("GetCode = %s", GetCode(wrapped))
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, CodeInternalError, "x") != nil {
		t.Fatal("wrapping nil must return nil")
	}

	plain := errors.New("disk full")
	got := Wrap(plain, CodeStorageFailure, "kv set")
	if got.Code != CodeStorageFailure {
		t.Errorf("expected storage code, got %s", got.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("expected cause to be unwrappable")
	}

	existing := New(CodeUserRejected)
	again := Wrap(existing, CodeInternalError, "ctx")
	if again != existing {
		t.Error("expected existing AppError to be returned as-is")
	}
	if again.Context != "ctx" {
		t.Errorf("expected context to be filled, got %q", again.Context)
	}
}

func TestLogArgs(t *testing.T) {
	err := Internal(CodeStorageFailure, "persist log", errors.New("locked"))
	args := err.LogArgs()
	if len(args)%2 != 0 {
		t.Fatalf("expected even number of args, got %d", len(args))
	}
	found := false
	for i := 0; i < len(args); i += 2 {
		if args[i] == "cause" && args[i+1] == "locked" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected cause in log args: %v", args)
	}
}
