package syncerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorMessage(t *testing.T) {
	base := errors.New("connection refused")
	err := Transient("fetching index", base)

	if got := err.Error(); got != "TRANSIENT_SOURCE: fetching index: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, base) {
		t.Error("wrapped cause not reachable through errors.Is")
	}
	if len(err.Stack) == 0 {
		t.Error("stack not captured")
	}
}

func TestDomainErrorWithoutCause(t *testing.T) {
	err := Normalization("missing title", nil)
	if got := err.Error(); got != "NORMALIZATION: missing title" {
		t.Errorf("Error() = %q", got)
	}
	if len(err.Stack) == 0 {
		t.Error("stack not captured for cause-less error")
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorType
	}{
		{Transient("x", nil), ErrTypeTransient},
		{UnsupportedPlatform("x", nil), ErrTypeUnsupportedPlatform},
		{Normalization("x", nil), ErrTypeNormalization},
		{Persistence("x", nil), ErrTypePersistence},
		{Fatal("x", nil), ErrTypeFatal},
		{errors.New("plain"), ErrTypeTransient},
		{fmt.Errorf("wrapped: %w", Persistence("save failed", nil)), ErrTypePersistence},
	}

	for _, tt := range tests {
		if got := TypeOf(tt.err); got != tt.want {
			t.Errorf("TypeOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestIs(t *testing.T) {
	err := Fatal("store unreachable", nil)
	if !Is(err, ErrTypeFatal) {
		t.Error("Is(fatal, fatal) = false")
	}
	if Is(err, ErrTypeTransient) {
		t.Error("Is(fatal, transient) = true")
	}
}
