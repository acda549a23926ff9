package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", New(NotFound, "missing"), NotFound},
		{"forbidden", New(Forbidden, "denied"), Forbidden},
		{"wrapped in fmt", fmt.Errorf("outer: %w", New(AlreadyExists, "dup")), AlreadyExists},
		{"plain error", errors.New("boom"), Internal},
		{"nil-cause wrap", Wrap(InvalidArgument, "bad", errors.New("cause")), InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	if got := Message(New(NotFound, "song not found")); got != "song not found" {
		t.Errorf("Message = %q, want classified message", got)
	}
	// Unclassified errors must not leak internals to clients.
	if got := Message(errors.New("dial tcp 10.0.0.1: connection refused")); got != "internal server error" {
		t.Errorf("Message = %q, want opaque message", got)
	}
	if got := Message(Wrap(Internal, "failed to load song", errors.New("db down"))); got != "internal server error" {
		t.Errorf("Message = %q, want opaque message for Internal kind", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(Internal, "context", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
}

func TestIs(t *testing.T) {
	err := New(Forbidden, "nope")
	if !Is(err, Forbidden) {
		t.Error("Is should match the kind")
	}
	if Is(err, NotFound) {
		t.Error("Is should not match a different kind")
	}
	if Is(nil, Forbidden) {
		t.Error("Is(nil) should be false")
	}
}
