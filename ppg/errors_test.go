package ppg

import (
	"errors"
	"fmt"
	"testing"
)

func TestClientErrorMessage(t *testing.T) {
	err := NewError(ErrorInvalidConfig, "server URL is required")
	if got, want := err.Error(), "invalid_config: server URL is required"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	wrapped := WrapError(ErrorConnection, "open failed", errors.New("refused"))
	if got, want := wrapped.Error(), "connection_error: open failed: refused"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestClientErrorUnwrapAndIs(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	err := WrapError(ErrorConnection, "open failed", inner)
	if !errors.Is(err, inner) {
		t.Fatal("wrapped error must be reachable via errors.Is")
	}
	if !errors.Is(err, NewError(ErrorConnection, "")) {
		t.Fatal("errors.Is must match on code")
	}
	if errors.Is(err, NewError(ErrorTimeout, "")) {
		t.Fatal("errors.Is must not match a different code")
	}
}

func TestIsConnectionError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{WrapError(ErrorConnection, "connection lost", errors.New("eof")), true},
		{WrapError(ErrorTimeout, "keepalive probe failed", errors.New("deadline")), true},
		{fmt.Errorf("observed: %w", NewError(ErrorConnection, "open failed")), true},
		{NewError(ErrorInvalidConfig, "bad url"), false},
		{errors.New("plain"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsConnectionError(tc.err); got != tc.want {
			t.Errorf("IsConnectionError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
