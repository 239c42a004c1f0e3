package ppg

import (
	"testing"
	"time"
)

func TestReconnectDelaySequence(t *testing.T) {
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, // capped, not 32
	}
	for i, w := range want {
		got := reconnectDelay(1*time.Second, 30*time.Second, i+1)
		if got != w {
			t.Errorf("attempt %d: got %v, want %v", i+1, got, w)
		}
	}
}

func TestReconnectDelayStaysCapped(t *testing.T) {
	for _, attempt := range []int{7, 10, 63, 64, 65, 1000} {
		got := reconnectDelay(1*time.Second, 30*time.Second, attempt)
		if got != 30*time.Second {
			t.Errorf("attempt %d: got %v, want 30s", attempt, got)
		}
	}
}

func TestReconnectDelayLowAttempt(t *testing.T) {
	for _, attempt := range []int{0, -1, 1} {
		got := reconnectDelay(2*time.Second, 30*time.Second, attempt)
		if got != 2*time.Second {
			t.Errorf("attempt %d: got %v, want base", attempt, got)
		}
	}
}

func TestReconnectDelayZeroConfigUsesDefaults(t *testing.T) {
	if got := reconnectDelay(0, 0, 1); got != defaultBaseReconnectDelay {
		t.Errorf("got %v, want %v", got, defaultBaseReconnectDelay)
	}
	if got := reconnectDelay(0, 0, 100); got != defaultMaxReconnectDelay {
		t.Errorf("got %v, want %v", got, defaultMaxReconnectDelay)
	}
}
