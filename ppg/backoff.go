package ppg

import "time"

// reconnectDelay computes the backoff delay before reconnect attempt n:
// base doubled per prior attempt, capped at max. Attempts below 1 are
// treated as 1.
func reconnectDelay(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = defaultBaseReconnectDelay
	}
	if max <= 0 {
		max = defaultMaxReconnectDelay
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}
