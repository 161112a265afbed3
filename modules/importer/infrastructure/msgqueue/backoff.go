package msgqueue

import "time"

// retryDelay grows exponentially with the attempt count, capped at max.
// attempt is 1-based: the first retry waits base, the second 2*base, and so on.
func retryDelay(attempt int, base, max time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
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
