package store

import "time"

// SetNow pins the clock used for lastUpdated stamps.
func SetNow(fn func() time.Time) func() {
	prev := now
	now = fn
	return func() { now = prev }
}
