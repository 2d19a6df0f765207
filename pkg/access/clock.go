package access

import "time"

// NowFunc supplies the current time as epoch seconds. Production callers use
// WallClock; tests inject fixed instants for deterministic resolution.
type NowFunc func() int64

// WallClock returns the current UTC time in epoch seconds.
func WallClock() int64 {
	return time.Now().UTC().Unix()
}
