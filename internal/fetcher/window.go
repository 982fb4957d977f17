package fetcher

import "time"

// Window is the competition interval records must fall into. Both bounds
// are inclusive, regardless of provider.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && !ts.After(w.End)
}
