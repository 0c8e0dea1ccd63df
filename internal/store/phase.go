// Package store holds the task and category state as values mutated only through
// pure reducers. Loads are numbered: a completion is applied only when it answers
// the most recent BeginLoad, so overlapping loads cannot overwrite newer data.
package store

// Phase is the load state of a store.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Errored
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// BeginLoad starts a new load. The reducer bumps the store's Seq; the caller
// reads it back to tag the matching completion.
type BeginLoad struct{}

// LoadFailed completes load Seq with an error message.
type LoadFailed struct {
	Seq uint64
	Err string
}
