package store

// Status tracks the fetch lifecycle of a store. Transitions move
// StatusIdle -> StatusLoading -> StatusReady; Clear resets to StatusIdle.
// Whether the last fetch attempt failed is tracked separately via LastErr,
// so a failed attempt is distinguishable from fresh data.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}
