package session

// EventType tags the closed set of auth notifications the guard reacts to.
type EventType int

const (
	// EventSignedIn is ignored: Login sets in-memory state synchronously,
	// reacting to the async notification as well would race it.
	EventSignedIn EventType = iota
	EventSignedOut
	EventTokenRefreshed
)

type Event struct {
	Type EventType
}

func (t EventType) String() string {
	switch t {
	case EventSignedIn:
		return "signed-in"
	case EventSignedOut:
		return "signed-out"
	case EventTokenRefreshed:
		return "token-refreshed"
	default:
		return "unknown"
	}
}
