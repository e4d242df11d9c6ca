package session

// State is the lifecycle stage of a session.
type State int32

const (
	StateOpening State = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Reason records why a session closed.
type Reason int

const (
	ReasonExplicit Reason = iota
	ReasonPlayer
	ReasonDisconnect
	ReasonReplaced
	ReasonShutdown
	ReasonClickOutside
	ReasonClickEmpty
)

func (r Reason) String() string {
	switch r {
	case ReasonExplicit:
		return "explicit"
	case ReasonPlayer:
		return "player"
	case ReasonDisconnect:
		return "disconnect"
	case ReasonReplaced:
		return "replaced"
	case ReasonShutdown:
		return "shutdown"
	case ReasonClickOutside:
		return "click_outside"
	case ReasonClickEmpty:
		return "click_empty"
	}
	return "unknown"
}

// viewGone reports whether the client no longer shows the view, so there is
// nothing to close on the host.
func (r Reason) viewGone() bool {
	return r == ReasonPlayer || r == ReasonDisconnect || r == ReasonReplaced
}
