package api

import "fmt"

// ErrorKind classifies a fetch failure. Every caller treats the kinds
// identically (log and keep the last successful render); the kind exists
// for diagnostics.
type ErrorKind int

const (
	// ErrTransport covers network-level failures: DNS, refused
	// connections, timeouts from the transport itself.
	ErrTransport ErrorKind = iota
	// ErrStatus means the backend answered with a non-2xx status.
	ErrStatus
	// ErrParse means the response body was not valid JSON for the
	// expected shape.
	ErrParse
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTransport:
		return "transport"
	case ErrStatus:
		return "status"
	case ErrParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the single failure type surfaced by the client.
type Error struct {
	Kind       ErrorKind
	Path       string
	StatusCode int   // set for ErrStatus
	Err        error // underlying cause for ErrTransport/ErrParse
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Path, e.StatusCode)
	case ErrParse:
		return fmt.Sprintf("fetch %s: decode response: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }
