package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindConfig   ErrKind = iota // configuration that cannot produce any work
	ErrKindFormat                  // malformed or unexpected image data
	ErrKindNotFound                // missing target file or boot binary
	ErrKindState                   // operation not valid for the current input
)

// String returns a short name for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindConfig:
		return "config"
	case ErrKindFormat:
		return "format"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindState:
		return "state"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind and Msg, so wrapped copies of a
// sentinel still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// Sentinels commonly returned by implementations.
var (
	// ErrNoOpConfiguration indicates a Config with no variant enabled. A scan
	// with such a config would find nothing, so callers can skip it.
	ErrNoOpConfiguration = &Error{Kind: ErrKindConfig, Msg: "no patch variant enabled"}
)
