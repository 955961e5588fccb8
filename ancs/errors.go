package ancs

import "errors"

// Synchronous error taxonomy for calls that fail before ever reaching the
// transport. A transport that refuses a Control Point write outright makes
// the dispatcher return that transport error, wrapped. Provider statuses
// are delivered as EventProviderError to the event handler. A transport
// failure reported later through the write completion is not delivered
// to the handler and not returned; it only releases the Control Point.
var (
	// ErrInvalid means an argument was out of range or a request was
	// malformed (e.g. a non-NUL-terminated app id with len==0).
	ErrInvalid = errors.New("ancs: invalid argument")

	// ErrNotSupported means the discovered service UUID did not match
	// the ANCS service during handle assignment.
	ErrNotSupported = errors.New("ancs: service not supported")

	// ErrAlreadyDone means a channel was already subscribed/enabled.
	ErrAlreadyDone = errors.New("ancs: already done")

	// ErrNotEnabled means a disable was requested on a channel that was
	// never successfully enabled.
	ErrNotEnabled = errors.New("ancs: not enabled")

	// ErrBusy means the Control Point mutex could not be acquired
	// before the caller's context was done.
	ErrBusy = errors.New("ancs: control point busy")

	// ErrNoSpace means encoding a command would exceed the Control
	// Point staging buffer.
	ErrNoSpace = errors.New("ancs: control point buffer too small")
)
