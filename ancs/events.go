package ancs

// EventKind tags the payload carried by an Event.
type EventKind int

const (
	// EventNotif carries a validly decoded Notification Source record.
	EventNotif EventKind = iota
	// EventInvalidNotif is emitted for a malformed Notification Source
	// record: wrong length, or an out-of-range EventID/CategoryID.
	EventInvalidNotif
	// EventNotifAttribute carries one completed notification attribute.
	EventNotifAttribute
	// EventAppAttribute carries one completed app attribute.
	EventAppAttribute
	// EventProviderError carries the write-response status of a
	// completed Control Point transaction.
	EventProviderError
)

// NotifAttribute is one completed notification attribute. Data aliases
// the caller's own storage buffer registered with Session.AttrAdd; it is
// valid only until the next event for the same NotifUID/AttrID pair.
type NotifAttribute struct {
	NotifUID uint32
	AttrID   NotifAttrID
	// Data is the NUL-terminated attribute value, including the
	// terminator, truncated to at most the registered buffer size.
	Data []byte
}

// AppAttribute is one completed app attribute.
type AppAttribute struct {
	AppID  string
	AttrID AppAttrID
	Data   []byte
}

// Event is the single tagged payload delivered to an EventHandler. Only
// the field matching Kind is meaningful.
type Event struct {
	Kind EventKind

	Notification  Notification
	NotifAttr     NotifAttribute
	AppAttr       AppAttribute
	ProviderError ProviderError
}

// EventHandler is the single entry point through which a Session
// delivers every decoded notification, attribute completion, and
// Control Point write-response status. Transport failures reported
// through a write completion are not delivered. It is invoked synchronously from whatever
// context delivers the underlying transport callback (inbound record,
// write completion) and must not block; any longer-running work is the
// caller's responsibility to offload onto its own goroutine.
type EventHandler func(Event)
