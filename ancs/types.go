package ancs

// EventID identifies the kind of change a Notification Source record
// describes.
type EventID uint8

const (
	EventAdded EventID = iota
	EventModified
	EventRemoved
	numEventIDs
)

func (e EventID) String() string {
	switch e {
	case EventAdded:
		return "Added"
	case EventModified:
		return "Modified"
	case EventRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// CategoryID classifies the application that raised a notification.
type CategoryID uint8

const (
	CategoryOther CategoryID = iota
	CategoryIncomingCall
	CategoryMissedCall
	CategoryVoicemail
	CategorySocial
	CategorySchedule
	CategoryEmail
	CategoryNews
	CategoryHealthAndFitness
	CategoryBusinessAndFinance
	CategoryLocation
	CategoryEntertainment
	numCategoryIDs
)

// ActionID is the action performed with PerformNotifAction.
type ActionID uint8

const (
	ActionPositive ActionID = iota
	ActionNegative
)

// commandID is the first byte of every Control Point command and every
// Data Source response.
type commandID uint8

const (
	cmdGetNotifAttrs commandID = iota
	cmdGetAppAttrs
	cmdPerformNotifAction
)

// NotifAttrID indexes the notification attribute subscription table.
type NotifAttrID uint8

const (
	NotifAttrAppIdentifier NotifAttrID = iota
	NotifAttrTitle
	NotifAttrSubtitle
	NotifAttrMessage
	NotifAttrMessageSize
	NotifAttrDate
	NotifAttrPositiveActionLabel
	NotifAttrNegativeActionLabel
	numNotifAttrs
)

// AppAttrID indexes the app attribute subscription table.
type AppAttrID uint8

const (
	AppAttrDisplayName AppAttrID = iota
	numAppAttrs
)

// ProviderError is a status code the Notification Provider returned in
// response to a Control Point write.
type ProviderError uint8

const (
	ErrUnknownCommand   ProviderError = 0xA0
	ErrInvalidCommand   ProviderError = 0xA1
	ErrInvalidParameter ProviderError = 0xA2
	ErrActionFailed     ProviderError = 0xA3
)

func (p ProviderError) String() string {
	switch p {
	case ErrUnknownCommand:
		return "UnknownCommand"
	case ErrInvalidCommand:
		return "InvalidCommand"
	case ErrInvalidParameter:
		return "InvalidParameter"
	case ErrActionFailed:
		return "ActionFailed"
	default:
		return "Unknown"
	}
}

// EventFlags is the bitfield carried in a Notification Source record's
// flags byte. Bits outside the five defined here are ignored, not
// reported, per spec.
type EventFlags struct {
	Silent         bool
	Important      bool
	PreExisting    bool
	PositiveAction bool
	NegativeAction bool
}

const (
	flagBitSilent = iota
	flagBitImportant
	flagBitPreExisting
	flagBitPositiveAction
	flagBitNegativeAction
)

func decodeEventFlags(b byte) EventFlags {
	return EventFlags{
		Silent:         b&(1<<flagBitSilent) != 0,
		Important:      b&(1<<flagBitImportant) != 0,
		PreExisting:    b&(1<<flagBitPreExisting) != 0,
		PositiveAction: b&(1<<flagBitPositiveAction) != 0,
		NegativeAction: b&(1<<flagBitNegativeAction) != 0,
	}
}

// Notification is a decoded Notification Source summary record.
type Notification struct {
	EventID       EventID
	Flags         EventFlags
	CategoryID    CategoryID
	CategoryCount uint8
	NotifUID      uint32
}

// AttrEntry is one row of an attribute subscription table. An entry is
// "registered" once Storage is non-nil and 1 <= len(Storage) <= 32; only
// registered entries may be marked Requested.
type AttrEntry struct {
	Requested bool
	Storage   []byte
}

func (e *AttrEntry) maxLen() int {
	return len(e.Storage)
}

func (e *AttrEntry) registered() bool {
	return e.Storage != nil && len(e.Storage) >= 1 && len(e.Storage) <= 32
}

// NotifAttrTable holds the eight notification attribute subscriptions.
type NotifAttrTable [numNotifAttrs]AttrEntry

// AppAttrTable holds the one app attribute subscription (DisplayName).
type AppAttrTable [numAppAttrs]AttrEntry

// attrTable is the generalization the parser and encoder walk over; both
// NotifAttrTable and AppAttrTable satisfy it.
type attrTable interface {
	count() int
	entry(id int) *AttrEntry
}

func (t *NotifAttrTable) count() int             { return len(t) }
func (t *NotifAttrTable) entry(id int) *AttrEntry { return &t[id] }

func (t *AppAttrTable) count() int             { return len(t) }
func (t *AppAttrTable) entry(id int) *AttrEntry { return &t[id] }

func requestedCount(t attrTable) int {
	n := 0
	for i := 0; i < t.count(); i++ {
		if t.entry(i).Requested {
			n++
		}
	}
	return n
}
