package ancs

// dsParseState is the re-entrant state of one in-flight Data Source
// attribute parse.
type dsParseState int

const (
	stateCommandID dsParseState = iota
	stateNotifUID
	stateAppID
	stateAttrID
	stateAttrLen1
	stateAttrLen2
	stateAttrData
	stateAttrSkip
	stateDone
)

// appIDCap bounds the app identifier buffer inside the parser. The
// reference implementation writes into a fixed BT_GATT_ANCS_ATTR_DATA_MAX
// (32) byte array with no bounds check; a misbehaving or malicious
// Notification Provider sending an app id longer than that would
// overflow it. This parser instead stops copying at the reserved
// terminator slot and keeps consuming (but discarding) bytes until the
// real NUL arrives, so the state machine stays in sync with the stream
// without ever writing out of bounds.
const appIDCap = 32

// dsParser is the re-entrant byte-stream reassembler for Data Source
// attribute responses. One dsParser lives per Session; it is fed every
// byte of every Data Source record in arrival order and may span any
// number of record boundaries for one logical response.
type dsParser struct {
	state dsParseState

	notifAttrs *NotifAttrTable
	appAttrs   *AppAttrTable

	command commandID
	table   attrTable

	expectedAttrCount int

	notifUID          uint32
	notifUIDBytesRead int

	appID          [appIDCap]byte
	appIDWriteIdx  int
	appIDOverflow  bool

	currentAttrID    int
	currentAttrLen   uint16
	currentWriteIdx  int
	currentEntry     *AttrEntry
	currentDataCap   int // min(currentAttrLen, maxLen-1), the reserved-terminator cap

	handler EventHandler
}

func newDSParser(notifAttrs *NotifAttrTable, appAttrs *AppAttrTable, handler EventHandler) *dsParser {
	return &dsParser{
		state:      stateCommandID,
		notifAttrs: notifAttrs,
		appAttrs:   appAttrs,
		handler:    handler,
	}
}

// reset arms the parser for a fresh response. Must be called exactly
// once, synchronously, at the instant a Control Point command is
// dispatched: expectedAttrCount is set exactly once per response, at
// dispatch time, and counts down as requested attributes are matched.
func (p *dsParser) reset() {
	*p = dsParser{
		state:      stateCommandID,
		notifAttrs: p.notifAttrs,
		appAttrs:   p.appAttrs,
		handler:    p.handler,
	}
}

// feed consumes every byte of one inbound Data Source record, in order.
func (p *dsParser) feed(data []byte) {
	for _, b := range data {
		if p.state == stateDone {
			return
		}
		p.step(b)
	}
}

func (p *dsParser) step(b byte) {
	switch p.state {
	case stateCommandID:
		p.parseCommandID(b)
	case stateNotifUID:
		p.parseNotifUID(b)
	case stateAppID:
		p.parseAppID(b)
	case stateAttrID:
		p.parseAttrID(b)
	case stateAttrLen1:
		p.parseAttrLen1(b)
	case stateAttrLen2:
		p.parseAttrLen2(b)
	case stateAttrData:
		p.parseAttrData(b)
	case stateAttrSkip:
		p.parseAttrSkip(b)
	default:
		p.state = stateDone
	}
}

func (p *dsParser) parseCommandID(b byte) {
	p.command = commandID(b)
	switch p.command {
	case cmdGetNotifAttrs:
		p.table = p.notifAttrs
		p.state = stateNotifUID
	case cmdGetAppAttrs:
		p.table = p.appAttrs
		p.state = stateAppID
	default:
		p.state = stateDone
	}
}

func (p *dsParser) parseNotifUID(b byte) {
	p.notifUID |= uint32(b) << (8 * uint(p.notifUIDBytesRead))
	p.notifUIDBytesRead++
	if p.notifUIDBytesRead == 4 {
		p.state = stateAttrID
	}
}

func (p *dsParser) parseAppID(b byte) {
	if b == 0 {
		p.state = stateAttrID
		return
	}
	if p.appIDWriteIdx < appIDCap-1 {
		p.appID[p.appIDWriteIdx] = b
		p.appIDWriteIdx++
	} else {
		// Buffer exhausted; keep the stream in sync until the real
		// terminator shows up, matching the invariant that the app
		// identifier is always NUL-terminated before the attribute-id
		// phase begins.
		p.appIDOverflow = true
	}
	p.state = stateAppID
}

func (p *dsParser) appIDString() string {
	return string(p.appID[:p.appIDWriteIdx])
}

func (p *dsParser) parseAttrID(b byte) {
	id := int(b)
	if id >= p.table.count() {
		p.state = stateDone
		return
	}
	p.currentAttrID = id
	p.currentEntry = p.table.entry(id)

	if p.expectedAttrCount == 0 {
		p.state = stateDone
		return
	}
	if p.currentEntry.Requested {
		p.expectedAttrCount--
	}
	p.state = stateAttrLen1
}

func (p *dsParser) parseAttrLen1(b byte) {
	p.currentAttrLen = uint16(b)
	p.state = stateAttrLen2
}

func (p *dsParser) parseAttrLen2(b byte) {
	p.currentAttrLen |= uint16(b) << 8
	p.currentWriteIdx = 0

	if p.currentAttrLen == 0 {
		if p.currentEntry.Requested {
			p.currentEntry.Storage[0] = 0
			p.emitCurrentAttr(p.currentEntry.Storage[:1])
		}
		p.advanceAfterAttr()
		return
	}

	if !p.currentEntry.registered() {
		p.state = stateAttrSkip
		return
	}

	maxLen := p.currentEntry.maxLen()
	dataCap := maxLen - 1
	if int(p.currentAttrLen) < dataCap {
		dataCap = int(p.currentAttrLen)
	}
	p.currentDataCap = dataCap
	p.state = stateAttrData
}

func (p *dsParser) parseAttrData(b byte) {
	if p.currentWriteIdx < p.currentDataCap {
		p.currentEntry.Storage[p.currentWriteIdx] = b
		p.currentWriteIdx++
	}

	if p.currentWriteIdx < p.currentDataCap {
		return
	}

	// Reached the reserved-terminator cap for this attribute.
	if p.currentEntry.Requested {
		p.currentEntry.Storage[p.currentWriteIdx] = 0
		p.emitCurrentAttr(p.currentEntry.Storage[:p.currentWriteIdx+1])
	}

	if p.currentDataCap < int(p.currentAttrLen) {
		// More on-wire bytes than we had room for; consume and drop
		// them so the stream stays in sync.
		p.state = stateAttrSkip
		return
	}
	p.advanceAfterAttr()
}

func (p *dsParser) parseAttrSkip(b byte) {
	p.currentWriteIdx++
	if p.currentWriteIdx < int(p.currentAttrLen) {
		return
	}
	p.advanceAfterAttr()
}

func (p *dsParser) advanceAfterAttr() {
	if p.expectedAttrCount == 0 {
		p.state = stateDone
		return
	}
	p.state = stateAttrID
}

func (p *dsParser) emitCurrentAttr(data []byte) {
	switch p.command {
	case cmdGetNotifAttrs:
		p.handler(Event{
			Kind: EventNotifAttribute,
			NotifAttr: NotifAttribute{
				NotifUID: p.notifUID,
				AttrID:   NotifAttrID(p.currentAttrID),
				Data:     data,
			},
		})
	case cmdGetAppAttrs:
		// An app id longer than appIDCap-1 bytes is delivered truncated
		// to that length (see parseAppID).
		p.handler(Event{
			Kind: EventAppAttribute,
			AppAttr: AppAttribute{
				AppID:  p.appIDString(),
				AttrID: AppAttrID(p.currentAttrID),
				Data:   data,
			},
		})
	}
}
