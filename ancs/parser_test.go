package ancs

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func newTestNotifTable() (NotifAttrTable, []byte, []byte) {
	var t NotifAttrTable
	title := make([]byte, 8)
	msg := make([]byte, 4)
	t[NotifAttrTitle] = AttrEntry{Requested: true, Storage: title}
	t[NotifAttrMessage] = AttrEntry{Requested: true, Storage: msg}
	return t, title, msg
}

func encodeAttrTLV(id byte, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(id)
	var l [2]byte
	binary.LittleEndian.PutUint16(l[:], uint16(len(data)))
	buf.Write(l[:])
	buf.Write(data)
	return buf.Bytes()
}

func TestParserSingleRecordFullAttribute(t *testing.T) {
	table, _, _ := newTestNotifTable()

	var events []Event
	p := newDSParser(&table, &AppAttrTable{}, func(e Event) { events = append(events, e) })
	p.reset()
	p.expectedAttrCount = 1

	var record bytes.Buffer
	record.WriteByte(byte(cmdGetNotifAttrs))
	var uid [4]byte
	binary.LittleEndian.PutUint32(uid[:], 42)
	record.Write(uid[:])
	record.Write(encodeAttrTLV(byte(NotifAttrTitle), []byte("Hello")))

	p.feed(record.Bytes())

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	got := events[0]
	if got.Kind != EventNotifAttribute {
		t.Fatalf("kind = %v, want EventNotifAttribute", got.Kind)
	}
	if got.NotifAttr.NotifUID != 42 {
		t.Errorf("NotifUID = %d, want 42", got.NotifAttr.NotifUID)
	}
	want := "Hello\x00"
	if string(got.NotifAttr.Data) != want {
		t.Errorf("Data = %q, want %q", got.NotifAttr.Data, want)
	}
}

func TestParserFragmentedAcrossEveryByteBoundary(t *testing.T) {
	table, _, _ := newTestNotifTable()

	var events []Event
	p := newDSParser(&table, &AppAttrTable{}, func(e Event) { events = append(events, e) })
	p.reset()
	p.expectedAttrCount = 1

	var record bytes.Buffer
	record.WriteByte(byte(cmdGetNotifAttrs))
	var uid [4]byte
	binary.LittleEndian.PutUint32(uid[:], 7)
	record.Write(uid[:])
	record.Write(encodeAttrTLV(byte(NotifAttrTitle), []byte("Hi")))

	data := record.Bytes()
	for _, b := range data {
		p.feed([]byte{b})
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if want := "Hi\x00"; string(events[0].NotifAttr.Data) != want {
		t.Errorf("Data = %q, want %q", events[0].NotifAttr.Data, want)
	}
}

func TestParserZeroLengthAttributeIsTerminatedAlone(t *testing.T) {
	table, _, _ := newTestNotifTable()

	var events []Event
	p := newDSParser(&table, &AppAttrTable{}, func(e Event) { events = append(events, e) })
	p.reset()
	p.expectedAttrCount = 1

	var record bytes.Buffer
	record.WriteByte(byte(cmdGetNotifAttrs))
	var uid [4]byte
	record.Write(uid[:])
	record.Write(encodeAttrTLV(byte(NotifAttrTitle), nil))

	p.feed(record.Bytes())

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if want := "\x00"; string(events[0].NotifAttr.Data) != want {
		t.Errorf("Data = %q, want %q", events[0].NotifAttr.Data, want)
	}
}

func TestParserTruncatesToBufferAndStaysInSync(t *testing.T) {
	var table NotifAttrTable
	small := make([]byte, 4) // room for 3 bytes of data + terminator
	table[NotifAttrMessage] = AttrEntry{Requested: true, Storage: small}
	table[NotifAttrTitle] = AttrEntry{Requested: true, Storage: make([]byte, 8)}

	var events []Event
	p := newDSParser(&table, &AppAttrTable{}, func(e Event) { events = append(events, e) })
	p.reset()
	p.expectedAttrCount = 2

	var record bytes.Buffer
	record.WriteByte(byte(cmdGetNotifAttrs))
	var uid [4]byte
	record.Write(uid[:])
	record.Write(encodeAttrTLV(byte(NotifAttrMessage), []byte("far too long a message")))
	record.Write(encodeAttrTLV(byte(NotifAttrTitle), []byte("ok")))

	p.feed(record.Bytes())

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (state must resync after truncation)", len(events))
	}
	if want := "far\x00"; string(events[0].NotifAttr.Data) != want {
		t.Errorf("Data = %q, want %q", events[0].NotifAttr.Data, want)
	}
	if events[0].NotifAttr.AttrID != NotifAttrMessage {
		t.Errorf("first event attr = %v, want NotifAttrMessage", events[0].NotifAttr.AttrID)
	}
	if events[1].NotifAttr.AttrID != NotifAttrTitle {
		t.Errorf("second event attr = %v, want NotifAttrTitle", events[1].NotifAttr.AttrID)
	}
	if want := "ok\x00"; string(events[1].NotifAttr.Data) != want {
		t.Errorf("Data = %q, want %q", events[1].NotifAttr.Data, want)
	}
}

func TestParserUnregisteredAttributeIsSkippedNotEmitted(t *testing.T) {
	var table NotifAttrTable
	table[NotifAttrTitle] = AttrEntry{Requested: true, Storage: make([]byte, 8)}
	// NotifAttrMessageSize left unregistered (no Storage) but still on the wire.

	var events []Event
	p := newDSParser(&table, &AppAttrTable{}, func(e Event) { events = append(events, e) })
	p.reset()
	p.expectedAttrCount = 1

	var record bytes.Buffer
	record.WriteByte(byte(cmdGetNotifAttrs))
	var uid [4]byte
	record.Write(uid[:])
	record.Write(encodeAttrTLV(byte(NotifAttrMessageSize), []byte("99")))
	record.Write(encodeAttrTLV(byte(NotifAttrTitle), []byte("t")))

	p.feed(record.Bytes())

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (unregistered attribute must not emit)", len(events))
	}
	if events[0].NotifAttr.AttrID != NotifAttrTitle {
		t.Errorf("attr = %v, want NotifAttrTitle", events[0].NotifAttr.AttrID)
	}
}

func TestParserAppIDOverflowStaysInSync(t *testing.T) {
	var appTable AppAttrTable
	appTable[AppAttrDisplayName] = AttrEntry{Requested: true, Storage: make([]byte, 8)}

	var events []Event
	var notifTable NotifAttrTable
	p := newDSParser(&notifTable, &appTable, func(e Event) { events = append(events, e) })
	p.reset()
	p.expectedAttrCount = 1

	longAppID := make([]byte, appIDCap+10)
	for i := range longAppID {
		longAppID[i] = 'a'
	}

	var record bytes.Buffer
	record.WriteByte(byte(cmdGetAppAttrs))
	record.Write(longAppID)
	record.WriteByte(0)
	record.Write(encodeAttrTLV(byte(AppAttrDisplayName), []byte("Mail")))

	p.feed(record.Bytes())

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if want := "Mail\x00"; string(events[0].AppAttr.Data) != want {
		t.Errorf("Data = %q, want %q", events[0].AppAttr.Data, want)
	}
	if len(events[0].AppAttr.AppID) != appIDCap-1 {
		t.Errorf("AppID len = %d, want %d (truncated to cap)", len(events[0].AppAttr.AppID), appIDCap-1)
	}
}

func TestParserUnknownCommandIDTerminates(t *testing.T) {
	var notifTable NotifAttrTable
	var appTable AppAttrTable
	var events []Event
	p := newDSParser(&notifTable, &appTable, func(e Event) { events = append(events, e) })
	p.reset()

	p.feed([]byte{0xFF, 1, 2, 3})
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0", len(events))
	}
	if p.state != stateDone {
		t.Errorf("state = %v, want stateDone", p.state)
	}
}
