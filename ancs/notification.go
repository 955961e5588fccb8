package ancs

import "encoding/binary"

// notificationRecordLen is the fixed length of a Notification Source
// summary record.
const notificationRecordLen = 8

// decodeNotification consumes exactly one Notification Source record and
// delivers either EventNotif or EventInvalidNotif to handler.
//
// Layout (little-endian):
//
//	off 0: evt_id    (u8)
//	off 1: flags     (u8)
//	off 2: category  (u8)
//	off 3: cat_cnt   (u8)
//	off 4: notif_uid (u32 little-endian)
//
// A record whose length is not 8 cannot be safely indexed at fixed
// offsets, so it is reported as EventInvalidNotif without attempting a
// decode: exactly one event, no best-effort read of a too-short buffer.
func decodeNotification(handler EventHandler, record []byte) {
	if len(record) != notificationRecordLen {
		handler(Event{Kind: EventInvalidNotif})
		return
	}

	notif := Notification{
		EventID:       EventID(record[0]),
		Flags:         decodeEventFlags(record[1]),
		CategoryID:    CategoryID(record[2]),
		CategoryCount: record[3],
		NotifUID:      binary.LittleEndian.Uint32(record[4:8]),
	}

	if notif.EventID >= numEventIDs || notif.CategoryID >= numCategoryIDs {
		handler(Event{Kind: EventInvalidNotif, Notification: notif})
		return
	}

	handler(Event{Kind: EventNotif, Notification: notif})
}
