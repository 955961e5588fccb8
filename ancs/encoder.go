package ancs

import "encoding/binary"

// perform-action command is a fixed 6 bytes: cmd(1) + uid(4) + action(1).
const performActionLen = 6

// encodePerformAction writes 0x02 || uid(le32) || action into buf[:6].
func encodePerformAction(buf []byte, uid uint32, action ActionID) ([]byte, error) {
	if cap(buf) < performActionLen {
		return nil, ErrNoSpace
	}
	buf = buf[:0]
	buf = appendByte(buf, byte(cmdPerformNotifAction))
	var uidBytes [4]byte
	binary.LittleEndian.PutUint32(uidBytes[:], uid)
	buf, _ = appendBytes(buf, uidBytes[:])
	buf = appendByte(buf, byte(action))
	return buf, nil
}

// encodeGetNotifAttrs writes 0x00 || uid(le32) || for each requested
// notification attribute, in ascending id order: id, and for
// Title/Subtitle/Message, max_len(le16). It returns the encoded slice and
// the count of requested attributes actually encoded (this becomes the
// parser's expected_attr_count for the matched response), or ErrNoSpace
// if buf is too small.
func encodeGetNotifAttrs(buf []byte, uid uint32, table *NotifAttrTable) ([]byte, int, error) {
	buf = buf[:0]
	buf = appendByte(buf, byte(cmdGetNotifAttrs))
	var uidBytes [4]byte
	binary.LittleEndian.PutUint32(uidBytes[:], uid)
	var ok bool
	buf, ok = appendBytes(buf, uidBytes[:])
	if !ok {
		return nil, 0, ErrNoSpace
	}

	requested := 0
	for id := 0; id < len(table); id++ {
		entry := &table[id]
		if !entry.Requested {
			continue
		}
		buf, ok = appendByteChecked(buf, byte(id))
		if !ok {
			return nil, 0, ErrNoSpace
		}
		switch NotifAttrID(id) {
		case NotifAttrTitle, NotifAttrSubtitle, NotifAttrMessage:
			var lenBytes [2]byte
			binary.LittleEndian.PutUint16(lenBytes[:], uint16(entry.maxLen()))
			buf, ok = appendBytes(buf, lenBytes[:])
			if !ok {
				return nil, 0, ErrNoSpace
			}
		}
		requested++
	}
	return buf, requested, nil
}

// appEncodeState is the sub-state machine used to encode a variable-length
// GetAppAttrs command. It exists because the caller-supplied app id has
// no fixed length, so it may exhaust the staging buffer at any point in
// the encode.
type appEncodeState int

const (
	appEncCommandID appEncodeState = iota
	appEncAppID
	appEncAttrID
	appEncDone
	appEncAbort
)

// encodeGetAppAttrs writes 0x01 || app_id || 0x00 || for each requested
// app attribute, in ascending id order: id. appID must not include its
// own trailing NUL (that is added by the encoder). Returns the encoded
// slice and the count of requested attributes encoded.
func encodeGetAppAttrs(buf []byte, appID []byte, table *AppAttrTable) ([]byte, int, error) {
	buf = buf[:0]
	state := appEncCommandID
	appIdx := 0
	attrIdx := 0
	requested := 0
	ok := true

	for state != appEncDone && state != appEncAbort {
		switch state {
		case appEncCommandID:
			buf, ok = appendByteChecked(buf, byte(cmdGetAppAttrs))
			if !ok {
				state = appEncAbort
				break
			}
			state = appEncAppID

		case appEncAppID:
			if appIdx == len(appID) {
				buf, ok = appendByteChecked(buf, 0)
				if !ok {
					state = appEncAbort
					break
				}
				state = appEncAttrID
				break
			}
			buf, ok = appendByteChecked(buf, appID[appIdx])
			if !ok {
				state = appEncAbort
				break
			}
			appIdx++

		case appEncAttrID:
			if attrIdx == len(table) {
				state = appEncDone
				break
			}
			entry := &table[attrIdx]
			if entry.Requested {
				buf, ok = appendByteChecked(buf, byte(attrIdx))
				if !ok {
					state = appEncAbort
					break
				}
				requested++
			}
			attrIdx++
		}
	}

	if state == appEncAbort {
		return nil, 0, ErrNoSpace
	}
	return buf, requested, nil
}

func appendByte(buf []byte, b byte) []byte {
	return append(buf, b)
}

func appendByteChecked(buf []byte, b byte) ([]byte, bool) {
	if len(buf)+1 > cap(buf) {
		return buf, false
	}
	return append(buf, b), true
}

func appendBytes(buf []byte, b []byte) ([]byte, bool) {
	if len(buf)+len(b) > cap(buf) {
		return buf, false
	}
	return append(buf, b...), true
}
