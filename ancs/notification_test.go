package ancs

import "testing"

func TestDecodeNotificationValid(t *testing.T) {
	record := []byte{
		byte(EventAdded),
		1 << flagBitImportant,
		byte(CategorySocial),
		3,
		0x01, 0x02, 0x03, 0x04,
	}

	var got Event
	decodeNotification(func(e Event) { got = e }, record)

	if got.Kind != EventNotif {
		t.Fatalf("kind = %v, want EventNotif", got.Kind)
	}
	if got.Notification.EventID != EventAdded {
		t.Errorf("EventID = %v, want EventAdded", got.Notification.EventID)
	}
	if !got.Notification.Flags.Important {
		t.Errorf("Flags.Important = false, want true")
	}
	if got.Notification.CategoryID != CategorySocial {
		t.Errorf("CategoryID = %v, want CategorySocial", got.Notification.CategoryID)
	}
	if got.Notification.CategoryCount != 3 {
		t.Errorf("CategoryCount = %d, want 3", got.Notification.CategoryCount)
	}
	if want := uint32(0x04030201); got.Notification.NotifUID != want {
		t.Errorf("NotifUID = %#x, want %#x", got.Notification.NotifUID, want)
	}
}

func TestDecodeNotificationWrongLength(t *testing.T) {
	for _, n := range []int{0, 1, 7, 9, 16} {
		record := make([]byte, n)
		var got Event
		decodeNotification(func(e Event) { got = e }, record)
		if got.Kind != EventInvalidNotif {
			t.Errorf("len=%d: kind = %v, want EventInvalidNotif", n, got.Kind)
		}
	}
}

func TestDecodeNotificationOutOfRangeFields(t *testing.T) {
	cases := []struct {
		name   string
		record []byte
	}{
		{"bad event id", []byte{0xFF, 0, byte(CategoryOther), 0, 0, 0, 0, 0}},
		{"bad category id", []byte{byte(EventAdded), 0, 0xFF, 0, 0, 0, 0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got Event
			decodeNotification(func(e Event) { got = e }, c.record)
			if got.Kind != EventInvalidNotif {
				t.Errorf("kind = %v, want EventInvalidNotif", got.Kind)
			}
		})
	}
}

func TestDecodeNotificationEmitsExactlyOnce(t *testing.T) {
	record := make([]byte, 3)
	calls := 0
	decodeNotification(func(Event) { calls++ }, record)
	if calls != 1 {
		t.Fatalf("handler invoked %d times, want exactly 1", calls)
	}
}
