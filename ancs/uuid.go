package ancs

import "tinygo.org/x/bluetooth"

// GATT service and characteristic UUIDs for the Apple Notification Center
// Service, as specified by Apple and mirrored in the Zephyr/Nordic
// reference implementation this package is modeled on.
var (
	ServiceUUID            = mustParseUUID("7905F431-B5CE-4E99-A40F-4B1E122D00D0")
	NotificationSourceUUID = mustParseUUID("9FBF120D-6301-42D9-8C58-25E699A21DBD")
	ControlPointUUID       = mustParseUUID("69D1D8F3-45E1-49A8-9821-9BBDFDAAD9D9")
	DataSourceUUID         = mustParseUUID("22EAC6E9-24D6-4BB5-BE44-B36ACE7C7BFB")

	// CCCDescriptorUUID is the standard GATT Client Characteristic
	// Configuration Descriptor UUID, used to resolve the NS/DS
	// subscription handles during HandlesAssign.
	CCCDescriptorUUID = bluetooth.New16BitUUID(0x2902)
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic("ancs: invalid built-in UUID " + s + ": " + err.Error())
	}
	return u
}
