// Package transport defines the collaborator interfaces the ancs package
// consumes but does not implement: GATT service discovery, subscription,
// and write-with-response. Concrete adapters live in transport/simulated
// (an in-memory fake for tests and the demo binary) and
// transport/tinygoble (a real BLE GATT client adapter).
package transport

import "tinygo.org/x/bluetooth"

// WriteCompleteFunc is invoked exactly once when a write-with-response
// completes. status is the ATT/application write-response status (0 on
// success); err carries any transport-level failure that prevented the
// write from reaching the peer at all.
type WriteCompleteFunc func(status uint8, err error)

// Transport is the GATT collaborator a Session is bound to. Discovery,
// pairing/bonding, and advertising are handled entirely outside this
// interface: a Transport only ever sees already-resolved handles.
type Transport interface {
	// Subscribe enables notifications on the characteristic behind the
	// given CCCD handle.
	Subscribe(cccdHandle uint16) error
	// Unsubscribe disables notifications on the given CCCD handle.
	Unsubscribe(cccdHandle uint16) error
	// WriteWithResponse writes data to the characteristic at handle and
	// invokes complete when the peer's write response arrives, or with a
	// non-nil err and status 0 when the write fails after being issued.
	// A non-nil return means the write failed locally; complete may or
	// may not have been invoked in that case.
	WriteWithResponse(handle uint16, data []byte, complete WriteCompleteFunc) error
}

// NotificationReceiver is implemented by whatever binds an inbound
// characteristic-value-notification callback to a Session; Transport
// implementations call Deliver for every record received on a
// subscribed handle.
type NotificationReceiver interface {
	Deliver(handle uint16, payload []byte)
}

// ServiceDiscovery is the result of resolving the ANCS service's
// characteristic and descriptor handles on a connected peer. Session
// consumes it in HandlesAssign; how it is produced (a full GATT
// discovery pass, a cached handle table, ...) is entirely up to the
// transport.
type ServiceDiscovery interface {
	// ServiceUUID is the UUID of the discovered service instance.
	ServiceUUID() bluetooth.UUID
	// CharacteristicHandle returns the value handle for the
	// characteristic identified by uuid within the discovered service.
	CharacteristicHandle(uuid bluetooth.UUID) (handle uint16, ok bool)
	// DescriptorHandle returns the handle of the descriptor identified
	// by descUUID under the characteristic identified by charUUID.
	DescriptorHandle(charUUID, descUUID bluetooth.UUID) (handle uint16, ok bool)
}
