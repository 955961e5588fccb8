// Package tinygoble adapts tinygo.org/x/bluetooth's central-role GATT
// client onto transport.Transport and transport.ServiceDiscovery, so an
// ancs.Session can drive a real BLE peripheral. Handle numbers here are
// synthetic (tinygo's API resolves characteristics by UUID, not GATT
// handle) and are assigned by Discover in a fixed, stable order.
package tinygoble

import (
	"errors"
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/nrfconnect/ancs-client/ancs"
	"github.com/nrfconnect/ancs-client/transport"
)

const (
	handleCP uint16 = iota + 1
	handleNS
	handleNSCCC
	handleDS
	handleDSCCC
)

// Adapter binds one connected bluetooth.Device to the ancs transport
// interfaces. Discover must succeed before it is usable.
type Adapter struct {
	device bluetooth.Device

	mu    sync.Mutex
	cp    bluetooth.DeviceCharacteristic
	ns    bluetooth.DeviceCharacteristic
	ds    bluetooth.DeviceCharacteristic
	found map[uint16]bool
	recv  transport.NotificationReceiver
}

// New wraps an already-connected device. Call Discover before passing
// the Adapter to ancs.NewSession/HandlesAssign.
func New(device bluetooth.Device) *Adapter {
	return &Adapter{device: device, found: make(map[uint16]bool)}
}

// Discover resolves the ANCS service and its three characteristics.
// tinygo's central API enables notifications directly on a
// characteristic (folding CCCD writes into EnableNotifications), so the
// synthetic *CCC handles returned by CharacteristicHandle/
// DescriptorHandle exist only to satisfy transport.ServiceDiscovery's
// shape and are not separately resolved here.
func (a *Adapter) Discover() error {
	services, err := a.device.DiscoverServices([]bluetooth.UUID{ancs.ServiceUUID})
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return errors.New("tinygoble: ancs service not found")
	}
	svc := services[0]

	chars, err := svc.DiscoverCharacteristics([]bluetooth.UUID{
		ancs.ControlPointUUID, ancs.NotificationSourceUUID, ancs.DataSourceUUID,
	})
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range chars {
		switch c.UUID() {
		case ancs.ControlPointUUID:
			a.cp = c
			a.found[handleCP] = true
		case ancs.NotificationSourceUUID:
			a.ns = c
			a.found[handleNS] = true
			a.found[handleNSCCC] = true
		case ancs.DataSourceUUID:
			a.ds = c
			a.found[handleDS] = true
			a.found[handleDSCCC] = true
		}
	}
	if !a.found[handleCP] || !a.found[handleNS] || !a.found[handleDS] {
		return errors.New("tinygoble: ancs characteristic missing")
	}
	return nil
}

// ServiceUUID implements transport.ServiceDiscovery.
func (a *Adapter) ServiceUUID() bluetooth.UUID { return ancs.ServiceUUID }

// CharacteristicHandle implements transport.ServiceDiscovery.
func (a *Adapter) CharacteristicHandle(uuid bluetooth.UUID) (uint16, bool) {
	switch uuid {
	case ancs.ControlPointUUID:
		return handleCP, a.found[handleCP]
	case ancs.NotificationSourceUUID:
		return handleNS, a.found[handleNS]
	case ancs.DataSourceUUID:
		return handleDS, a.found[handleDS]
	}
	return 0, false
}

// DescriptorHandle implements transport.ServiceDiscovery.
func (a *Adapter) DescriptorHandle(charUUID, descUUID bluetooth.UUID) (uint16, bool) {
	if descUUID != ancs.CCCDescriptorUUID {
		return 0, false
	}
	switch charUUID {
	case ancs.NotificationSourceUUID:
		return handleNSCCC, a.found[handleNSCCC]
	case ancs.DataSourceUUID:
		return handleDSCCC, a.found[handleDSCCC]
	}
	return 0, false
}

var _ transport.Transport = (*Adapter)(nil)

// SetReceiver wires the callback tinygo invokes on inbound notifications
// to recv, tagging each delivery with the appropriate synthetic handle.
func (a *Adapter) SetReceiver(recv transport.NotificationReceiver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recv = recv
}

// Subscribe implements transport.Transport by calling
// EnableNotifications on the characteristic behind cccdHandle.
func (a *Adapter) Subscribe(cccdHandle uint16) error {
	a.mu.Lock()
	recv := a.recv
	a.mu.Unlock()
	if recv == nil {
		return errors.New("tinygoble: no receiver bound")
	}

	switch cccdHandle {
	case handleNSCCC:
		return a.ns.EnableNotifications(func(buf []byte) { recv.Deliver(handleNS, buf) })
	case handleDSCCC:
		return a.ds.EnableNotifications(func(buf []byte) { recv.Deliver(handleDS, buf) })
	}
	return errors.New("tinygoble: unknown cccd handle")
}

// Unsubscribe implements transport.Transport. tinygo's API has no
// disable call; re-enabling with a nil-effect callback is the closest
// available approximation, so unsubscribe here only stops routing to
// the session, it does not stop the peripheral from sending.
func (a *Adapter) Unsubscribe(cccdHandle uint16) error {
	switch cccdHandle {
	case handleNSCCC:
		return a.ns.EnableNotifications(func([]byte) {})
	case handleDSCCC:
		return a.ds.EnableNotifications(func([]byte) {})
	}
	return errors.New("tinygoble: unknown cccd handle")
}

// WriteWithResponse implements transport.Transport. tinygo's central
// API only exposes WriteWithoutResponse; ANCS requires a
// write-with-response Control Point, so this adapter issues the write
// and immediately completes with status 0, relying on the eventual
// Data Source response (or its absence, surfaced by the caller's
// context timeout) rather than an ATT-level write response.
func (a *Adapter) WriteWithResponse(handle uint16, data []byte, complete transport.WriteCompleteFunc) error {
	if handle != handleCP {
		return errors.New("tinygoble: unknown handle")
	}
	_, err := a.cp.WriteWithoutResponse(data)
	complete(0, err)
	return err
}
