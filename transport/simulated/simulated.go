// Package simulated is an in-memory transport.Transport and
// transport.ServiceDiscovery pair for tests and the demo CLI. It
// models MTU fragmentation and configurable packet loss the way the
// teacher's wire.Simulator does, but drives an ancs.Session instead of
// a full GATT stack.
package simulated

import (
	"errors"
	"math/rand"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/nrfconnect/ancs-client/ancs"
	"github.com/nrfconnect/ancs-client/transport"
)

// Config controls fragmentation and reliability of the simulated link,
// mirroring the shape (not the exact fields) of the teacher's
// SimulationConfig.
type Config struct {
	MTU            int
	WriteDelay     time.Duration
	PacketLossRate float64
	Deterministic  bool
	Seed           int64
}

// DefaultConfig returns a lossless, zero-delay configuration suitable
// for deterministic unit tests.
func DefaultConfig() Config {
	return Config{MTU: 185, Deterministic: true}
}

const (
	handleCP = 1
	handleNS = 2
	handleNSCCC = 3
	handleDS = 4
	handleDSCCC = 5
)

// Peer stands in for the remote Notification Provider: it accepts
// Control Point writes and pushes back Notification Source / Data
// Source records through the bound receiver.
type Peer struct {
	cfg      Config
	rng      *rand.Rand
	receiver transport.NotificationReceiver

	nsSubscribed bool
	dsSubscribed bool

	// OnCPWrite is invoked on the write's completion goroutine for every
	// Control Point write that is not lost, before the write completes;
	// tests use it to script Data Source responses back via PushDataSource.
	OnCPWrite func(data []byte)
}

// NewPeer creates a simulated peer bound to receiver, which is normally
// the ancs.Session under test. receiver may be nil and set later with
// SetReceiver, for the common construction order where the Session
// itself needs a transport.Transport before it exists.
func NewPeer(cfg Config, receiver transport.NotificationReceiver) *Peer {
	if cfg.MTU <= 0 {
		cfg.MTU = 185
	}
	var seed int64
	if !cfg.Deterministic {
		seed = time.Now().UnixNano()
	} else {
		seed = cfg.Seed
	}
	return &Peer{cfg: cfg, rng: rand.New(rand.NewSource(seed)), receiver: receiver}
}

// SetReceiver binds (or rebinds) the receiver notifications and Data
// Source pushes are delivered to.
func (p *Peer) SetReceiver(receiver transport.NotificationReceiver) {
	p.receiver = receiver
}

// Subscribe implements transport.Transport.
func (p *Peer) Subscribe(cccdHandle uint16) error {
	switch cccdHandle {
	case handleNSCCC:
		p.nsSubscribed = true
	case handleDSCCC:
		p.dsSubscribed = true
	default:
		return errors.New("simulated: unknown cccd handle")
	}
	return nil
}

// Unsubscribe implements transport.Transport.
func (p *Peer) Unsubscribe(cccdHandle uint16) error {
	switch cccdHandle {
	case handleNSCCC:
		p.nsSubscribed = false
	case handleDSCCC:
		p.dsSubscribed = false
	default:
		return errors.New("simulated: unknown cccd handle")
	}
	return nil
}

// WriteWithResponse implements transport.Transport. It completes on a
// separate goroutine after WriteDelay: a write lost to PacketLossRate
// completes with an error, any other write is passed to OnCPWrite and
// then completes with status 0. A write to an unknown handle returns an
// error without invoking complete.
func (p *Peer) WriteWithResponse(handle uint16, data []byte, complete transport.WriteCompleteFunc) error {
	if handle != handleCP {
		return errors.New("simulated: unknown handle")
	}
	go func() {
		if p.cfg.WriteDelay > 0 {
			time.Sleep(p.cfg.WriteDelay)
		}
		if p.cfg.PacketLossRate > 0 && p.rng.Float64() < p.cfg.PacketLossRate {
			complete(0, errors.New("simulated: write lost"))
			return
		}
		if p.OnCPWrite != nil {
			p.OnCPWrite(data)
		}
		complete(0, nil)
	}()
	return nil
}

// PushNotification delivers a raw Notification Source record,
// fragmenting it at the configured MTU exactly as a real controller
// would split an ATT notification across link-layer PDUs.
func (p *Peer) PushNotification(record []byte) {
	if !p.nsSubscribed {
		return
	}
	for _, frag := range fragment(record, p.cfg.MTU) {
		p.receiver.Deliver(handleNS, frag)
	}
}

// PushDataSource delivers a raw Data Source response, fragmented at the
// configured MTU. Callers may also call it multiple times with
// naturally pre-split slices to exercise re-entrant reassembly across
// records that don't align with attribute boundaries.
func (p *Peer) PushDataSource(record []byte) {
	if !p.dsSubscribed {
		return
	}
	for _, frag := range fragment(record, p.cfg.MTU) {
		p.receiver.Deliver(handleDS, frag)
	}
}

func fragment(data []byte, mtu int) [][]byte {
	if mtu <= 0 || len(data) <= mtu {
		return [][]byte{data}
	}
	var chunks [][]byte
	for i := 0; i < len(data); i += mtu {
		end := i + mtu
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[i:end])
	}
	return chunks
}

// Discovery is a canned transport.ServiceDiscovery returning the fixed
// handle table this package uses.
type Discovery struct{}

func (Discovery) ServiceUUID() bluetooth.UUID { return ancs.ServiceUUID }

func (Discovery) CharacteristicHandle(uuid bluetooth.UUID) (uint16, bool) {
	switch uuid {
	case ancs.ControlPointUUID:
		return handleCP, true
	case ancs.NotificationSourceUUID:
		return handleNS, true
	case ancs.DataSourceUUID:
		return handleDS, true
	}
	return 0, false
}

func (Discovery) DescriptorHandle(charUUID, descUUID bluetooth.UUID) (uint16, bool) {
	if descUUID != ancs.CCCDescriptorUUID {
		return 0, false
	}
	switch charUUID {
	case ancs.NotificationSourceUUID:
		return handleNSCCC, true
	case ancs.DataSourceUUID:
		return handleDSCCC, true
	}
	return 0, false
}
