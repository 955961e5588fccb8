package ancs

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nrfconnect/ancs-client/internal/logging"
	"github.com/nrfconnect/ancs-client/transport"
)

// minCPBufferSize is the smallest Control Point staging buffer this
// package will accept. A GetNotifAttrs command needs the fixed 5-byte
// command/uid prefix, one byte per requested attribute, and two more for
// each of Title/Subtitle/Message: 14 bytes for those three alone, 19 for
// all eight attributes.
const minCPBufferSize = 18

// Handles is the resolved GATT handle set for one ANCS connection.
type Handles struct {
	CP    uint16
	NS    uint16
	NSCCC uint16
	DS    uint16
	DSCCC uint16
}

// Session holds all per-connection ANCS state: the requested-attribute
// tables, the Control Point staging buffer and its single-permit
// transaction guard, the Data Source parser, and the event handler.
// A Session is created idle; the usual wiring order is AttrAdd...,
// HandlesAssign, then NSEnable/DSEnable.
type Session struct {
	id string

	handler EventHandler
	tr      transport.Transport
	log     *logging.Logger
	metrics *Metrics

	notifAttrs NotifAttrTable
	appAttrs   AppAttrTable

	cpBuf  []byte
	cpSem  chan struct{}
	parser *dsParser

	handles Handles

	nsEnabled atomic.Bool
	dsEnabled atomic.Bool
}

// Option configures optional Session collaborators.
type Option func(*Session)

// WithLogger attaches a logger; without it Session logs nothing.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithMetrics attaches a Metrics recorder; without it Session records
// nothing.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession creates an idle session bound to handler and tr. cpBufSize
// is the fixed capacity of the Control Point staging
// buffer; it must be at least minCPBufferSize and large enough to hold
// the largest command this session will ever encode (the app-id command
// in particular).
func NewSession(handler EventHandler, tr transport.Transport, cpBufSize int, opts ...Option) (*Session, error) {
	if handler == nil || tr == nil {
		return nil, ErrInvalid
	}
	if cpBufSize < minCPBufferSize {
		return nil, ErrInvalid
	}

	s := &Session{
		id:      uuid.NewString(),
		handler: handler,
		tr:      tr,
		cpBuf:   make([]byte, 0, cpBufSize),
		cpSem:   make(chan struct{}, 1),
	}
	s.cpSem <- struct{}{}
	s.parser = newDSParser(&s.notifAttrs, &s.appAttrs, s.wrapHandler())

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// wrapHandler is where per-event bookkeeping (metrics, tracing) that must
// not itself block the caller's sink is attached.
func (s *Session) wrapHandler() EventHandler {
	return func(evt Event) {
		if s.metrics != nil {
			s.metrics.observe(evt)
		}
		s.handler(evt)
	}
}

// AttrKind selects which subscription table AttrAdd populates.
type AttrKind int

const (
	AttrKindNotif AttrKind = iota
	AttrKindApp
)

// AttrAdd registers storage for one attribute and marks it requested.
// buf must be non-nil with 1 <= len(buf) <= 32.
func (s *Session) AttrAdd(kind AttrKind, id int, buf []byte) error {
	if buf == nil || len(buf) < 1 || len(buf) > 32 {
		return ErrInvalid
	}
	var entry *AttrEntry
	switch kind {
	case AttrKindNotif:
		if id < 0 || id >= int(numNotifAttrs) {
			return ErrInvalid
		}
		entry = &s.notifAttrs[id]
	case AttrKindApp:
		if id < 0 || id >= int(numAppAttrs) {
			return ErrInvalid
		}
		entry = &s.appAttrs[id]
	default:
		return ErrInvalid
	}
	entry.Storage = buf
	entry.Requested = true
	return nil
}

// HandlesAssign resolves and stores the Control Point, Notification
// Source, and Data Source handles (and their CCCDs) from a completed
// service discovery, and returns the resolved handle set.
func (s *Session) HandlesAssign(d transport.ServiceDiscovery) (Handles, error) {
	if d.ServiceUUID() != ServiceUUID {
		return Handles{}, ErrNotSupported
	}

	cp, ok := d.CharacteristicHandle(ControlPointUUID)
	if !ok {
		return Handles{}, ErrInvalid
	}

	ns, ok := d.CharacteristicHandle(NotificationSourceUUID)
	if !ok {
		return Handles{}, ErrInvalid
	}
	nsCCC, ok := d.DescriptorHandle(NotificationSourceUUID, CCCDescriptorUUID)
	if !ok {
		return Handles{}, ErrInvalid
	}

	ds, ok := d.CharacteristicHandle(DataSourceUUID)
	if !ok {
		return Handles{}, ErrInvalid
	}
	dsCCC, ok := d.DescriptorHandle(DataSourceUUID, CCCDescriptorUUID)
	if !ok {
		return Handles{}, ErrInvalid
	}

	s.handles = Handles{CP: cp, NS: ns, NSCCC: nsCCC, DS: ds, DSCCC: dsCCC}
	if s.log != nil {
		s.log.Debug(s.id, "ancs handles assigned: cp=%#x ns=%#x/%#x ds=%#x/%#x", cp, ns, nsCCC, ds, dsCCC)
	}
	return s.handles, nil
}

// Handles returns the last handle set resolved by HandlesAssign.
func (s *Session) Handles() Handles { return s.handles }

// NSEnable subscribes to Notification Source. A second call returns
// ErrAlreadyDone.
func (s *Session) NSEnable() error {
	if !s.nsEnabled.CompareAndSwap(false, true) {
		return ErrAlreadyDone
	}
	if err := s.tr.Subscribe(s.handles.NSCCC); err != nil {
		s.nsEnabled.Store(false)
		return fmt.Errorf("ancs: subscribe ns: %w", err)
	}
	return nil
}

// NSDisable unsubscribes from Notification Source. A call on a
// never-enabled channel returns ErrNotEnabled.
func (s *Session) NSDisable() error {
	if !s.nsEnabled.CompareAndSwap(true, false) {
		return ErrNotEnabled
	}
	if err := s.tr.Unsubscribe(s.handles.NSCCC); err != nil {
		return fmt.Errorf("ancs: unsubscribe ns: %w", err)
	}
	return nil
}

// DSEnable subscribes to Data Source. A second call returns
// ErrAlreadyDone.
func (s *Session) DSEnable() error {
	if !s.dsEnabled.CompareAndSwap(false, true) {
		return ErrAlreadyDone
	}
	if err := s.tr.Subscribe(s.handles.DSCCC); err != nil {
		s.dsEnabled.Store(false)
		return fmt.Errorf("ancs: subscribe ds: %w", err)
	}
	return nil
}

// DSDisable unsubscribes from Data Source. A call on a never-enabled
// channel returns ErrNotEnabled.
func (s *Session) DSDisable() error {
	if !s.dsEnabled.CompareAndSwap(true, false) {
		return ErrNotEnabled
	}
	if err := s.tr.Unsubscribe(s.handles.DSCCC); err != nil {
		return fmt.Errorf("ancs: unsubscribe ds: %w", err)
	}
	return nil
}

// Deliver routes one inbound record by handle to the Notification
// Source decoder or the Data Source parser. It implements
// transport.NotificationReceiver. It never blocks and never suspends.
func (s *Session) Deliver(handle uint16, payload []byte) {
	switch handle {
	case s.handles.NS:
		decodeNotification(s.wrapHandler(), payload)
	case s.handles.DS:
		s.parser.feed(payload)
	}
}

// acquire takes the single Control Point permit, respecting ctx.
func (s *Session) acquire(ctx context.Context) error {
	select {
	case <-s.cpSem:
		return nil
	default:
	}
	select {
	case <-s.cpSem:
		return nil
	case <-ctx.Done():
		return ErrBusy
	}
}

func (s *Session) release() {
	select {
	case s.cpSem <- struct{}{}:
	default:
	}
}

// dispatch hands buf to the transport as a Control Point write and wires
// its completion to release the permit and emit EventProviderError. A
// completion carrying a transport error releases the permit and emits
// nothing.
func (s *Session) dispatch(buf []byte) error {
	err := s.tr.WriteWithResponse(s.handles.CP, buf, func(status uint8, werr error) {
		defer s.release()
		if s.log != nil {
			s.log.Debug(s.id, "cp write complete status=%#x err=%v", status, werr)
		}
		if werr != nil {
			return
		}
		s.wrapHandler()(Event{Kind: EventProviderError, ProviderError: ProviderError(status)})
	})
	if err != nil {
		s.release()
		return fmt.Errorf("ancs: control point write: %w", err)
	}
	return nil
}

// RequestAttrs dispatches a GetNotifAttrs command for notif.NotifUID,
// requesting every attribute previously marked with AttrAdd(AttrKindNotif, ...).
func (s *Session) RequestAttrs(ctx context.Context, notif Notification) error {
	if notif.EventID >= numEventIDs || notif.CategoryID >= numCategoryIDs {
		return ErrInvalid
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}

	encoded, requested, err := encodeGetNotifAttrs(s.cpBuf[:0:cap(s.cpBuf)], notif.NotifUID, &s.notifAttrs)
	if err != nil {
		s.release()
		return err
	}

	s.parser.reset()
	s.parser.expectedAttrCount = requested

	if err := s.dispatch(encoded); err != nil {
		return err
	}
	return nil
}

// AppAttrRequest dispatches a GetAppAttrs command for appID, requesting
// every attribute previously marked with AttrAdd(AttrKindApp, ...). It
// returns the number of attributes actually requested.
func (s *Session) AppAttrRequest(ctx context.Context, appID string) (int, error) {
	if len(appID) == 0 {
		return 0, ErrInvalid
	}
	if err := s.acquire(ctx); err != nil {
		return 0, err
	}

	encoded, requested, err := encodeGetAppAttrs(s.cpBuf[:0:cap(s.cpBuf)], []byte(appID), &s.appAttrs)
	if err != nil {
		s.release()
		return 0, err
	}

	s.parser.reset()
	s.parser.expectedAttrCount = requested

	if err := s.dispatch(encoded); err != nil {
		return 0, err
	}
	return requested, nil
}

// PerformAction dispatches a PerformNotifAction command.
func (s *Session) PerformAction(ctx context.Context, uid uint32, action ActionID) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	encoded, err := encodePerformAction(s.cpBuf[:0:cap(s.cpBuf)], uid, action)
	if err != nil {
		s.release()
		return err
	}
	return s.dispatch(encoded)
}

// OnDisconnected clears the subscription bits and force-releases the
// Control Point permit, covering the case where a command was in
// flight when the link dropped.
func (s *Session) OnDisconnected() {
	s.nsEnabled.Store(false)
	s.dsEnabled.Store(false)
	s.release()
}
