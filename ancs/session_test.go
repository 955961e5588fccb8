package ancs_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nrfconnect/ancs-client/ancs"
	"github.com/nrfconnect/ancs-client/transport/simulated"
)

func newTestSession(t *testing.T) (*ancs.Session, *simulated.Peer, chan ancs.Event) {
	t.Helper()
	events := make(chan ancs.Event, 16)
	peer := simulated.NewPeer(simulated.DefaultConfig(), nil)

	session, err := ancs.NewSession(func(e ancs.Event) { events <- e }, peer, 64)
	require.NoError(t, err)
	peer.SetReceiver(session)

	titleBuf := make([]byte, 16)
	require.NoError(t, session.AttrAdd(ancs.AttrKindNotif, int(ancs.NotifAttrTitle), titleBuf))

	_, err = session.HandlesAssign(simulated.Discovery{})
	require.NoError(t, err)
	require.NoError(t, session.NSEnable())
	require.NoError(t, session.DSEnable())

	return session, peer, events
}

func recvEvent(t *testing.T, events chan ancs.Event) ancs.Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return ancs.Event{}
	}
}

func TestSessionEnableIsIdempotent(t *testing.T) {
	session, _, _ := newTestSession(t)
	require.ErrorIs(t, session.NSEnable(), ancs.ErrAlreadyDone)
	require.ErrorIs(t, session.DSEnable(), ancs.ErrAlreadyDone)
}

func TestSessionDisableUnenabledReturnsError(t *testing.T) {
	peer := simulated.NewPeer(simulated.DefaultConfig(), nil)
	session, err := ancs.NewSession(func(ancs.Event) {}, peer, 64)
	require.NoError(t, err)
	peer.SetReceiver(session)
	_, err = session.HandlesAssign(simulated.Discovery{})
	require.NoError(t, err)

	require.ErrorIs(t, session.NSDisable(), ancs.ErrNotEnabled)
	require.ErrorIs(t, session.DSDisable(), ancs.ErrNotEnabled)
}

func TestSessionNotificationDelivery(t *testing.T) {
	session, peer, events := newTestSession(t)
	_ = session

	record := []byte{byte(ancs.EventAdded), 0, byte(ancs.CategorySocial), 1, 5, 0, 0, 0}
	peer.PushNotification(record)

	evt := recvEvent(t, events)
	require.Equal(t, ancs.EventNotif, evt.Kind)
	require.Equal(t, uint32(5), evt.Notification.NotifUID)
}

func TestSessionRequestAttrsRoundTrip(t *testing.T) {
	session, peer, events := newTestSession(t)

	var captured []byte
	peer.OnCPWrite = func(data []byte) {
		captured = append([]byte(nil), data...)

		var resp bytes.Buffer
		resp.WriteByte(data[0])
		resp.Write(data[1:5]) // echo the uid back
		resp.WriteByte(byte(ancs.NotifAttrTitle))
		var l [2]byte
		binary.LittleEndian.PutUint16(l[:], 5)
		resp.Write(l[:])
		resp.WriteString("Hello")
		peer.PushDataSource(resp.Bytes())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	notif := ancs.Notification{EventID: ancs.EventAdded, CategoryID: ancs.CategorySocial, NotifUID: 7}
	require.NoError(t, session.RequestAttrs(ctx, notif))

	evt := recvEvent(t, events)
	require.Equal(t, ancs.EventNotifAttribute, evt.Kind)
	require.Equal(t, "Hello\x00", string(evt.NotifAttr.Data))
	require.NotNil(t, captured)
}

func TestSessionPerformActionBusyContextDeadline(t *testing.T) {
	cfg := simulated.DefaultConfig()
	cfg.WriteDelay = 200 * time.Millisecond
	peer := simulated.NewPeer(cfg, nil)
	session, err := ancs.NewSession(func(ancs.Event) {}, peer, 64)
	require.NoError(t, err)
	peer.SetReceiver(session)
	_, err = session.HandlesAssign(simulated.Discovery{})
	require.NoError(t, err)

	require.NoError(t, session.PerformAction(context.Background(), 1, ancs.ActionPositive))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = session.PerformAction(ctx, 2, ancs.ActionNegative)
	require.ErrorIs(t, err, ancs.ErrBusy)
}
