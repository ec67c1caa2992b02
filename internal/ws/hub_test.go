package ws

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []string
	closed   bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, string(data))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func TestHubRouting(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	adminConn, aliceConn, bobConn := &fakeConn{}, &fakeConn{}, &fakeConn{}
	alice, bob := uuid.New(), uuid.New()
	h.Register <- &Client{Conn: adminConn, UserID: uuid.New(), IsAdmin: true}
	h.Register <- &Client{Conn: aliceConn, UserID: alice}
	h.Register <- &Client{Conn: bobConn, UserID: bob}
	require.Eventually(t, func() bool { return h.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	h.BroadcastAdmins(map[string]string{"type": "activity"})
	h.SendToUsers([]uuid.UUID{alice}, map[string]string{"type": "order_update"})
	h.Broadcast(map[string]string{"type": "rates"})

	require.Eventually(t, func() bool { return len(bobConn.received()) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(aliceConn.received()) == 2 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(adminConn.received()) == 2 }, time.Second, 5*time.Millisecond)

	assert.JSONEq(t, `{"type":"activity"}`, adminConn.received()[0])
	assert.JSONEq(t, `{"type":"order_update"}`, aliceConn.received()[0])
	assert.JSONEq(t, `{"type":"rates"}`, bobConn.received()[0])
}

func TestHubUnregisterClosesConn(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	conn := &fakeConn{}
	c := &Client{Conn: conn, UserID: uuid.New()}
	h.Register <- c
	h.Unregister <- c

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.True(t, conn.closed)
}

func TestHubLeaveAfterStop(t *testing.T) {
	h := NewHub()
	go h.Run()

	conn := &fakeConn{}
	c := &Client{Conn: conn, UserID: uuid.New()}
	require.True(t, h.Join(c))
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Stop()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		h.Leave(c)
		done <- struct{}{}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Leave blocked after Stop")
	}
	assert.False(t, h.Join(&Client{Conn: &fakeConn{}, UserID: uuid.New()}))
}
