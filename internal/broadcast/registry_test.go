package broadcast

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records writes and can be told to fail, standing in for a
// gorilla connection.
type fakeConn struct {
	mu         sync.Mutex
	messages   [][]byte
	failWrites bool
	failClose  bool
	closed     bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("broken pipe")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	c.messages = append(c.messages, buf)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.failClose {
		return errors.New("close failed")
	}
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry()
	sub := NewSubscriber(&fakeConn{}, "10.0.0.1:1234")

	r.Add(sub)
	assert.Equal(t, 1, r.Len())

	assert.True(t, r.Remove(sub.ID))
	assert.Equal(t, 0, r.Len())

	// Second removal is a harmless no-op.
	assert.False(t, r.Remove(sub.ID))
}

func TestRegistryListIsSnapshot(t *testing.T) {
	r := NewRegistry()
	a := NewSubscriber(&fakeConn{}, "a")
	b := NewSubscriber(&fakeConn{}, "b")
	r.Add(a)
	r.Add(b)

	listed := r.List()
	require.Len(t, listed, 2)

	// Mutating the registry does not affect an already-taken snapshot.
	r.Remove(a.ID)
	assert.Len(t, listed, 2)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryCloseAll(t *testing.T) {
	r := NewRegistry()
	good := &fakeConn{}
	bad := &fakeConn{failClose: true}
	subGood := NewSubscriber(good, "good")
	subBad := NewSubscriber(bad, "bad")
	r.Add(subGood)
	r.Add(subBad)

	errs := r.CloseAll()

	assert.Equal(t, 0, r.Len())
	assert.True(t, good.isClosed())
	assert.True(t, bad.isClosed())
	assert.Len(t, errs, 1, "close failures are reported but do not stop the sweep")
	assert.True(t, subGood.Closed())
	assert.True(t, subBad.Closed())
}

func TestRegistryConcurrentMutationDuringIteration(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := 0; m < 100; m++ {
				sub := NewSubscriber(&fakeConn{}, "churn")
				r.Add(sub)
				r.List()
				r.Remove(sub.ID)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
}

func TestSubscriberSendAfterClose(t *testing.T) {
	conn := &fakeConn{}
	sub := NewSubscriber(conn, "peer")

	require.NoError(t, sub.Close())
	assert.ErrorIs(t, sub.Send([]byte("late")), websocket.ErrCloseSent)
	assert.Empty(t, conn.received())

	// Close is idempotent.
	assert.NoError(t, sub.Close())
}
