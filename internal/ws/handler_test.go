package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/posekit/posestream/internal/broadcast"
	"github.com/posekit/posestream/internal/lifecycle"
)

func newTestServer(t *testing.T) (*httptest.Server, *broadcast.Registry, *lifecycle.Stop) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := broadcast.NewRegistry()
	stop := lifecycle.NewStop()
	handler := NewHandler(registry, stop, zap.NewNop(), nil)

	router := gin.New()
	router.GET("/stream", handler.HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, registry, stop
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForCount(t *testing.T, registry *broadcast.Registry, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return registry.Len() == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConnectRegistersSubscriberAndSendsWelcome(t *testing.T) {
	srv, registry, _ := newTestServer(t)

	conn := dial(t, srv)

	var hello map[string]interface{}
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "system", hello["type"])

	waitForCount(t, registry, 1)
}

func TestInboundTrafficIsDiscarded(t *testing.T) {
	srv, registry, _ := newTestServer(t)

	conn := dial(t, srv)
	waitForCount(t, registry, 1)

	// Garbage, valid JSON, binary: none of it means anything inbound and
	// none of it may cost the subscriber its connection.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json at all")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"cmd":"unknown"}`)))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0xde, 0xad, 0xbe, 0xef}))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, registry.Len())
}

func TestPeerCloseUnregistersSubscriber(t *testing.T) {
	srv, registry, _ := newTestServer(t)

	conn := dial(t, srv)
	waitForCount(t, registry, 1)

	conn.Close()
	waitForCount(t, registry, 0)
}

func TestMultipleSubscribers(t *testing.T) {
	srv, registry, _ := newTestServer(t)

	dial(t, srv)
	dial(t, srv)
	dial(t, srv)
	waitForCount(t, registry, 3)
}

func TestRejectsConnectionsAfterStop(t *testing.T) {
	srv, registry, stop := newTestServer(t)

	stop.Trip()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, 503, resp.StatusCode)
	}
	assert.Equal(t, 0, registry.Len())
}
