// Package ws accepts subscriber connections and manages their read side.
// Subscribers are write-only from the server's perspective: everything
// they send is read and discarded.
package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/posekit/posestream/internal/broadcast"
	"github.com/posekit/posestream/internal/infrastructure/monitoring"
	"github.com/posekit/posestream/internal/lifecycle"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler manages WebSocket subscriber connections
type Handler struct {
	registry *broadcast.Registry
	stop     *lifecycle.Stop
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(registry *broadcast.Registry, stop *lifecycle.Stop, logger *zap.Logger, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		registry: registry,
		stop:     stop,
		logger:   logger,
		metrics:  metrics,
	}
}

// HandleConnection upgrades the request and registers the connection as a
// broadcast subscriber. The goroutine then stays in a read-discard loop:
// inbound traffic carries no defined semantics, so malformed or
// unexpected bytes never cause a disconnect. The loop exits on peer
// close or transport error, at which point the subscriber is removed.
func (h *Handler) HandleConnection(c *gin.Context) {
	if h.stop.Tripped() {
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// Welcome goes out before registration so it cannot race a broadcast
	// tick's write on the same connection.
	h.sendWelcome(conn)

	sub := broadcast.NewSubscriber(conn, conn.RemoteAddr().String())
	h.registry.Add(sub)
	if h.metrics != nil {
		h.metrics.Subscribers.Inc()
		h.metrics.SubscribersIn.Inc()
	}
	h.logger.Info("subscriber connected",
		zap.String("subscriber", sub.ID),
		zap.String("remote", sub.Remote),
	)

	// Read side: consume and discard until the peer goes away. This also
	// notices a server-side close during shutdown.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.registry.Remove(sub.ID)
	sub.Close()
	if h.metrics != nil {
		h.metrics.Subscribers.Dec()
	}
	h.logger.Info("subscriber disconnected",
		zap.String("subscriber", sub.ID),
		zap.String("remote", sub.Remote),
	)
}

func (h *Handler) sendWelcome(conn *websocket.Conn) {
	err := conn.WriteJSON(map[string]interface{}{
		"type":    "system",
		"message": "Connected to pose stream",
	})
	if err != nil {
		h.logger.Debug("welcome message failed", zap.Error(err))
	}
}
