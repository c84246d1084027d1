package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/posekit/posestream/internal/broadcast"
	"github.com/posekit/posestream/internal/pose"
)

// Handlers holds dependencies for HTTP handlers
type Handlers struct {
	registry *broadcast.Registry
	mailbox  *pose.Mailbox
	started  time.Time
}

// NewHandlers creates handlers with dependencies
func NewHandlers(registry *broadcast.Registry, mailbox *pose.Mailbox) *Handlers {
	return &Handlers{
		registry: registry,
		mailbox:  mailbox,
		started:  time.Now(),
	}
}

// Root handles basic info
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "posestream",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	snap := h.mailbox.Peek()
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"subscribers": h.registry.Len(),
		"capturing":   snap != nil,
		"uptime":      time.Since(h.started).Seconds(),
	})
}

// Stats reports the current pipeline state
func (h *Handlers) Stats(c *gin.Context) {
	stats := gin.H{
		"subscribers": h.registry.Len(),
	}

	if snap := h.mailbox.Peek(); snap != nil {
		stats["last_snapshot_age"] = time.Since(snap.Timestamp).Seconds()
		stats["capture_rate"] = snap.Rate
		stats["detection"] = snap.HasDetection()
		stats["image_w"] = snap.ImageW
		stats["image_h"] = snap.ImageH
	}

	c.JSON(http.StatusOK, stats)
}
