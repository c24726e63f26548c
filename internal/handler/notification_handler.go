package handler

import (
	"io"
	"time"

	"instaclone/backend/internal/auth"
	"instaclone/backend/internal/hub"

	"github.com/gin-gonic/gin"
)

const streamKeepAlive = 30 * time.Second

// StreamNotifications godoc
// @Summary      Notification stream
// @Description  Server-sent events for friend requests received and accepted.
// @Tags         notifications
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /notifications/stream [get]
func (h *Handler) StreamNotifications(c *gin.Context) {
	userID := auth.UserID(c)
	client := make(hub.Client, 16)
	h.Hub.Subscribe(userID, client)
	defer h.Hub.Unsubscribe(userID, client)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
