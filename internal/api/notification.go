package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) registerNotifications(r *gin.RouterGroup) {
	n := r.Group("/notifications")
	{
		n.GET("", h.ListNotifications)
		n.GET("/unread-count", h.UnreadCount)
		n.POST("/read-all", h.MarkAllRead)
		n.POST("/:id/read", h.MarkRead)
	}
}

func (h *Handler) ListNotifications(c *gin.Context) {
	l, err := h.notifications.List(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.notifications.UnreadCount(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), identity(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
