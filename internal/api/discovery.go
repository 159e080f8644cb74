package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/lunchmatch/internal/auth"
)

func (h *Handler) registerDiscovery(r *gin.RouterGroup) {
	d := r.Group("/discover")
	{
		d.POST("/reset", h.DiscoverReset)
		d.GET("/next", h.DiscoverNext)
	}
	r.POST("/users/:id/like", h.Like)
	r.POST("/users/:id/block", h.Block)
	r.POST("/users/:id/unmatch", h.Unmatch)
	r.GET("/likes", h.ListLiked)
	r.GET("/matches", h.ListMatched)
}

func (h *Handler) DiscoverReset(c *gin.Context) {
	if err := h.discovery.Reset(c.Request.Context(), identity(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DiscoverNext answers {"found": false} once nobody is left.
func (h *Handler) DiscoverNext(c *gin.Context) {
	card, ok := h.discovery.NextCard(c.Request.Context(), identity(c))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "candidate": card})
}

func (h *Handler) Like(c *gin.Context) {
	target, ok := uintParam(c, "id")
	if !ok {
		return
	}
	me := identity(c)
	res, err := h.matches.Like(c.Request.Context(), me, target)
	if err != nil {
		fail(c, err)
		return
	}
	h.discard(c, me, target)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Block(c *gin.Context) {
	target, ok := uintParam(c, "id")
	if !ok {
		return
	}
	me := identity(c)
	if err := h.matches.Block(c.Request.Context(), me, target); err != nil {
		fail(c, err)
		return
	}
	h.discard(c, me, target)
	c.Status(http.StatusNoContent)
}

func (h *Handler) discard(c *gin.Context, me auth.Identity, target uint64) {
	if err := h.discovery.Discard(c.Request.Context(), me, target); err != nil {
		h.appCtx.Logger.Warn("discovery discard failed", "viewer", me.UserID, "target", target, "err", err)
	}
}

func (h *Handler) Unmatch(c *gin.Context) {
	target, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.matches.Unmatch(c.Request.Context(), identity(c), target); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListLiked(c *gin.Context) {
	users, err := h.matches.ListLiked(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ListMatched(c *gin.Context) {
	users, err := h.matches.ListMatched(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
