package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) registerConversation(r *gin.RouterGroup) {
	u := r.Group("/users/:id")
	{
		u.GET("/availability/common", h.CommonAvailability)
		u.GET("/restaurants", h.RecommendedRestaurants)
		u.GET("/starters", h.ConversationStarters)
	}

	conv := r.Group("/conversations")
	{
		conv.GET("", h.Conversations)
		conv.GET("/:id/messages", h.History)
		conv.POST("/:id/messages", h.SendMessage)
		conv.GET("/:id/poll", h.Poll)
	}
}

func (h *Handler) CommonAvailability(c *gin.Context) {
	target, ok := uintParam(c, "id")
	if !ok {
		return
	}
	days, err := h.conversations.CommonAvailability(c.Request.Context(), identity(c), target)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (h *Handler) RecommendedRestaurants(c *gin.Context) {
	target, ok := uintParam(c, "id")
	if !ok {
		return
	}
	recs, err := h.conversations.RecommendedRestaurants(c.Request.Context(), identity(c), target)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": recs})
}

func (h *Handler) ConversationStarters(c *gin.Context) {
	target, ok := uintParam(c, "id")
	if !ok {
		return
	}
	starters, err := h.conversations.Starters(c.Request.Context(), identity(c), target)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"starters": starters})
}

func (h *Handler) Conversations(c *gin.Context) {
	list, err := h.conversations.Conversations(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": list})
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	target, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "content is required")
		return
	}
	msg, err := h.conversations.Send(c.Request.Context(), identity(c), target, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// History reads ?page_token= and ?limit=.
func (h *Handler) History(c *gin.Context) {
	target, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var token *string
	if t := c.Query("page_token"); t != "" {
		token = &t
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer")
			return
		}
		limit = n
	}
	page, err := h.conversations.History(c.Request.Context(), identity(c), target, token, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) Poll(c *gin.Context) {
	target, ok := uintParam(c, "id")
	if !ok {
		return
	}
	after, ok := uintQuery(c, "after_id")
	if !ok {
		return
	}
	msgs, err := h.conversations.Poll(c.Request.Context(), identity(c), target, after)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
