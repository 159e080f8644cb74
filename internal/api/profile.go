package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/lunchmatch/internal/service/profile"
)

func (h *Handler) registerProfile(r *gin.RouterGroup) {
	r.GET("/users/:id", h.GetProfile)

	p := r.Group("/profile")
	{
		p.GET("", h.GetOwnProfile)
		p.PUT("", h.UpdateProfile)
		p.DELETE("", h.DeleteAccount)
		p.PUT("/preferences", h.UpdatePreferences)
		p.POST("/availability", h.AddAvailability)
		p.DELETE("/availability/:id", h.DeleteAvailability)
		p.POST("/photos", h.AddPhoto)
		p.PUT("/photos/:id/primary", h.SetPrimaryPhoto)
		p.DELETE("/photos/:id", h.DeletePhoto)
	}
}

func (h *Handler) GetOwnProfile(c *gin.Context) {
	me := identity(c)
	h.renderProfile(c, me.UserID)
}

func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	h.renderProfile(c, id)
}

func (h *Handler) renderProfile(c *gin.Context, userID uint64) {
	v, err := h.profiles.Get(c.Request.Context(), identity(c), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var up profile.ProfileUpdate
	if err := c.ShouldBindJSON(&up); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.profiles.UpdateProfile(c.Request.Context(), identity(c), up); err != nil {
		fail(c, err)
		return
	}
	h.renderProfile(c, identity(c).UserID)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	var in profile.PreferencesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.profiles.UpdatePreferences(c.Request.Context(), identity(c), in); err != nil {
		fail(c, err)
		return
	}
	h.renderProfile(c, identity(c).UserID)
}

type availabilityRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// AddAvailability answers 201 for a new slot and 200 when the same slot
// already existed.
func (h *Handler) AddAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "day_of_week, start_time and end_time are required")
		return
	}
	start, err := profile.ParseClock(req.StartTime)
	if err != nil {
		fail(c, err)
		return
	}
	end, err := profile.ParseClock(req.EndTime)
	if err != nil {
		fail(c, err)
		return
	}
	slot, created, err := h.profiles.AddAvailability(c.Request.Context(), identity(c), *req.DayOfWeek, start, end)
	if err != nil {
		fail(c, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	c.JSON(code, slot)
}

func (h *Handler) DeleteAvailability(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.profiles.DeleteAvailability(c.Request.Context(), identity(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type photoRequest struct {
	Path string `json:"path" binding:"required"`
}

// AddPhoto registers an object the client already uploaded to the photo
// bucket.
func (h *Handler) AddPhoto(c *gin.Context) {
	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "path is required")
		return
	}
	p, err := h.profiles.AddPhoto(c.Request.Context(), identity(c), req.Path)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) SetPrimaryPhoto(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.profiles.SetPrimaryPhoto(c.Request.Context(), identity(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.profiles.DeletePhoto(c.Request.Context(), identity(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.profiles.DeleteAccount(c.Request.Context(), identity(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
