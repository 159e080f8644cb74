// Package api is the REST surface of the service: a gin router under
// /api/v1 over the same core services the gRPC transport uses.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	svcErr "github.com/oggyb/lunchmatch/internal/errors"
	"github.com/oggyb/lunchmatch/internal/service/conversation"
	"github.com/oggyb/lunchmatch/internal/service/discovery"
	"github.com/oggyb/lunchmatch/internal/service/matchstate"
	"github.com/oggyb/lunchmatch/internal/service/notification"
	"github.com/oggyb/lunchmatch/internal/service/profile"
)

// Handler holds the core services behind the routes.
type Handler struct {
	appCtx        *app.AppContext
	discovery     *discovery.Engine
	matches       *matchstate.Machine
	conversations *conversation.Service
	notifications *notification.Service
	profiles      *profile.Service
}

func NewHandler(appCtx *app.AppContext) *Handler {
	return &Handler{
		appCtx:        appCtx,
		discovery:     discovery.NewEngine(appCtx),
		matches:       matchstate.NewMachine(appCtx),
		conversations: conversation.NewService(appCtx),
		notifications: notification.NewService(appCtx),
		profiles:      profile.NewService(appCtx),
	}
}

// NewRouter builds the gin engine with CORS, request logging and the
// authenticated /api/v1 group.
func NewRouter(appCtx *app.AppContext, issuer *auth.Issuer) *gin.Engine {
	switch appCtx.Config.App.ENV {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(appCtx.Logger), corsMiddleware(appCtx.Config.HTTP.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandler(appCtx)
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(issuer))
	{
		h.registerDiscovery(v1)
		h.registerConversation(v1)
		h.registerNotifications(v1)
		h.registerProfile(v1)
	}
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "Accept", "Origin", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// fail renders a service error with its HTTP status.
func fail(c *gin.Context, err error) {
	status := svcErr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": svcErr.Message(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// uintParam reads a positive integer path parameter, answering 400 itself
// when it is malformed.
func uintParam(c *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return v, true
}

func uintQuery(c *gin.Context, name string) (uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		badRequest(c, name+" must be a non-negative integer")
		return 0, false
	}
	return v, true
}
