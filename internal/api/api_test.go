package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/lunchmatch/internal/api"
	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/db"
	"github.com/oggyb/lunchmatch/internal/testutil"
)

type apiHarness struct {
	appCtx *app.AppContext
	router *gin.Engine
	issuer *auth.Issuer
}

func setupRouter(t *testing.T) *apiHarness {
	t.Helper()
	appCtx, _ := testutil.NewAppContext(t)
	issuer := auth.NewIssuer(appCtx.Config.Auth.JWTSecret, appCtx.Config.Auth.Issuer, time.Hour)
	return &apiHarness{appCtx: appCtx, router: api.NewRouter(appCtx, issuer), issuer: issuer}
}

func (h *apiHarness) token(t *testing.T, u db.User) string {
	t.Helper()
	tok, err := h.issuer.Issue(testutil.Identity(u))
	require.NoError(t, err)
	return tok
}

// do performs a request with an optional JSON body and bearer token.
func (h *apiHarness) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthz(t *testing.T) {
	h := setupRouter(t)
	w := h.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	h := setupRouter(t)

	w := h.do(t, http.MethodGet, "/api/v1/discover/next", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(t, http.MethodGet, "/api/v1/discover/next", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLikeMatchAndMessage(t *testing.T) {
	h := setupRouter(t)
	ann := testutil.CreateUser(t, h.appCtx.DB, "Ann", "X", testutil.WithCuisines("thai"))
	ben := testutil.CreateUser(t, h.appCtx.DB, "Ben", "X", testutil.WithCuisines("thai"))
	annTok, benTok := h.token(t, ann), h.token(t, ben)

	var next struct {
		Found     bool `json:"found"`
		Candidate struct {
			UserID uint64 `json:"user_id"`
			Score  int    `json:"score"`
		} `json:"candidate"`
	}
	w := h.do(t, http.MethodGet, "/api/v1/discover/next", nil, annTok)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &next)
	assert.True(t, next.Found)
	assert.Equal(t, ben.ID, next.Candidate.UserID)
	assert.Equal(t, 110, next.Candidate.Score)

	w = h.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/like", ben.ID), nil, annTok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"matched":false}`, w.Body.String())

	// Not matched yet.
	w = h.do(t, http.MethodPost, fmt.Sprintf("/api/v1/conversations/%d/messages", ben.ID), gin.H{"content": "hi"}, annTok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/like", ann.ID), nil, benTok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"matched":true}`, w.Body.String())

	w = h.do(t, http.MethodPost, fmt.Sprintf("/api/v1/conversations/%d/messages", ben.ID), gin.H{"content": "  noon?  "}, annTok)
	require.Equal(t, http.StatusCreated, w.Code)

	var convs struct {
		Conversations []struct {
			UserID      uint64 `json:"user_id"`
			UnreadCount int64  `json:"unread_count"`
			LastMessage struct {
				Content string `json:"content"`
			} `json:"last_message"`
		} `json:"conversations"`
	}
	w = h.do(t, http.MethodGet, "/api/v1/conversations", nil, benTok)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &convs)
	require.Len(t, convs.Conversations, 1)
	assert.Equal(t, ann.ID, convs.Conversations[0].UserID)
	assert.EqualValues(t, 1, convs.Conversations[0].UnreadCount)
	assert.Equal(t, "noon?", convs.Conversations[0].LastMessage.Content)

	w = h.do(t, http.MethodGet, fmt.Sprintf("/api/v1/conversations/%d/messages?limit=10", ann.ID), nil, benTok)
	require.Equal(t, http.StatusOK, w.Code)

	var count struct {
		Count int64 `json:"count"`
	}
	w = h.do(t, http.MethodGet, "/api/v1/notifications/unread-count", nil, benTok)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &count)
	assert.EqualValues(t, 2, count.Count)

	w = h.do(t, http.MethodPost, "/api/v1/notifications/read-all", nil, benTok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":2}`, w.Body.String())
}

func TestBadParams(t *testing.T) {
	h := setupRouter(t)
	ann := testutil.CreateUser(t, h.appCtx.DB, "Ann", "X")
	tok := h.token(t, ann)

	w := h.do(t, http.MethodPost, "/api/v1/users/abc/like", nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/like", ann.ID), nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPost, "/api/v1/users/9999/block", nil, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodGet, "/api/v1/conversations/2/poll?after_id=-1", nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileEndpoints(t *testing.T) {
	h := setupRouter(t)
	ann := testutil.CreateUser(t, h.appCtx.DB, "Ann", "X")
	tok := h.token(t, ann)

	w := h.do(t, http.MethodPut, "/api/v1/profile", gin.H{"bio": "likes noodles"}, tok)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPut, "/api/v1/profile/preferences", gin.H{
		"max_budget":           25,
		"preferred_group_size": 3,
		"cuisines":             []string{"Thai", "Korean"},
	}, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Bio                string   `json:"bio"`
		Cuisines           []string `json:"cuisines"`
		PreferredGroupSize int      `json:"preferred_group_size"`
		PhotoURL           string   `json:"photo_url"`
	}
	decode(t, w, &view)
	assert.Equal(t, "likes noodles", view.Bio)
	assert.Equal(t, []string{"korean", "thai"}, view.Cuisines)
	assert.Equal(t, 3, view.PreferredGroupSize)

	slot := gin.H{"day_of_week": 0, "start_time": "12:00", "end_time": "13:00"}
	w = h.do(t, http.MethodPost, "/api/v1/profile/availability", slot, tok)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = h.do(t, http.MethodPost, "/api/v1/profile/availability", slot, tok)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPost, "/api/v1/profile/availability", gin.H{"day_of_week": 0, "start_time": "13:00", "end_time": "12:00"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPost, "/api/v1/profile/photos", gin.H{"path": "ann.jpg"}, tok)
	require.Equal(t, http.StatusCreated, w.Code)
	var photo struct {
		URL       string `json:"url"`
		IsPrimary bool   `json:"is_primary"`
	}
	decode(t, w, &photo)
	assert.Equal(t, "/static/ann.jpg", photo.URL)
	assert.True(t, photo.IsPrimary)

	w = h.do(t, http.MethodPut, "/api/v1/profile/preferences", gin.H{"preferred_group_size": 50}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodDelete, "/api/v1/profile", nil, tok)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = h.do(t, http.MethodGet, "/api/v1/profile", nil, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
