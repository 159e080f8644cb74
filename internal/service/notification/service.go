// Package notification lists and acknowledges the notifications the other
// services write (matches, messages).
package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/db"
	svcErr "github.com/oggyb/lunchmatch/internal/errors"
	"github.com/oggyb/lunchmatch/internal/repository"
)

// RecentReadLimit caps how many already read notifications List returns.
const RecentReadLimit = 20

type View struct {
	ID            uint64    `json:"id"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	RelatedUserID *uint64   `json:"related_user_id,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

// Listing splits the inbox into unread and recently read notifications.
type Listing struct {
	Unread []View `json:"unread"`
	Read   []View `json:"read"`
}

type Service struct {
	appCtx *app.AppContext
	repo   *repository.NotificationRepository
	log    *slog.Logger
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		repo:   repository.NewNotificationRepository(appCtx.DB),
		log:    appCtx.Logger.With("component", "notification"),
	}
}

func views(rows []db.Notification) []View {
	out := make([]View, 0, len(rows))
	for _, n := range rows {
		out = append(out, View{
			ID:            n.ID,
			Type:          n.Type,
			Message:       n.Message,
			RelatedUserID: n.RelatedUserID,
			IsRead:        n.IsRead,
			CreatedAt:     n.CreatedAt,
		})
	}
	return out
}

// List returns every unread notification and the 20 most recent read ones,
// newest first in both groups.
func (s *Service) List(ctx context.Context, viewer auth.Identity) (Listing, error) {
	unread, err := s.repo.Unread(ctx, viewer.UserID)
	if err != nil {
		return Listing{}, svcErr.Translate(err)
	}
	read, err := s.repo.RecentRead(ctx, viewer.UserID, RecentReadLimit)
	if err != nil {
		return Listing{}, svcErr.Translate(err)
	}
	return Listing{Unread: views(unread), Read: views(read)}, nil
}

// MarkRead flags one of viewer's notifications. Someone else's id is
// reported as NotFound.
func (s *Service) MarkRead(ctx context.Context, viewer auth.Identity, id uint64) error {
	found, err := s.repo.MarkRead(ctx, viewer.UserID, id)
	if err != nil {
		return svcErr.Translate(err)
	}
	if !found {
		return svcErr.NotFound("notification not found")
	}
	s.invalidate(ctx, viewer.UserID)
	return nil
}

// MarkAllRead flags every unread notification and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, viewer auth.Identity) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, viewer.UserID)
	if err != nil {
		return 0, svcErr.Translate(err)
	}
	s.invalidate(ctx, viewer.UserID)
	return n, nil
}

// UnreadCount returns the number of unread notifications.
// Cache-first strategy:
//  1. Read notifications:unread:<user> from Redis (TTL refreshed on hit).
//  2. On a miss or a Redis error, count in the DB.
//  3. Store the DB count with a 1h TTL.
func (s *Service) UnreadCount(ctx context.Context, viewer auth.Identity) (int64, error) {
	cached, ok, err := s.appCtx.RedisCache.GetUnreadCount(ctx, viewer.UserID)
	if err != nil {
		s.log.Warn("unread count cache read failed", "user", viewer.UserID, "err", err)
	} else if ok {
		return cached, nil
	}

	count, err := s.repo.CountUnread(ctx, viewer.UserID)
	if err != nil {
		return 0, svcErr.Translate(err)
	}
	if err := s.appCtx.RedisCache.SetUnreadCount(ctx, viewer.UserID, count); err != nil {
		s.log.Warn("unread count cache write failed", "user", viewer.UserID, "err", err)
	}
	return count, nil
}

func (s *Service) invalidate(ctx context.Context, userID uint64) {
	if err := s.appCtx.RedisCache.InvalidateUnreadCount(ctx, userID); err != nil {
		s.log.Warn("unread count invalidation failed", "user", userID, "err", err)
	}
}
