// Package matchstate owns the interest edge transitions between users:
// like, block, unmatch, and the listings derived from them.
package matchstate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/db"
	svcErr "github.com/oggyb/lunchmatch/internal/errors"
	"github.com/oggyb/lunchmatch/internal/matching"
	"github.com/oggyb/lunchmatch/internal/repository"
)

// LikeResult tells the caller whether the like completed a mutual match.
type LikeResult struct {
	Matched bool `json:"matched"`
}

// LikedCard is a user the viewer liked who has not liked back yet.
type LikedCard struct {
	matching.CandidateSummary
	LikedAt time.Time `json:"liked_at"`
}

// MatchedCard is a mutual match with the strict restaurant picks.
type MatchedCard struct {
	matching.CandidateSummary
	MatchedDate *time.Time `json:"matched_date,omitempty"`
}

// Machine applies edge transitions. Each write runs in one transaction.
type Machine struct {
	appCtx      *app.AppContext
	users       *repository.UserRepository
	edges       *repository.EdgeRepository
	recommender *matching.Recommender
	now         func() time.Time
	log         *slog.Logger
}

func NewMachine(appCtx *app.AppContext) *Machine {
	return &Machine{
		appCtx:      appCtx,
		users:       repository.NewUserRepository(appCtx.DB),
		edges:       repository.NewEdgeRepository(appCtx.DB),
		recommender: matching.NewRecommender(repository.NewRestaurantRepository(appCtx.DB)),
		now:         func() time.Time { return time.Now().UTC() },
		log:         appCtx.Logger.With("component", "matchstate"),
	}
}

// WithClock replaces the clock used to stamp matched_date.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// Like records actor's interest in target and detects a mutual match.
//
// Behavior:
//   - Both user rows are locked first (lowest id first), so concurrent likes
//     on the same pair run one after another and exactly one of them flips
//     the pair to matched.
//   - An existing edge from actor, in any status, makes this a no-op; the
//     result reports whether that edge is matched.
//   - On a match both edges get the same matched_date and each user gets
//     one notification. All of it commits or none of it does.
//
// Example:
//
//	m.Like(ctx, auth.Identity{UserID: 1, University: "X"}, 2)
func (m *Machine) Like(ctx context.Context, actor auth.Identity, targetID uint64) (LikeResult, error) {
	if actor.UserID == targetID {
		return LikeResult{}, svcErr.InvalidArgument("cannot like yourself")
	}

	var res LikeResult
	newMatch := false
	err := m.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edges := m.edges.WithTx(tx)

		n, err := edges.LockPair(ctx, actor.UserID, targetID)
		if err != nil {
			return err
		}
		if n < 2 {
			return svcErr.NotFound("user not found")
		}

		existing, err := edges.Get(ctx, actor.UserID, targetID)
		if err != nil {
			return err
		}
		if existing != nil {
			res.Matched = existing.Status == db.StatusMatched
			return nil
		}

		if _, err := edges.Insert(ctx, actor.UserID, targetID, db.StatusPending); err != nil {
			return err
		}

		reverse, err := edges.Get(ctx, targetID, actor.UserID)
		if err != nil {
			return err
		}
		if reverse == nil || reverse.Status != db.StatusPending {
			return nil
		}

		changed, err := edges.MarkMatched(ctx, actor.UserID, targetID, m.now())
		if err != nil {
			return err
		}
		if changed != 2 {
			return fmt.Errorf("match flip updated %d edges, want 2", changed)
		}

		if err := m.notifyMatch(ctx, tx, actor.UserID, targetID); err != nil {
			return err
		}
		res.Matched, newMatch = true, true
		return nil
	})
	if err != nil {
		m.log.Error("like failed", "actor", actor.UserID, "target", targetID, "err", err)
		return LikeResult{}, svcErr.Translate(err)
	}

	if newMatch {
		m.log.Info("mutual match", "a", actor.UserID, "b", targetID)
		if err := m.appCtx.RedisCache.InvalidateUnreadCount(ctx, actor.UserID, targetID); err != nil {
			m.log.Warn("unread count invalidation failed", "err", err)
		}
	}
	return res, nil
}

func (m *Machine) notifyMatch(ctx context.Context, tx *gorm.DB, a, b uint64) error {
	names, err := m.users.WithTx(tx).FirstNames(ctx, a, b)
	if err != nil {
		return err
	}
	notes := repository.NewNotificationRepository(tx)
	for _, pair := range [][2]uint64{{a, b}, {b, a}} {
		me, other := pair[0], pair[1]
		msg := fmt.Sprintf("You matched with %s! You can now message each other.", names[other])
		if err := notes.Create(ctx, me, db.NotificationMatch, msg, &other); err != nil {
			return err
		}
	}
	return nil
}

// Block hides target from actor for good. An existing edge is left alone
// and the reverse direction is never inspected.
func (m *Machine) Block(ctx context.Context, actor auth.Identity, targetID uint64) error {
	if actor.UserID == targetID {
		return svcErr.InvalidArgument("cannot block yourself")
	}
	if err := m.requireUser(ctx, targetID); err != nil {
		return err
	}
	if _, err := m.edges.Insert(ctx, actor.UserID, targetID, db.StatusBlocked); err != nil {
		return svcErr.Translate(err)
	}
	return nil
}

// Unmatch moves both directions of the pair to unmatched in one statement.
// Edges are kept so neither user rediscovers the other.
func (m *Machine) Unmatch(ctx context.Context, actor auth.Identity, targetID uint64) error {
	if actor.UserID == targetID {
		return svcErr.InvalidArgument("cannot unmatch yourself")
	}
	if err := m.requireUser(ctx, targetID); err != nil {
		return err
	}
	err := m.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := m.edges.WithTx(tx).SetPairStatus(ctx, actor.UserID, targetID, db.StatusUnmatched)
		return err
	})
	if err != nil {
		return svcErr.Translate(err)
	}
	return nil
}

func (m *Machine) requireUser(ctx context.Context, id uint64) error {
	ok, err := m.users.Exists(ctx, id)
	if err != nil {
		return svcErr.Translate(err)
	}
	if !ok {
		return svcErr.NotFound("user not found")
	}
	return nil
}

// ListLiked returns users viewer liked who have not matched yet, newest like first.
func (m *Machine) ListLiked(ctx context.Context, viewer auth.Identity) ([]LikedCard, error) {
	edges, err := m.edges.ListByActor(ctx, viewer.UserID, db.StatusPending)
	if err != nil {
		return nil, svcErr.Translate(err)
	}
	ids := make([]uint64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.TargetUserID)
	}
	self, others, err := m.load(ctx, viewer.UserID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]LikedCard, 0, len(edges))
	for _, e := range edges {
		u, ok := others[e.TargetUserID]
		if !ok {
			continue
		}
		out = append(out, LikedCard{CandidateSummary: m.card(ctx, self, u), LikedAt: e.CreatedAt})
	}
	return out, nil
}

// ListMatched returns every mutual match, most recent first, each with up to
// three strict restaurant picks when the pair shares a cuisine.
func (m *Machine) ListMatched(ctx context.Context, viewer auth.Identity) ([]MatchedCard, error) {
	matched, err := m.edges.ListMatched(ctx, viewer.UserID)
	if err != nil {
		return nil, svcErr.Translate(err)
	}
	ids := make([]uint64, 0, len(matched))
	for _, e := range matched {
		ids = append(ids, e.UserID)
	}
	self, others, err := m.load(ctx, viewer.UserID, ids)
	if err != nil {
		return nil, err
	}

	me := matching.ParticipantOf(self)
	out := make([]MatchedCard, 0, len(matched))
	for _, e := range matched {
		u, ok := others[e.UserID]
		if !ok {
			m.log.Warn("matched user missing", "viewer", viewer.UserID, "other", e.UserID)
			continue
		}
		card := MatchedCard{CandidateSummary: m.card(ctx, self, u), MatchedDate: e.MatchedDate}
		if card.FoodMatch {
			recs, err := m.recommender.Recommend(ctx, matching.Strict,
				me.Cuisines, card.Cuisines, me.MaxBudget, card.MaxBudget, matching.DiscoveryLimit)
			if err != nil {
				return nil, svcErr.Translate(err)
			}
			card.Restaurants = recs
		}
		out = append(out, card)
	}
	return out, nil
}

func (m *Machine) load(ctx context.Context, viewerID uint64, ids []uint64) (*db.User, map[uint64]*db.User, error) {
	self, err := m.users.Get(ctx, viewerID)
	if err != nil {
		return nil, nil, svcErr.Translate(err)
	}
	others, err := m.users.GetMany(ctx, ids)
	if err != nil {
		return nil, nil, svcErr.Translate(err)
	}
	return self, others, nil
}

func (m *Machine) card(ctx context.Context, self, other *db.User) matching.CandidateSummary {
	c := matching.SummaryOf(other, m.appCtx.PhotoURL(ctx, matching.PrimaryPhotoPath(other)))
	c.Result = matching.Score(matching.ParticipantOf(self), matching.ParticipantOf(other))
	c.Restaurants = []matching.RestaurantSummary{}
	return c
}
