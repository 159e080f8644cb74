package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/lunchmatch/internal/db"
)

// EdgeRepository provides data access methods for the InterestEdge model.
// It encapsulates all queries related to likes/blocks/matches between users.
type EdgeRepository struct {
	db *gorm.DB
}

// NewEdgeRepository creates a new repository bound to the given DB connection.
func NewEdgeRepository(database *gorm.DB) *EdgeRepository {
	return &EdgeRepository{db: database}
}

// WithTx returns a copy bound to tx.
func (r *EdgeRepository) WithTx(tx *gorm.DB) *EdgeRepository {
	return &EdgeRepository{db: tx}
}

// LockPair takes row locks on both users, lowest id first, and returns how
// many of them exist.
//
// Behavior:
//   - Two transactions touching the same pair serialize on these locks, in
//     a fixed order so they cannot deadlock each other.
//   - SQLite ignores the locking clause; its single writer serializes instead.
//
// Must run inside a transaction.
func (r *EdgeRepository) LockPair(ctx context.Context, a, b uint64) (int, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", []uint64{a, b}).
		Order("id").
		Pluck("id", &ids).Error
	return len(ids), err
}

// Get returns edge(actor, target), or nil when there is none.
func (r *EdgeRepository) Get(ctx context.Context, actorID, targetID uint64) (*db.InterestEdge, error) {
	var edge db.InterestEdge
	err := r.db.WithContext(ctx).
		Where("actor_user_id = ? AND target_user_id = ?", actorID, targetID).
		Take(&edge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// Insert adds edge(actor, target) with the given status.
//
// Behavior:
//   - If the ordered pair already has an edge → nothing changes, returns false.
//   - Composite PK makes the guard hold even under concurrent inserts.
//
// Example:
//
//	repo.Insert(ctx, 1, 2, db.StatusPending) // user 1 liked user 2
func (r *EdgeRepository) Insert(ctx context.Context, actorID, targetID uint64, status db.EdgeStatus) (bool, error) {
	edge := db.InterestEdge{ActorUserID: actorID, TargetUserID: targetID, Status: status}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_user_id"}, {Name: "target_user_id"}},
			DoNothing: true,
		}).
		Create(&edge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkMatched flips both pending edges of the pair to matched with one
// shared matched_date and returns how many rows changed.
func (r *EdgeRepository) MarkMatched(ctx context.Context, a, b uint64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.InterestEdge{}).
		Where(pairCondition(r.db, a, b)).
		Where("status = ?", db.StatusPending).
		Updates(map[string]any{"status": db.StatusMatched, "matched_date": at})
	return res.RowsAffected, res.Error
}

// SetPairStatus moves every existing edge of the pair, both directions,
// to status. Missing edges are not created.
func (r *EdgeRepository) SetPairStatus(ctx context.Context, a, b uint64, status db.EdgeStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.InterestEdge{}).
		Where(pairCondition(r.db, a, b)).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// ListByActor returns edges from actor in the given status, newest first.
func (r *EdgeRepository) ListByActor(ctx context.Context, actorID uint64, status db.EdgeStatus) ([]db.InterestEdge, error) {
	var edges []db.InterestEdge
	err := r.db.WithContext(ctx).
		Where("actor_user_id = ? AND status = ?", actorID, status).
		Order("created_at DESC, target_user_id").
		Find(&edges).Error
	return edges, err
}

// MatchedEdge is one matched partner of a user.
type MatchedEdge struct {
	UserID      uint64
	MatchedDate *time.Time
}

// ListMatched returns everyone matched with userID.
//
// Behavior:
//   - Unions (actor = me, matched) and (target = me, matched) so a pair
//     that lost one of its rows still shows up.
//   - One entry per partner, most recent match first.
func (r *EdgeRepository) ListMatched(ctx context.Context, userID uint64) ([]MatchedEdge, error) {
	var edges []db.InterestEdge
	err := r.db.WithContext(ctx).
		Where("status = ?", db.StatusMatched).
		Where(newScope(r.db).Where("actor_user_id = ?", userID).Or("target_user_id = ?", userID)).
		Order("matched_date DESC").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(edges))
	out := make([]MatchedEdge, 0, len(edges))
	for _, e := range edges {
		other := e.TargetUserID
		if other == userID {
			other = e.ActorUserID
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, MatchedEdge{UserID: other, MatchedDate: e.MatchedDate})
	}
	return out, nil
}

// IsMatched reports whether either direction of the pair is matched.
func (r *EdgeRepository) IsMatched(ctx context.Context, a, b uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.InterestEdge{}).
		Where(pairCondition(r.db, a, b)).
		Where("status = ?", db.StatusMatched).
		Count(&count).Error
	return count > 0, err
}

// newScope starts a condition group that carries none of base's clauses.
func newScope(base *gorm.DB) *gorm.DB {
	return base.Session(&gorm.Session{NewDB: true})
}

func pairCondition(base *gorm.DB, a, b uint64) *gorm.DB {
	return newScope(base).
		Where("actor_user_id = ? AND target_user_id = ?", a, b).
		Or("actor_user_id = ? AND target_user_id = ?", b, a)
}
