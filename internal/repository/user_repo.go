package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/db"
)

// UserRepository loads users together with everything the cards need.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func withCard(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Profile").
		Preload("Photos", func(tx *gorm.DB) *gorm.DB { return tx.Order("is_primary DESC, uploaded_at DESC, id DESC") }).
		Preload("LunchPreference.Cuisines", func(tx *gorm.DB) *gorm.DB { return tx.Order("cuisine_type") }).
		Preload("LunchPreference.DietaryRestrictions", func(tx *gorm.DB) *gorm.DB { return tx.Order("restriction_type") }).
		Preload("Availability", func(tx *gorm.DB) *gorm.DB { return tx.Order("day_of_week, start_time, end_time") })
}

// Get loads one user with profile, photos, preferences and availability.
// Returns gorm.ErrRecordNotFound when the id does not exist.
func (r *UserRepository) Get(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	if err := withCard(r.db.WithContext(ctx)).Take(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetMany loads the given users keyed by id. Unknown ids are skipped.
func (r *UserRepository) GetMany(ctx context.Context, ids []uint64) (map[uint64]*db.User, error) {
	out := make(map[uint64]*db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []db.User
	if err := withCard(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}

// Exists reports whether a user id is present.
func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Candidates returns every user eligible for viewer's discovery feed.
//
// Behavior:
//   - Same university string as the viewer (exact match).
//   - Never the viewer.
//   - Never anyone the viewer already has an edge to, in any status.
//   - Never anyone in exclude (already shown this session).
//   - Ordered by id so batches are stable before scoring.
//
// Example:
//
//	repo.Candidates(ctx, 1, "University at Buffalo", []uint64{4, 9})
func (r *UserRepository) Candidates(ctx context.Context, viewerID uint64, university string, exclude []uint64) ([]db.User, error) {
	edges := newScope(r.db).
		Table("interest_edges e").
		Select("1").
		Where("e.actor_user_id = ? AND e.target_user_id = users.id", viewerID)

	q := r.db.WithContext(ctx).
		Model(&db.User{}).
		Joins("JOIN profiles p ON p.user_id = users.id").
		Where("p.university = ?", university).
		Where("users.id <> ?", viewerID).
		Where("NOT EXISTS (?)", edges)
	if len(exclude) > 0 {
		q = q.Where("users.id NOT IN ?", exclude)
	}

	var users []db.User
	if err := withCard(q).Order("users.id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user and everything hanging off it in one transaction,
// including edges, messages and notifications in both directions.
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u db.User
		if err := tx.Take(&u, id).Error; err != nil {
			return err
		}

		prefIDs := newScope(tx).Model(&db.LunchPreference{}).Select("id").Where("user_id = ?", id)
		steps := []struct {
			model any
			query string
			args  []any
		}{
			{&db.CuisinePreference{}, "lunch_preference_id IN (?)", []any{prefIDs}},
			{&db.DietaryRestriction{}, "lunch_preference_id IN (?)", []any{prefIDs}},
			{&db.LunchPreference{}, "user_id = ?", []any{id}},
			{&db.AvailabilitySlot{}, "user_id = ?", []any{id}},
			{&db.Photo{}, "user_id = ?", []any{id}},
			{&db.Profile{}, "user_id = ?", []any{id}},
			{&db.InterestEdge{}, "actor_user_id = ? OR target_user_id = ?", []any{id, id}},
			{&db.Message{}, "sender_id = ? OR receiver_id = ?", []any{id, id}},
			{&db.Notification{}, "user_id = ? OR related_user_id = ?", []any{id, id}},
			{&db.User{}, "id = ?", []any{id}},
		}
		for _, step := range steps {
			if err := tx.Where(step.query, step.args...).Delete(step.model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FirstNames maps user id to profile first name for the given ids.
func (r *UserRepository) FirstNames(ctx context.Context, ids ...uint64) (map[uint64]string, error) {
	var rows []db.Profile
	if err := r.db.WithContext(ctx).Select("user_id", "first_name").Where("user_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint64]string, len(rows))
	for _, p := range rows {
		out[p.UserID] = p.FirstName
	}
	return out, nil
}
