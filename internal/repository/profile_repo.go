package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/lunchmatch/internal/db"
)

// ProfileRepository covers the user-owned rows: profile fields,
// preferences, availability and photos.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// UpdateProfile writes the given columns of userID's profile.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, userID uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&db.Profile{}).Where("user_id = ?", userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PreferenceUpdate is the full new state of a user's lunch preferences.
type PreferenceUpdate struct {
	MaxBudget           *float64
	PreferredGroupSize  int
	Cuisines            []string
	DietaryRestrictions []string
}

// SavePreferences creates or updates userID's preferences in one transaction.
//
// Behavior:
//   - The preference row is created on first use.
//   - Cuisines are diffed: missing ones removed, new ones added, all lower-cased.
//   - Dietary restrictions are replaced wholesale.
func (r *ProfileRepository) SavePreferences(ctx context.Context, userID uint64, up PreferenceUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pref db.LunchPreference
		err := tx.Preload("Cuisines").Where("user_id = ?", userID).Take(&pref).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			pref = db.LunchPreference{UserID: userID, PreferredGroupSize: up.PreferredGroupSize, MaxBudget: up.MaxBudget}
			if err := tx.Create(&pref).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&pref).Updates(map[string]any{
				"max_budget":           up.MaxBudget,
				"preferred_group_size": up.PreferredGroupSize,
			}).Error; err != nil {
				return err
			}
		}

		want := normalize(up.Cuisines)
		have := make(map[string]uint64, len(pref.Cuisines))
		for _, c := range pref.Cuisines {
			have[c.CuisineType] = c.ID
		}
		var stale []uint64
		for name, id := range have {
			if _, keep := want[name]; !keep {
				stale = append(stale, id)
			}
		}
		if len(stale) > 0 {
			if err := tx.Where("id IN ?", stale).Delete(&db.CuisinePreference{}).Error; err != nil {
				return err
			}
		}
		for name := range want {
			if _, ok := have[name]; ok {
				continue
			}
			row := db.CuisinePreference{LunchPreferenceID: pref.ID, CuisineType: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("lunch_preference_id = ?", pref.ID).Delete(&db.DietaryRestriction{}).Error; err != nil {
			return err
		}
		for name := range normalize(up.DietaryRestrictions) {
			row := db.DietaryRestriction{LunchPreferenceID: pref.ID, RestrictionType: name}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func normalize(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

// AddAvailability inserts a slot. created is false when the identical
// (user, day, start, end) slot already exists.
func (r *ProfileRepository) AddAvailability(ctx context.Context, userID uint64, day int, start, end datatypes.Time) (slot *db.AvailabilitySlot, created bool, err error) {
	var existing db.AvailabilitySlot
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND day_of_week = ? AND start_time = ? AND end_time = ?", userID, day, start, end).
		Take(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	row := db.AvailabilitySlot{UserID: userID, DayOfWeek: day, StartTime: start, EndTime: end}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &row, true, nil
}

// GetAvailability loads one slot by id.
func (r *ProfileRepository) GetAvailability(ctx context.Context, id uint64) (*db.AvailabilitySlot, error) {
	var slot db.AvailabilitySlot
	if err := r.db.WithContext(ctx).Take(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *ProfileRepository) DeleteAvailability(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&db.AvailabilitySlot{}, id).Error
}

// GetPhoto loads one photo by id.
func (r *ProfileRepository) GetPhoto(ctx context.Context, id uint64) (*db.Photo, error) {
	var p db.Photo
	if err := r.db.WithContext(ctx).Take(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPrimaryPhoto makes photoID the only primary photo of userID.
func (r *ProfileRepository) SetPrimaryPhoto(ctx context.Context, userID, photoID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Photo{}).Where("user_id = ? AND id <> ?", userID, photoID).Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&db.Photo{}).Where("id = ? AND user_id = ?", photoID, userID).Update("is_primary", true).Error
	})
}

// DeletePhoto removes a photo. When it was primary, the most recent
// remaining photo is promoted.
func (r *ProfileRepository) DeletePhoto(ctx context.Context, photo *db.Photo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&db.Photo{}, photo.ID).Error; err != nil {
			return err
		}
		if !photo.IsPrimary {
			return nil
		}
		var next []db.Photo
		if err := tx.Where("user_id = ?", photo.UserID).Order("uploaded_at DESC, id DESC").Limit(1).Find(&next).Error; err != nil {
			return err
		}
		if len(next) == 0 {
			return nil
		}
		return tx.Model(&next[0]).Update("is_primary", true).Error
	})
}

// AddPhoto records an already stored object. The first photo becomes primary.
func (r *ProfileRepository) AddPhoto(ctx context.Context, userID uint64, path string) (*db.Photo, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&db.Photo{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	p := db.Photo{UserID: userID, Path: path, IsPrimary: count == 0}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
