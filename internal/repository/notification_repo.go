package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/db"
)

// NotificationRepository is also the notification sink the match state
// machine writes to.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// Create persists one notification.
func (r *NotificationRepository) Create(ctx context.Context, userID uint64, kind, message string, relatedUserID *uint64) error {
	n := db.Notification{UserID: userID, Type: kind, Message: message, RelatedUserID: relatedUserID}
	return r.db.WithContext(ctx).Create(&n).Error
}

// Unread returns all unread notifications of userID, newest first.
func (r *NotificationRepository) Unread(ctx context.Context, userID uint64) ([]db.Notification, error) {
	var out []db.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// RecentRead returns up to limit read notifications, newest first.
func (r *NotificationRepository) RecentRead(ctx context.Context, userID uint64, limit int) ([]db.Notification, error) {
	var out []db.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkRead flags one notification of userID as read. found is false when
// the id does not exist or belongs to someone else.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uint64) (found bool, err error) {
	var n db.Notification
	err = r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if n.IsRead {
		return true, nil
	}
	return true, r.db.WithContext(ctx).Model(&n).Update("is_read", true).Error
}

// MarkAllRead flags every unread notification of userID and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CountUnread counts unread notifications of userID.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
