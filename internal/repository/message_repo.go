package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/db"
	"github.com/oggyb/lunchmatch/internal/utils/pagination"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

// Create stores a message and fills in its id and timestamp.
func (r *MessageRepository) Create(ctx context.Context, m *db.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MessageRepository) between(a, b uint64) *gorm.DB {
	return newScope(r.db).
		Where("sender_id = ? AND receiver_id = ?", a, b).
		Or("sender_id = ? AND receiver_id = ?", b, a)
}

// History returns messages between a and b, newest first.
//
// Behavior:
//   - Cursor-based pagination via paginationToken, keyed on the id of the
//     last row of the previous page. Ids grow with insertion, so the order
//     never depends on timestamp precision.
//   - Fetches limit+1 rows to know whether another page exists.
//
// Example:
//
//	repo.History(ctx, 1, 2, nil, 50)
func (r *MessageRepository) History(ctx context.Context, a, b uint64, paginationToken *string, limit int) ([]db.Message, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where(r.between(a, b)).
		Order("id DESC").
		Limit(limit + 1)
	if !cursor.IsZero() {
		query = query.Where("id < ?", cursor.ID)
	}

	var msgs []db.Message
	if err := query.Find(&msgs).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(msgs) > limit {
		last := msgs[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{ID: last.ID})
		nextToken = &token
		msgs = msgs[:limit]
	}
	return msgs, nextToken, nil
}

// After returns messages sent by from to to with id > afterID, oldest first.
func (r *MessageRepository) After(ctx context.Context, from, to, afterID uint64) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ? AND id > ?", from, to, afterID).
		Order("id").
		Find(&msgs).Error
	return msgs, err
}

// MarkRead flags messages from → to as read, up to and including upToID
// (0 means all of them).
func (r *MessageRepository) MarkRead(ctx context.Context, from, to, upToID uint64) error {
	q := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", from, to, false)
	if upToID > 0 {
		q = q.Where("id <= ?", upToID)
	}
	return q.Update("is_read", true).Error
}

// Last returns the most recent message between a and b, or nil.
func (r *MessageRepository) Last(ctx context.Context, a, b uint64) (*db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Where(r.between(a, b)).
		Order("id DESC").
		Limit(1).
		Find(&msgs).Error
	if err != nil || len(msgs) == 0 {
		return nil, err
	}
	return &msgs[0], nil
}

// UnreadBySender counts unread messages to userID grouped by sender.
func (r *MessageRepository) UnreadBySender(ctx context.Context, userID uint64) (map[uint64]int64, error) {
	var rows []struct {
		SenderID uint64
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Select("sender_id, COUNT(*) AS count").
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]int64, len(rows))
	for _, row := range rows {
		out[row.SenderID] = row.Count
	}
	return out, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
