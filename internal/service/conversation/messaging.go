package conversation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/db"
	svcErr "github.com/oggyb/lunchmatch/internal/errors"
	"github.com/oggyb/lunchmatch/internal/matching"
	"github.com/oggyb/lunchmatch/internal/repository"
	"github.com/oggyb/lunchmatch/internal/utils/pagination"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
	MaxMessageLength    = 2000
)

// MessageView is a message as seen by one side of the conversation.
type MessageView struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"sender_id"`
	ReceiverID uint64    `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	IsSender   bool      `json:"is_sender"`
	CreatedAt  time.Time `json:"created_at"`
}

func viewOf(m db.Message, me uint64) MessageView {
	return MessageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		IsSender:   m.SenderID == me,
		CreatedAt:  m.CreatedAt,
	}
}

// Conversation is one row of the inbox.
type Conversation struct {
	UserID      uint64       `json:"user_id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	PhotoURL    string       `json:"photo_url"`
	LastMessage *MessageView `json:"last_message,omitempty"`
	UnreadCount int64        `json:"unread_count"`
}

// HistoryPage is one page of messages, newest first.
type HistoryPage struct {
	Messages  []MessageView `json:"messages"`
	NextToken *string       `json:"next_page_token,omitempty"`
}

func (s *Service) requireMatch(ctx context.Context, me, other uint64) error {
	if me == other {
		return svcErr.InvalidArgument("cannot message yourself")
	}
	ok, err := s.edges.IsMatched(ctx, me, other)
	if err != nil {
		return svcErr.Translate(err)
	}
	if !ok {
		return svcErr.Unauthorized("you can only message your matches")
	}
	return nil
}

// Send stores a message from sender to targetID and notifies the receiver.
//
// Behavior:
//   - The pair must be matched.
//   - Content is trimmed; empty or oversized content is rejected.
//   - The message and its notification commit together.
func (s *Service) Send(ctx context.Context, sender auth.Identity, targetID uint64, content string) (MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return MessageView{}, svcErr.InvalidArgument("message content is required")
	}
	if len(content) > MaxMessageLength {
		return MessageView{}, svcErr.InvalidArgument(fmt.Sprintf("message is longer than %d characters", MaxMessageLength))
	}
	if err := s.requireMatch(ctx, sender.UserID, targetID); err != nil {
		return MessageView{}, err
	}

	msg := db.Message{SenderID: sender.UserID, ReceiverID: targetID, Content: content}
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.messages.WithTx(tx).Create(ctx, &msg); err != nil {
			return err
		}
		names, err := s.users.WithTx(tx).FirstNames(ctx, sender.UserID)
		if err != nil {
			return err
		}
		from := sender.UserID
		return repository.NewNotificationRepository(tx).Create(ctx, targetID, db.NotificationMessage,
			fmt.Sprintf("New message from %s", names[sender.UserID]), &from)
	})
	if err != nil {
		s.log.Error("send message failed", "sender", sender.UserID, "receiver", targetID, "err", err)
		return MessageView{}, svcErr.Translate(err)
	}

	if err := s.appCtx.RedisCache.InvalidateUnreadCount(ctx, targetID); err != nil {
		s.log.Warn("unread count invalidation failed", "user", targetID, "err", err)
	}
	return viewOf(msg, sender.UserID), nil
}

// Conversations lists every match with the last message and the number of
// unread messages from them. Most recent activity first; matches without
// messages come last.
func (s *Service) Conversations(ctx context.Context, viewer auth.Identity) ([]Conversation, error) {
	matched, err := s.edges.ListMatched(ctx, viewer.UserID)
	if err != nil {
		return nil, svcErr.Translate(err)
	}
	ids := make([]uint64, 0, len(matched))
	for _, m := range matched {
		ids = append(ids, m.UserID)
	}
	users, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return nil, svcErr.Translate(err)
	}
	unread, err := s.messages.UnreadBySender(ctx, viewer.UserID)
	if err != nil {
		return nil, svcErr.Translate(err)
	}

	out := make([]Conversation, 0, len(ids))
	for _, id := range ids {
		u, ok := users[id]
		if !ok {
			continue
		}
		c := Conversation{
			UserID:      id,
			FirstName:   u.Profile.FirstName,
			LastName:    u.Profile.LastName,
			PhotoURL:    s.appCtx.PhotoURL(ctx, matching.PrimaryPhotoPath(u)),
			UnreadCount: unread[id],
		}
		last, err := s.messages.Last(ctx, viewer.UserID, id)
		if err != nil {
			return nil, svcErr.Translate(err)
		}
		if last != nil {
			v := viewOf(*last, viewer.UserID)
			c.LastMessage = &v
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		li, lj := out[i].LastMessage, out[j].LastMessage
		switch {
		case li == nil && lj == nil:
			return out[i].UserID < out[j].UserID
		case li == nil:
			return false
		case lj == nil:
			return true
		case !li.CreatedAt.Equal(lj.CreatedAt):
			return li.CreatedAt.After(lj.CreatedAt)
		default:
			return li.ID > lj.ID
		}
	})
	return out, nil
}

// History returns one page of the conversation with targetID and marks
// everything targetID sent to viewer as read.
func (s *Service) History(ctx context.Context, viewer auth.Identity, targetID uint64, pageToken *string, limit int) (HistoryPage, error) {
	if err := s.requireMatch(ctx, viewer.UserID, targetID); err != nil {
		return HistoryPage{}, err
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	if err := s.messages.MarkRead(ctx, targetID, viewer.UserID, 0); err != nil {
		return HistoryPage{}, svcErr.Translate(err)
	}
	rows, next, err := s.messages.History(ctx, viewer.UserID, targetID, pageToken, limit)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidToken) {
			return HistoryPage{}, svcErr.InvalidArgument("invalid page token")
		}
		return HistoryPage{}, svcErr.Translate(err)
	}

	page := HistoryPage{Messages: make([]MessageView, 0, len(rows)), NextToken: next}
	for _, m := range rows {
		page.Messages = append(page.Messages, viewOf(m, viewer.UserID))
	}
	return page, nil
}

// Poll returns messages from targetID newer than afterID, oldest first,
// and marks them read.
func (s *Service) Poll(ctx context.Context, viewer auth.Identity, targetID, afterID uint64) ([]MessageView, error) {
	if err := s.requireMatch(ctx, viewer.UserID, targetID); err != nil {
		return nil, err
	}
	rows, err := s.messages.After(ctx, targetID, viewer.UserID, afterID)
	if err != nil {
		return nil, svcErr.Translate(err)
	}
	if len(rows) > 0 {
		if err := s.messages.MarkRead(ctx, targetID, viewer.UserID, rows[len(rows)-1].ID); err != nil {
			return nil, svcErr.Translate(err)
		}
	}

	out := make([]MessageView, 0, len(rows))
	for _, m := range rows {
		out = append(out, viewOf(m, viewer.UserID))
	}
	return out, nil
}
