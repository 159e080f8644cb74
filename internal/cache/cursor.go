package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/lunchmatch/internal/matching"
)

// DiscoveryCursor is the live batch of one user's discovery session.
type DiscoveryCursor struct {
	Candidates []matching.CandidateSummary `json:"candidates"`
	Index      int                         `json:"index"`
}

// Remaining reports how many cards are left to show.
func (c *DiscoveryCursor) Remaining() int {
	if c == nil || c.Index >= len(c.Candidates) {
		return 0
	}
	return len(c.Candidates) - c.Index
}

// CursorStore keeps discovery state in Redis, keyed by user id.
//
// Keys:
//   - discover:batch:<user> JSON DiscoveryCursor
//   - discover:seen:<user>  SET of user ids shown this session
//
// Both keys get the session TTL on every write.
type CursorStore struct {
	cache *RedisCache
	ttl   time.Duration
}

func NewCursorStore(c *RedisCache, ttl time.Duration) *CursorStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CursorStore{cache: c, ttl: ttl}
}

func batchKey(userID uint64) string { return fmt.Sprintf("discover:batch:%d", userID) }
func seenKey(userID uint64) string  { return fmt.Sprintf("discover:seen:%d", userID) }

// Load returns the live cursor or nil when there is none.
func (s *CursorStore) Load(ctx context.Context, userID uint64) (*DiscoveryCursor, error) {
	raw, err := s.cache.Client.Get(ctx, batchKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var cur DiscoveryCursor
	if err := json.Unmarshal(raw, &cur); err != nil {
		return nil, fmt.Errorf("corrupt discovery cursor: %w", err)
	}
	return &cur, nil
}

// Save replaces the live cursor.
func (s *CursorStore) Save(ctx context.Context, userID uint64, cur *DiscoveryCursor) error {
	raw, err := json.Marshal(cur)
	if err != nil {
		return fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return s.cache.Client.Set(ctx, batchKey(userID), raw, s.ttl).Err()
}

// Clear drops the live cursor. The shown set is kept.
func (s *CursorStore) Clear(ctx context.Context, userID uint64) error {
	return s.cache.Client.Del(ctx, batchKey(userID)).Err()
}

// MarkSeen adds ids to the session exclusion set.
func (s *CursorStore) MarkSeen(ctx context.Context, userID uint64, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]any, 0, len(ids))
	for _, id := range ids {
		members = append(members, strconv.FormatUint(id, 10))
	}
	key := seenKey(userID)
	_, err := s.cache.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, key, members...)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

// Seen returns the session exclusion set.
func (s *CursorStore) Seen(ctx context.Context, userID uint64) ([]uint64, error) {
	members, err := s.cache.Client.SMembers(ctx, seenKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// EndSession forgets both the live batch and the shown set.
func (s *CursorStore) EndSession(ctx context.Context, userID uint64) error {
	return s.cache.Client.Del(ctx, batchKey(userID), seenKey(userID)).Err()
}
