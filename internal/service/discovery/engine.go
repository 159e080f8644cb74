// Package discovery serves the card-by-card feed of candidates a user has
// not acted on yet. Cursor state lives in Redis, keyed by user id.
package discovery

import (
	"context"
	"log/slog"

	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/cache"
	svcErr "github.com/oggyb/lunchmatch/internal/errors"
	"github.com/oggyb/lunchmatch/internal/matching"
	"github.com/oggyb/lunchmatch/internal/repository"
)

// Engine builds and walks discovery batches.
type Engine struct {
	appCtx      *app.AppContext
	users       *repository.UserRepository
	recommender *matching.Recommender
	cursors     *cache.CursorStore
	batchSize   int
	log         *slog.Logger
}

// NewEngine creates an Engine from the shared dependencies.
//   - Candidates and restaurants come from the DB.
//   - Cursor state is the AppContext cursor store.
func NewEngine(appCtx *app.AppContext) *Engine {
	size := matching.DiscoveryLimit
	if appCtx.Config != nil && appCtx.Config.Discovery.BatchSize > 0 {
		size = appCtx.Config.Discovery.BatchSize
	}
	return &Engine{
		appCtx:      appCtx,
		users:       repository.NewUserRepository(appCtx.DB),
		recommender: matching.NewRecommender(repository.NewRestaurantRepository(appCtx.DB)),
		cursors:     appCtx.Cursors,
		batchSize:   size,
		log:         appCtx.Logger.With("component", "discovery"),
	}
}

// Reset discards the live batch and its position. Users already shown this
// session stay excluded.
func (e *Engine) Reset(ctx context.Context, viewer auth.Identity) error {
	if err := e.cursors.Clear(ctx, viewer.UserID); err != nil {
		return svcErr.Transient(err)
	}
	return nil
}

// NextCandidateBatch scores every eligible candidate against viewer and
// returns the best limit of them.
//
// Behavior:
//   - Eligible: same university, not viewer, no edge from viewer in any
//     status, not shown earlier this session.
//   - Sorted by score desc, ties by user id.
//   - Restaurants (strict policy, top 3) only for cards with a food match.
func (e *Engine) NextCandidateBatch(ctx context.Context, viewer auth.Identity, limit int) ([]matching.CandidateSummary, error) {
	me, err := e.users.Get(ctx, viewer.UserID)
	if err != nil {
		return nil, svcErr.Translate(err)
	}
	seen, err := e.cursors.Seen(ctx, viewer.UserID)
	if err != nil {
		return nil, svcErr.Transient(err)
	}
	candidates, err := e.users.Candidates(ctx, viewer.UserID, viewer.University, seen)
	if err != nil {
		return nil, svcErr.Translate(err)
	}

	self := matching.ParticipantOf(me)
	cards := make([]matching.CandidateSummary, 0, len(candidates))
	for i := range candidates {
		u := &candidates[i]
		card := matching.SummaryOf(u, e.appCtx.PhotoURL(ctx, matching.PrimaryPhotoPath(u)))
		card.Result = matching.Score(self, matching.ParticipantOf(u))
		cards = append(cards, card)
	}
	matching.Rank(cards)
	if limit > 0 && len(cards) > limit {
		cards = cards[:limit]
	}

	for i := range cards {
		cards[i].Restaurants = []matching.RestaurantSummary{}
		if !cards[i].FoodMatch {
			continue
		}
		recs, err := e.recommender.Recommend(ctx, matching.Strict,
			self.Cuisines, cards[i].Cuisines, self.MaxBudget, cards[i].MaxBudget, matching.DiscoveryLimit)
		if err != nil {
			return nil, svcErr.Translate(err)
		}
		cards[i].Restaurants = recs
	}

	e.log.Debug("discovery batch", "viewer", viewer.UserID, "eligible", len(candidates), "returned", len(cards))
	return cards, nil
}

// NextCard pops the next card. ok is false when nobody is left.
//
// When the live batch is exhausted its members join the session exclusion
// set and a fresh batch is fetched. Any fault resets the cursor and is
// reported as "no more candidates" so the caller can start over.
func (e *Engine) NextCard(ctx context.Context, viewer auth.Identity) (*matching.CandidateSummary, bool) {
	card, err := e.nextCard(ctx, viewer)
	if err != nil {
		e.log.Warn("discovery cursor reset after failure", "viewer", viewer.UserID, "err", err)
		if clearErr := e.cursors.Clear(ctx, viewer.UserID); clearErr != nil {
			e.log.Error("discovery cursor clear failed", "viewer", viewer.UserID, "err", clearErr)
		}
		return nil, false
	}
	return card, card != nil
}

// nextCard skips cards whose user deleted their account after the batch
// was built.
func (e *Engine) nextCard(ctx context.Context, viewer auth.Identity) (*matching.CandidateSummary, error) {
	for {
		card, err := e.popCard(ctx, viewer)
		if err != nil || card == nil {
			return nil, err
		}
		ok, err := e.users.Exists(ctx, card.UserID)
		if err != nil {
			return nil, err
		}
		if ok {
			return card, nil
		}
		e.log.Debug("discovery skipped deleted candidate", "viewer", viewer.UserID, "candidate", card.UserID)
	}
}

func (e *Engine) popCard(ctx context.Context, viewer auth.Identity) (*matching.CandidateSummary, error) {
	cur, err := e.cursors.Load(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	if cur.Remaining() == 0 {
		if cur != nil {
			ids := make([]uint64, 0, len(cur.Candidates))
			for _, c := range cur.Candidates {
				ids = append(ids, c.UserID)
			}
			if err := e.cursors.MarkSeen(ctx, viewer.UserID, ids...); err != nil {
				return nil, err
			}
		}

		batch, err := e.NextCandidateBatch(ctx, viewer, e.batchSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return nil, e.cursors.Clear(ctx, viewer.UserID)
		}
		cur = &cache.DiscoveryCursor{Candidates: batch}
	}

	card := cur.Candidates[cur.Index]
	cur.Index++
	if err := e.cursors.Save(ctx, viewer.UserID, cur); err != nil {
		return nil, err
	}
	return &card, nil
}

// Discard drops target from viewer's live batch, typically after a like
// or block, so it is not shown again before the batch runs out.
func (e *Engine) Discard(ctx context.Context, viewer auth.Identity, targetID uint64) error {
	cur, err := e.cursors.Load(ctx, viewer.UserID)
	if err != nil || cur == nil {
		return err
	}

	kept := cur.Candidates[:0]
	index := cur.Index
	for i, c := range cur.Candidates {
		if c.UserID == targetID {
			if i < cur.Index {
				index--
			}
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == len(cur.Candidates) {
		return nil
	}
	cur.Candidates, cur.Index = kept, index
	if err := e.cursors.MarkSeen(ctx, viewer.UserID, targetID); err != nil {
		return err
	}
	return e.cursors.Save(ctx, viewer.UserID, cur)
}
