// Package conversation serves everything around a chat between two users:
// shared free time, restaurant picks, icebreakers and the messages.
package conversation

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/db"
	svcErr "github.com/oggyb/lunchmatch/internal/errors"
	"github.com/oggyb/lunchmatch/internal/matching"
	"github.com/oggyb/lunchmatch/internal/repository"
)

// Starter categories and how many of each a tier contributes.
const (
	CategoryFood      = "Food"
	CategoryEducation = "Education"
	CategoryGeneral   = "General"

	foodStarters      = 3
	educationStarters = 2
	maxStarters       = 5
)

type Starter struct {
	ID       uint64 `json:"id"`
	Question string `json:"question"`
	Category string `json:"category"`
}

type Service struct {
	appCtx      *app.AppContext
	users       *repository.UserRepository
	edges       *repository.EdgeRepository
	messages    *repository.MessageRepository
	starters    *repository.StarterRepository
	recommender *matching.Recommender
	shuffle     func(n int, swap func(i, j int))
	log         *slog.Logger
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		users:       repository.NewUserRepository(appCtx.DB),
		edges:       repository.NewEdgeRepository(appCtx.DB),
		messages:    repository.NewMessageRepository(appCtx.DB),
		starters:    repository.NewStarterRepository(appCtx.DB),
		recommender: matching.NewRecommender(repository.NewRestaurantRepository(appCtx.DB)),
		shuffle:     rand.Shuffle,
		log:         appCtx.Logger.With("component", "conversation"),
	}
}

// WithShuffle replaces the permutation used by the random starter fallback.
func (s *Service) WithShuffle(shuffle func(n int, swap func(i, j int))) *Service {
	s.shuffle = shuffle
	return s
}

func (s *Service) pair(ctx context.Context, viewer auth.Identity, targetID uint64) (*db.User, *db.User, error) {
	users, err := s.users.GetMany(ctx, []uint64{viewer.UserID, targetID})
	if err != nil {
		return nil, nil, svcErr.Translate(err)
	}
	me, ok := users[viewer.UserID]
	if !ok {
		return nil, nil, svcErr.NotFound("user not found")
	}
	other, ok := users[targetID]
	if !ok {
		return nil, nil, svcErr.NotFound("user not found")
	}
	return me, other, nil
}

// CommonAvailability lists the windows both users are free, per day.
// Slots that only touch at an endpoint do not count.
func (s *Service) CommonAvailability(ctx context.Context, viewer auth.Identity, targetID uint64) ([]matching.DayWindows, error) {
	me, other, err := s.pair(ctx, viewer, targetID)
	if err != nil {
		return nil, err
	}
	return matching.CommonAvailability(matching.ParticipantOf(me).Slots, matching.ParticipantOf(other).Slots), nil
}

// RecommendedRestaurants returns up to five restaurants for the pair. Without
// a shared cuisine it falls back to either user's cuisines. Empty when
// either user never set preferences.
func (s *Service) RecommendedRestaurants(ctx context.Context, viewer auth.Identity, targetID uint64) ([]matching.RestaurantSummary, error) {
	me, other, err := s.pair(ctx, viewer, targetID)
	if err != nil {
		return nil, err
	}
	if me.LunchPreference == nil || other.LunchPreference == nil {
		return []matching.RestaurantSummary{}, nil
	}
	a, b := matching.ParticipantOf(me), matching.ParticipantOf(other)
	recs, err := s.recommender.Recommend(ctx, matching.Permissive,
		a.Cuisines, b.Cuisines, a.MaxBudget, b.MaxBudget, matching.ConversationLimit)
	if err != nil {
		return nil, svcErr.Translate(err)
	}
	return recs, nil
}

// Starters picks icebreakers about target.
//
// Tiers:
//  1. Up to 3 Food prompts when target has cuisine preferences.
//  2. Up to 2 Education prompts when target has a profile.
//  3. General prompts until there are 5.
//  4. Still nothing: 5 random prompts from the whole catalogue.
func (s *Service) Starters(ctx context.Context, viewer auth.Identity, targetID uint64) ([]Starter, error) {
	_, other, err := s.pair(ctx, viewer, targetID)
	if err != nil {
		return nil, err
	}

	var picked []db.ConversationStarter
	take := func(category string, n int) error {
		if n <= 0 {
			return nil
		}
		rows, err := s.starters.ByCategory(ctx, category)
		if err != nil {
			return err
		}
		if len(rows) > n {
			rows = rows[:n]
		}
		picked = append(picked, rows...)
		return nil
	}

	if other.LunchPreference != nil && len(other.LunchPreference.Cuisines) > 0 {
		if err := take(CategoryFood, foodStarters); err != nil {
			return nil, svcErr.Translate(err)
		}
	}
	if other.Profile.ID != 0 {
		if err := take(CategoryEducation, educationStarters); err != nil {
			return nil, svcErr.Translate(err)
		}
	}
	if err := take(CategoryGeneral, maxStarters-len(picked)); err != nil {
		return nil, svcErr.Translate(err)
	}

	if len(picked) == 0 {
		all, err := s.starters.All(ctx)
		if err != nil {
			return nil, svcErr.Translate(err)
		}
		s.shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		if len(all) > maxStarters {
			all = all[:maxStarters]
		}
		picked = all
	}

	out := make([]Starter, 0, len(picked))
	for _, p := range picked {
		out = append(out, Starter{ID: p.ID, Question: p.Question, Category: p.Category})
	}
	return out, nil
}
