package matchstate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/db"
	svcErr "github.com/oggyb/lunchmatch/internal/errors"
	"github.com/oggyb/lunchmatch/internal/service/discovery"
	"github.com/oggyb/lunchmatch/internal/service/matchstate"
	"github.com/oggyb/lunchmatch/internal/testutil"
)

var fixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func setupMachine(t *testing.T) (*app.AppContext, *matchstate.Machine, auth.Identity, auth.Identity) {
	t.Helper()
	appCtx, _ := testutil.NewAppContext(t)
	a := testutil.CreateUser(t, appCtx.DB, "Ann", "X", testutil.WithCuisines("thai"), testutil.WithBudget(30))
	b := testutil.CreateUser(t, appCtx.DB, "Ben", "X", testutil.WithCuisines("thai", "korean"), testutil.WithBudget(40))
	m := matchstate.NewMachine(appCtx).WithClock(func() time.Time { return fixedNow })
	return appCtx, m, testutil.Identity(a), testutil.Identity(b)
}

func edgesOf(t *testing.T, appCtx *app.AppContext) []db.InterestEdge {
	t.Helper()
	var edges []db.InterestEdge
	require.NoError(t, appCtx.DB.Order("actor_user_id").Find(&edges).Error)
	return edges
}

func countNotifications(t *testing.T, appCtx *app.AppContext) int64 {
	t.Helper()
	var n int64
	require.NoError(t, appCtx.DB.Model(&db.Notification{}).Count(&n).Error)
	return n
}

func TestLike_MutualInEitherOrder(t *testing.T) {
	for _, name := range []string{"a_first", "b_first"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			appCtx, m, a, b := setupMachine(t)
			first, second := a, b
			if name == "b_first" {
				first, second = b, a
			}

			res, err := m.Like(ctx, first, second.UserID)
			require.NoError(t, err)
			assert.False(t, res.Matched)
			assert.EqualValues(t, 0, countNotifications(t, appCtx))

			res, err = m.Like(ctx, second, first.UserID)
			require.NoError(t, err)
			assert.True(t, res.Matched)

			edges := edgesOf(t, appCtx)
			require.Len(t, edges, 2)
			for _, e := range edges {
				assert.Equal(t, db.StatusMatched, e.Status)
				require.NotNil(t, e.MatchedDate)
				assert.True(t, e.MatchedDate.Equal(fixedNow))
			}
			assert.EqualValues(t, 2, countNotifications(t, appCtx))

			var note db.Notification
			require.NoError(t, appCtx.DB.Where("user_id = ?", a.UserID).Take(&note).Error)
			assert.Equal(t, "You matched with Ben! You can now message each other.", note.Message)
			assert.Equal(t, db.NotificationMatch, note.Type)
			require.NotNil(t, note.RelatedUserID)
			assert.Equal(t, b.UserID, *note.RelatedUserID)
		})
	}
}

func TestLike_Idempotent(t *testing.T) {
	ctx := context.Background()
	appCtx, m, a, b := setupMachine(t)

	for i := 0; i < 2; i++ {
		res, err := m.Like(ctx, a, b.UserID)
		require.NoError(t, err)
		assert.False(t, res.Matched)
	}
	assert.Len(t, edgesOf(t, appCtx), 1)

	_, err := m.Like(ctx, b, a.UserID)
	require.NoError(t, err)
	res, err := m.Like(ctx, a, b.UserID)
	require.NoError(t, err)
	assert.True(t, res.Matched, "repeat like reports the existing match")
	assert.EqualValues(t, 2, countNotifications(t, appCtx))
}

func TestLike_Validation(t *testing.T) {
	ctx := context.Background()
	_, m, a, _ := setupMachine(t)

	_, err := m.Like(ctx, a, a.UserID)
	assert.True(t, errors.Is(err, svcErr.ErrInvalidArgument))

	_, err = m.Like(ctx, a, 999)
	assert.True(t, errors.Is(err, svcErr.ErrNotFound))
}

func TestLike_BlockedReverseDoesNotMatch(t *testing.T) {
	ctx := context.Background()
	appCtx, m, a, b := setupMachine(t)

	require.NoError(t, m.Block(ctx, b, a.UserID))
	res, err := m.Like(ctx, a, b.UserID)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.EqualValues(t, 0, countNotifications(t, appCtx))
}

func TestLike_ConcurrentMutual(t *testing.T) {
	ctx := context.Background()
	appCtx, m, a, b := setupMachine(t)

	var wg sync.WaitGroup
	results := make([]matchstate.LikeResult, 2)
	errs := make([]error, 2)
	for i, pair := range [][2]auth.Identity{{a, b}, {b, a}} {
		wg.Add(1)
		go func(i int, actor, target auth.Identity) {
			defer wg.Done()
			results[i], errs[i] = m.Like(ctx, actor, target.UserID)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.True(t, results[0].Matched != results[1].Matched, "exactly one caller completes the match")
	for _, e := range edgesOf(t, appCtx) {
		assert.Equal(t, db.StatusMatched, e.Status)
	}
	assert.EqualValues(t, 2, countNotifications(t, appCtx))
}

func TestMatchInvalidatesUnreadCounts(t *testing.T) {
	ctx := context.Background()
	appCtx, m, a, b := setupMachine(t)

	require.NoError(t, appCtx.RedisCache.SetUnreadCount(ctx, a.UserID, 0))
	_, _ = m.Like(ctx, a, b.UserID)
	_, _ = m.Like(ctx, b, a.UserID)

	_, ok, err := appCtx.RedisCache.GetUnreadCount(ctx, a.UserID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlock(t *testing.T) {
	ctx := context.Background()
	appCtx, m, a, b := setupMachine(t)

	require.NoError(t, m.Block(ctx, a, b.UserID))
	require.NoError(t, m.Block(ctx, a, b.UserID))
	edges := edgesOf(t, appCtx)
	require.Len(t, edges, 1)
	assert.Equal(t, db.StatusBlocked, edges[0].Status)

	assert.True(t, errors.Is(m.Block(ctx, a, 999), svcErr.ErrNotFound))
	assert.True(t, errors.Is(m.Block(ctx, a, a.UserID), svcErr.ErrInvalidArgument))
}

func TestUnmatch_KeepsEdges(t *testing.T) {
	ctx := context.Background()
	appCtx, m, a, b := setupMachine(t)

	_, _ = m.Like(ctx, a, b.UserID)
	_, _ = m.Like(ctx, b, a.UserID)
	require.NoError(t, m.Unmatch(ctx, a, b.UserID))

	edges := edgesOf(t, appCtx)
	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.Equal(t, db.StatusUnmatched, e.Status)
	}

	matched, err := m.ListMatched(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, matched)

	// neither side finds the other in discovery again
	engine := discovery.NewEngine(appCtx)
	for _, pair := range [][2]auth.Identity{{a, b}, {b, a}} {
		batch, err := engine.NextCandidateBatch(ctx, pair[0], 10)
		require.NoError(t, err)
		for _, card := range batch {
			assert.NotEqual(t, pair[1].UserID, card.UserID)
		}
	}

	assert.True(t, errors.Is(m.Unmatch(ctx, a, 999), svcErr.ErrNotFound))
}

func TestListLikedAndMatched(t *testing.T) {
	ctx := context.Background()
	appCtx, m, a, b := setupMachine(t)
	c := testutil.Identity(testutil.CreateUser(t, appCtx.DB, "Cat", "X"))
	testutil.Restaurant(t, appCtx.DB, "Bangkok Bites", "Thai", 2, 4.2)
	testutil.Restaurant(t, appCtx.DB, "Seoul Food", "Korean", 1, 4.8)

	_, _ = m.Like(ctx, a, b.UserID)
	_, _ = m.Like(ctx, a, c.UserID)

	liked, err := m.ListLiked(ctx, a)
	require.NoError(t, err)
	assert.Len(t, liked, 2)

	_, _ = m.Like(ctx, b, a.UserID)
	liked, err = m.ListLiked(ctx, a)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, c.UserID, liked[0].UserID)

	matched, err := m.ListMatched(ctx, a)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	card := matched[0]
	assert.Equal(t, b.UserID, card.UserID)
	assert.True(t, card.FoodMatch)
	require.NotNil(t, card.MatchedDate)
	require.Len(t, card.Restaurants, 1, "strict policy only uses the shared cuisine")
	assert.Equal(t, "Bangkok Bites", card.Restaurants[0].Name)

	// rows drifting to one direction still list the match
	require.NoError(t, appCtx.DB.Where("actor_user_id = ?", a.UserID).Delete(&db.InterestEdge{}).Error)
	matched, err = m.ListMatched(ctx, a)
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}
