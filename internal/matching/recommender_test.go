package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/lunchmatch/internal/db"
	"github.com/oggyb/lunchmatch/internal/matching"
)

func restaurant(id uint64, cuisine string, price int, rating float64) db.Restaurant {
	return db.Restaurant{ID: id, Name: cuisine, CuisineType: cuisine, PriceRange: &price, Rating: &rating}
}

var catalog = matching.StaticCatalog{
	restaurant(1, "thai, vietnamese", 1, 4.1),
	restaurant(2, "Thai", 2, 4.8),
	restaurant(3, "thai", 3, 5.0),
	restaurant(4, "mexican", 1, 3.9),
	restaurant(5, "italian, pizza", 2, 4.5),
	restaurant(6, "thai street food", 2, 3.2),
}

func TestPriceCeiling(t *testing.T) {
	assert.Equal(t, 2, *matching.PriceCeiling(budget(20), budget(30)))
	assert.Equal(t, 1, *matching.PriceCeiling(budget(19.99), nil))
	assert.Equal(t, 5, *matching.PriceCeiling(budget(500), budget(1000)))
	assert.Nil(t, matching.PriceCeiling(nil, nil))
}

func TestRecommend_PriceTierExcluded(t *testing.T) {
	rec := matching.NewRecommender(catalog)

	got, err := rec.Recommend(context.Background(), matching.Strict,
		[]string{"thai"}, []string{"Thai"}, budget(20), budget(30), matching.DiscoveryLimit)
	require.NoError(t, err)

	require.Len(t, got, 3)
	for _, r := range got {
		assert.LessOrEqual(t, *r.PriceRange, 2)
		assert.NotEqual(t, uint64(3), r.ID)
	}
	assert.Equal(t, []uint64{2, 1, 6}, []uint64{got[0].ID, got[1].ID, got[2].ID})
}

func TestRecommend_StrictWithoutOverlap(t *testing.T) {
	rec := matching.NewRecommender(catalog)

	got, err := rec.Recommend(context.Background(), matching.Strict,
		[]string{"thai"}, []string{"mexican"}, nil, nil, matching.DiscoveryLimit)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommend_PermissiveFallsBackToUnion(t *testing.T) {
	rec := matching.NewRecommender(catalog)

	got, err := rec.Recommend(context.Background(), matching.Permissive,
		[]string{"italian"}, []string{"mexican"}, nil, nil, matching.ConversationLimit)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, uint64(5), got[0].ID)
	assert.Equal(t, uint64(4), got[1].ID)
}

func TestRecommend_NoBudgetSkipsPriceFilter(t *testing.T) {
	rec := matching.NewRecommender(catalog)

	got, err := rec.Recommend(context.Background(), matching.Strict,
		[]string{"thai"}, []string{"thai"}, nil, nil, matching.DiscoveryLimit)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, uint64(3), got[0].ID)
}

func TestRecommend_NothingToFilterOn(t *testing.T) {
	_, ok := matching.PlanQuery(matching.Permissive, nil, nil, nil, nil, 5)
	assert.False(t, ok)
}

type catalogMock struct{ mock.Mock }

func (m *catalogMock) FindRestaurants(ctx context.Context, q matching.Query) ([]db.Restaurant, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]db.Restaurant)
	return rows, args.Error(1)
}

func TestRecommend_QueryShapeAndErrors(t *testing.T) {
	ctx := context.Background()
	m := &catalogMock{}
	tier := 2
	m.On("FindRestaurants", ctx, matching.Query{Tokens: []string{"thai"}, MaxPriceRange: &tier, Limit: 3}).
		Return(nil, errors.New("db down")).Once()

	rec := matching.NewRecommender(m)
	_, err := rec.Recommend(ctx, matching.Strict, []string{"thai", "korean"}, []string{"THAI"}, budget(30), budget(20), 3)
	assert.Error(t, err)
	m.AssertExpectations(t)

	// no tokens -> the catalog is never asked
	_, err = rec.Recommend(ctx, matching.Strict, []string{"thai"}, nil, nil, nil, 3)
	assert.NoError(t, err)
	m.AssertNumberOfCalls(t, "FindRestaurants", 1)
}
