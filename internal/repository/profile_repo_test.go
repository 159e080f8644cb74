package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/oggyb/lunchmatch/internal/db"
	"github.com/oggyb/lunchmatch/internal/repository"
)

func TestSavePreferences_DiffsCuisines(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewProfileRepository(gdb)
	u := createUser(t, gdb, "Ann", "X")

	budget := 25.0
	require.NoError(t, repo.SavePreferences(ctx, u.ID, repository.PreferenceUpdate{
		MaxBudget: &budget, PreferredGroupSize: 3,
		Cuisines:            []string{"Thai", "italian", "THAI"},
		DietaryRestrictions: []string{"vegan"},
	}))

	var first []db.CuisinePreference
	gdb.Order("cuisine_type").Find(&first)
	require.Len(t, first, 2)
	thaiID := first[1].ID

	require.NoError(t, repo.SavePreferences(ctx, u.ID, repository.PreferenceUpdate{
		PreferredGroupSize:  2,
		Cuisines:            []string{"thai", "korean"},
		DietaryRestrictions: []string{"halal", "nut-free"},
	}))

	var pref db.LunchPreference
	require.NoError(t, gdb.Preload("Cuisines").Preload("DietaryRestrictions").Where("user_id = ?", u.ID).Take(&pref).Error)
	assert.Nil(t, pref.MaxBudget)
	assert.Equal(t, 2, pref.PreferredGroupSize)

	got := map[string]uint64{}
	for _, c := range pref.Cuisines {
		got[c.CuisineType] = c.ID
	}
	assert.Len(t, got, 2)
	assert.Equal(t, thaiID, got["thai"], "kept rows are not recreated")
	assert.Contains(t, got, "korean")
	assert.Len(t, pref.DietaryRestrictions, 2)
}

func TestAddAvailability_DuplicateIsNoop(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewProfileRepository(gdb)
	u := createUser(t, gdb, "Ann", "X")

	start, end := datatypes.NewTime(12, 0, 0, 0), datatypes.NewTime(13, 0, 0, 0)
	slot, created, err := repo.AddAvailability(ctx, u.ID, 0, start, end)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.AddAvailability(ctx, u.ID, 0, start, end)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, slot.ID, again.ID)

	var n int64
	gdb.Model(&db.AvailabilitySlot{}).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestDeletePhoto_PromotesNext(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewProfileRepository(gdb)
	u := createUser(t, gdb, "Ann", "X")

	first, err := repo.AddPhoto(ctx, u.ID, "a.jpg")
	require.NoError(t, err)
	assert.True(t, first.IsPrimary)
	second, err := repo.AddPhoto(ctx, u.ID, "b.jpg")
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)

	require.NoError(t, repo.DeletePhoto(ctx, first))

	got, err := repo.GetPhoto(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPrimary)
}

func TestSetPrimaryPhoto(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewProfileRepository(gdb)
	u := createUser(t, gdb, "Ann", "X")

	a, _ := repo.AddPhoto(ctx, u.ID, "a.jpg")
	b, _ := repo.AddPhoto(ctx, u.ID, "b.jpg")
	require.NoError(t, repo.SetPrimaryPhoto(ctx, u.ID, b.ID))

	a, _ = repo.GetPhoto(ctx, a.ID)
	b, _ = repo.GetPhoto(ctx, b.ID)
	assert.False(t, a.IsPrimary)
	assert.True(t, b.IsPrimary)
}

func TestNotificationMarkRead_OwnerScoped(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewNotificationRepository(gdb)

	require.NoError(t, repo.Create(ctx, 1, db.NotificationMatch, "hello", nil))
	var n db.Notification
	require.NoError(t, gdb.First(&n).Error)

	found, err := repo.MarkRead(ctx, 2, n.ID)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.MarkRead(ctx, 1, n.ID)
	require.NoError(t, err)
	assert.True(t, found)

	count, _ := repo.CountUnread(ctx, 1)
	assert.EqualValues(t, 0, count)
	read, _ := repo.RecentRead(ctx, 1, 20)
	assert.Len(t, read, 1)
}
