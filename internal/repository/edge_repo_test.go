package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/db"
	"github.com/oggyb/lunchmatch/internal/repository"
)

func TestEdgeInsert_Idempotent(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewEdgeRepository(gdb)

	inserted, err := repo.Insert(ctx, 1, 2, db.StatusPending)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(ctx, 1, 2, db.StatusBlocked)
	require.NoError(t, err)
	assert.False(t, inserted)

	var edges []db.InterestEdge
	require.NoError(t, gdb.Find(&edges).Error)
	require.Len(t, edges, 1)
	assert.Equal(t, db.StatusPending, edges[0].Status)
}

func TestEdgeGet(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewEdgeRepository(gdb)

	edge, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, edge)

	_, _ = repo.Insert(ctx, 1, 2, db.StatusBlocked)
	edge, err = repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, edge)
	assert.Equal(t, db.StatusBlocked, edge.Status)

	// direction matters
	edge, err = repo.Get(ctx, 2, 1)
	require.NoError(t, err)
	assert.Nil(t, edge)
}

func TestEdgeMarkMatchedAndUnmatch(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewEdgeRepository(gdb)

	_, _ = repo.Insert(ctx, 1, 2, db.StatusPending)
	_, _ = repo.Insert(ctx, 2, 1, db.StatusPending)
	_, _ = repo.Insert(ctx, 1, 3, db.StatusPending)

	at := time.Now().UTC().Truncate(time.Second)
	n, err := repo.MarkMatched(ctx, 1, 2, at)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	matched, err := repo.IsMatched(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, matched)

	other, _ := repo.Get(ctx, 1, 3)
	assert.Equal(t, db.StatusPending, other.Status)

	n, err = repo.SetPairStatus(ctx, 2, 1, db.StatusUnmatched)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var count int64
	gdb.Model(&db.InterestEdge{}).Count(&count)
	assert.EqualValues(t, 3, count, "edges are never deleted")

	matched, _ = repo.IsMatched(ctx, 1, 2)
	assert.False(t, matched)
}

func TestEdgeListMatched_UnionsBothDirections(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewEdgeRepository(gdb)

	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)
	require.NoError(t, gdb.Create(&[]db.InterestEdge{
		{ActorUserID: 1, TargetUserID: 2, Status: db.StatusMatched, MatchedDate: &earlier},
		{ActorUserID: 2, TargetUserID: 1, Status: db.StatusMatched, MatchedDate: &earlier},
		// drifted pair, only the reverse row survived
		{ActorUserID: 3, TargetUserID: 1, Status: db.StatusMatched, MatchedDate: &now},
		{ActorUserID: 1, TargetUserID: 4, Status: db.StatusPending},
	}).Error)

	got, err := repo.ListMatched(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(3), got[0].UserID)
	assert.Equal(t, uint64(2), got[1].UserID)
}

func TestEdgeListByActor(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewEdgeRepository(gdb)

	_, _ = repo.Insert(ctx, 1, 2, db.StatusPending)
	_, _ = repo.Insert(ctx, 1, 3, db.StatusBlocked)
	_, _ = repo.Insert(ctx, 4, 1, db.StatusPending)

	got, err := repo.ListByActor(ctx, 1, db.StatusPending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(2), got[0].TargetUserID)
}

func TestEdgeLockPair(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	a := createUser(t, gdb, "Ann", "X")
	b := createUser(t, gdb, "Bob", "X")

	err := gdb.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewEdgeRepository(gdb).WithTx(tx)
		n, err := repo.LockPair(ctx, b.ID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = repo.LockPair(ctx, a.ID, 999)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return nil
	})
	require.NoError(t, err)
}
