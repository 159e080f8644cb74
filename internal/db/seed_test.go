package db_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/lunchmatch/internal/db"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func TestSeedDemoData(t *testing.T) {
	gdb := openTestDB(t)

	users, err := db.SeedDemoData(gdb)
	require.NoError(t, err)
	require.Len(t, users, 20)

	var profiles, restaurants, starters, matched int64
	gdb.Model(&db.Profile{}).Where("university = ?", db.DemoUniversity).Count(&profiles)
	gdb.Model(&db.Restaurant{}).Count(&restaurants)
	gdb.Model(&db.ConversationStarter{}).Count(&starters)
	gdb.Model(&db.InterestEdge{}).Where("status = ?", db.StatusMatched).Count(&matched)

	assert.EqualValues(t, 20, profiles)
	assert.EqualValues(t, 20, restaurants)
	assert.EqualValues(t, len(db.DemoStarters), starters)
	assert.EqualValues(t, 4, matched)

	// Reseeding starts from a clean slate.
	_, err = db.SeedDemoData(gdb)
	require.NoError(t, err)
	gdb.Model(&db.Profile{}).Count(&profiles)
	assert.EqualValues(t, 20, profiles)
}

func TestAvailabilityTimeRoundTrip(t *testing.T) {
	gdb := openTestDB(t)

	user := db.User{Email: "a@x.edu", PasswordHash: "x", Profile: db.Profile{FirstName: "A", LastName: "B", University: "X"}}
	require.NoError(t, gdb.Create(&user).Error)

	slot := db.AvailabilitySlot{UserID: user.ID, DayOfWeek: 0, StartTime: mustTime(12, 30), EndTime: mustTime(13, 45)}
	require.NoError(t, gdb.Create(&slot).Error)

	var got db.AvailabilitySlot
	require.NoError(t, gdb.First(&got, slot.ID).Error)
	assert.Equal(t, slot.StartTime, got.StartTime)
	assert.Equal(t, slot.EndTime, got.EndTime)

	dup := db.AvailabilitySlot{UserID: user.ID, DayOfWeek: 0, StartTime: mustTime(12, 30), EndTime: mustTime(13, 45)}
	assert.Error(t, gdb.Create(&dup).Error)
}

func mustTime(h, m int) datatypes.Time { return datatypes.NewTime(h, m, 0, 0) }
