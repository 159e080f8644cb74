package repository_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/lunchmatch/internal/db"
)

// setupTestDB opens an isolated in-memory SQLite DB with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

type userOpt func(*db.User)

func withCuisines(c ...string) userOpt {
	return func(u *db.User) {
		if u.LunchPreference == nil {
			u.LunchPreference = &db.LunchPreference{}
		}
		for _, name := range c {
			u.LunchPreference.Cuisines = append(u.LunchPreference.Cuisines, db.CuisinePreference{CuisineType: name})
		}
	}
}

func withSlot(day, startH, endH int) userOpt {
	return func(u *db.User) {
		u.Availability = append(u.Availability, db.AvailabilitySlot{
			DayOfWeek: day,
			StartTime: datatypes.NewTime(startH, 0, 0, 0),
			EndTime:   datatypes.NewTime(endH, 0, 0, 0),
		})
	}
}

func createUser(t *testing.T, gdb *gorm.DB, first, university string, opts ...userOpt) db.User {
	t.Helper()
	u := db.User{
		Email:        strings.ToLower(first) + "@" + strings.ReplaceAll(strings.ToLower(university), " ", "") + ".edu",
		PasswordHash: "x",
		Profile:      db.Profile{FirstName: first, LastName: "Test", University: university},
	}
	for _, o := range opts {
		o(&u)
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}
