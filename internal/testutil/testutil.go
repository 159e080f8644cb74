// Package testutil builds the in-memory fixtures shared by service and
// transport tests: SQLite with the full schema, miniredis, and users.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/lunchmatch/internal/app"
	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/cache"
	"github.com/oggyb/lunchmatch/internal/config"
	"github.com/oggyb/lunchmatch/internal/db"
	"github.com/oggyb/lunchmatch/internal/logger"
	"github.com/oggyb/lunchmatch/internal/storage"
)

// NewDB opens an isolated shared-cache in-memory SQLite DB named after the
// test and migrates every model. One open connection serializes writers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
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

// NewAppContext wires a fresh DB, a miniredis instance and a static photo
// store into an AppContext with a discarded logger.
func NewAppContext(t *testing.T) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.App.ENV = "test"
	cfg.Redis.Addr = mr.Addr()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Storage.PublicBaseURL = "/static/"

	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { rc.Close() })

	appCtx := app.New(cfg, NewDB(t), rc, storage.NewStaticStore(cfg.Storage.PublicBaseURL), logger.Discard())
	return appCtx, mr
}

// UserOpt customizes a user before it is inserted.
type UserOpt func(*db.User)

func ensurePref(u *db.User) *db.LunchPreference {
	if u.LunchPreference == nil {
		u.LunchPreference = &db.LunchPreference{PreferredGroupSize: 2}
	}
	return u.LunchPreference
}

// WithCuisines adds lower-cased cuisine preferences.
func WithCuisines(names ...string) UserOpt {
	return func(u *db.User) {
		pref := ensurePref(u)
		for _, n := range names {
			pref.Cuisines = append(pref.Cuisines, db.CuisinePreference{CuisineType: strings.ToLower(n)})
		}
	}
}

func WithRestrictions(names ...string) UserOpt {
	return func(u *db.User) {
		pref := ensurePref(u)
		for _, n := range names {
			pref.DietaryRestrictions = append(pref.DietaryRestrictions, db.DietaryRestriction{RestrictionType: n})
		}
	}
}

func WithBudget(b float64) UserOpt {
	return func(u *db.User) { ensurePref(u).MaxBudget = &b }
}

// WithPreference creates an empty preference record.
func WithPreference() UserOpt {
	return func(u *db.User) { ensurePref(u) }
}

// WithSlot adds an availability window in whole hours and minutes.
func WithSlot(day, startH, startM, endH, endM int) UserOpt {
	return func(u *db.User) {
		u.Availability = append(u.Availability, db.AvailabilitySlot{
			DayOfWeek: day,
			StartTime: datatypes.NewTime(startH, startM, 0, 0),
			EndTime:   datatypes.NewTime(endH, endM, 0, 0),
		})
	}
}

func WithPhoto(path string, primary bool) UserOpt {
	return func(u *db.User) {
		u.Photos = append(u.Photos, db.Photo{Path: path, IsPrimary: primary})
	}
}

func WithDepartment(dept string) UserOpt {
	return func(u *db.User) { u.Profile.Department = dept }
}

// CreateUser inserts a user with a profile at university.
func CreateUser(t *testing.T, gdb *gorm.DB, first, university string, opts ...UserOpt) db.User {
	t.Helper()
	u := db.User{
		Email:        fmt.Sprintf("%s.%d@%s.edu", strings.ToLower(first), time.Now().UnixNano(), strings.ReplaceAll(strings.ToLower(university), " ", "")),
		PasswordHash: "x",
		Profile:      db.Profile{FirstName: first, LastName: "Test", University: university},
	}
	for _, o := range opts {
		o(&u)
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

// Identity is the caller identity of u.
func Identity(u db.User) auth.Identity {
	return auth.Identity{UserID: u.ID, University: u.Profile.University}
}

// Restaurant inserts a restaurant row.
func Restaurant(t *testing.T, gdb *gorm.DB, name, cuisine string, price int, rating float64) db.Restaurant {
	t.Helper()
	r := db.Restaurant{Name: name, Location: "Campus", CuisineType: cuisine, PriceRange: &price, Rating: &rating}
	require.NoError(t, gdb.Create(&r).Error)
	return r
}
