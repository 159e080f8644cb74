package app

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/cache"
	"github.com/oggyb/lunchmatch/internal/config"
	"github.com/oggyb/lunchmatch/internal/storage"
)

// AppContext holds shared dependencies (DB, Redis, photo store, logger).
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Cursors    *cache.CursorStore
	Photos     storage.PhotoStore
	Logger     *slog.Logger
}

// New creates a new AppContext. A nil photo store falls back to the
// static store rooted at the configured public base URL.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, photos storage.PhotoStore, logger *slog.Logger) *AppContext {
	if photos == nil {
		photos = storage.NewStaticStore(cfg.Storage.PublicBaseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Cursors:    cache.NewCursorStore(rdb, cfg.Discovery.SessionTTL),
		Photos:     photos,
		Logger:     logger,
	}
}

// PhotoURL resolves the card image for a stored path, using the default
// image when the user has none or the store fails.
func (a *AppContext) PhotoURL(ctx context.Context, path string) string {
	if path == "" {
		return storage.DefaultPhotoURL
	}
	url, err := a.Photos.URL(ctx, path)
	if err != nil {
		a.Logger.Warn("photo url failed", "path", path, "err", err)
		return storage.DefaultPhotoURL
	}
	return url
}
