package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/lunchmatch/internal/db"
	"github.com/oggyb/lunchmatch/internal/matching"
)

// RestaurantRepository is the SQL restaurant catalog.
type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(database *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: database}
}

// likeEscaper makes a token match literally inside LIKE ... ESCAPE '!'.
// '!' rather than a backslash keeps the clause identical on MySQL, Postgres
// and SQLite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// FindRestaurants implements matching.Catalog.
//
// Behavior:
//   - cuisine_type must contain at least one token as a literal substring,
//     case-insensitive.
//   - price_range <= q.MaxPriceRange when set; rows without a price are
//     then excluded.
//   - Ordered by rating DESC with unrated rows last, then id.
func (r *RestaurantRepository) FindRestaurants(ctx context.Context, q matching.Query) ([]db.Restaurant, error) {
	if len(q.Tokens) == 0 {
		return []db.Restaurant{}, nil
	}

	cuisines := newScope(r.db)
	for i, tok := range q.Tokens {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(tok)) + "%"
		if i == 0 {
			cuisines = cuisines.Where("LOWER(cuisine_type) LIKE ? ESCAPE '!'", pattern)
		} else {
			cuisines = cuisines.Or("LOWER(cuisine_type) LIKE ? ESCAPE '!'", pattern)
		}
	}

	query := r.db.WithContext(ctx).Model(&db.Restaurant{}).Where(cuisines)
	if q.MaxPriceRange != nil {
		query = query.Where("price_range <= ?", *q.MaxPriceRange)
	}
	query = query.
		Order("CASE WHEN rating IS NULL THEN 1 ELSE 0 END").
		Order("rating DESC").
		Order("id")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var rows []db.Restaurant
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
