package matching

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/oggyb/lunchmatch/internal/db"
)

// Policy selects what happens when two users share no cuisine.
type Policy int

const (
	// Strict recommends nothing without a shared cuisine. Used in discovery.
	Strict Policy = iota
	// Permissive falls back to the union of both users' cuisines. Used
	// once a match exists.
	Permissive
)

const (
	DiscoveryLimit    = 3
	ConversationLimit = 5
	MaxPriceTier      = 5
	budgetPerTier     = 20.0
)

func (p Policy) String() string {
	if p == Permissive {
		return "permissive"
	}
	return "strict"
}

// Query is what a Catalog must answer: restaurants whose cuisine text
// contains any token (case-insensitive), price_range <= MaxPriceRange when
// set, ordered by rating desc, at most Limit rows.
type Query struct {
	Tokens        []string
	MaxPriceRange *int
	Limit         int
}

// Catalog looks up restaurants.
type Catalog interface {
	FindRestaurants(ctx context.Context, q Query) ([]db.Restaurant, error)
}

// Recommender ranks restaurants for a pair of users.
type Recommender struct {
	catalog Catalog
}

func NewRecommender(catalog Catalog) *Recommender {
	return &Recommender{catalog: catalog}
}

// Recommend returns up to limit restaurants for the pair.
//
// Example:
//
//	rec.Recommend(ctx, matching.Strict, a.Cuisines, b.Cuisines, a.MaxBudget, b.MaxBudget, 3)
func (r *Recommender) Recommend(
	ctx context.Context,
	policy Policy,
	cuisinesA, cuisinesB []string,
	budgetA, budgetB *float64,
	limit int,
) ([]RestaurantSummary, error) {
	q, ok := PlanQuery(policy, cuisinesA, cuisinesB, budgetA, budgetB, limit)
	if !ok {
		return []RestaurantSummary{}, nil
	}
	rows, err := r.catalog.FindRestaurants(ctx, q)
	if err != nil {
		return nil, err
	}
	return Summaries(rows), nil
}

// PlanQuery turns the pair's preferences into a catalog query. ok is false
// when there is nothing to filter on, in which case no lookup happens.
func PlanQuery(policy Policy, cuisinesA, cuisinesB []string, budgetA, budgetB *float64, limit int) (Query, bool) {
	tokens := CommonCuisines(cuisinesA, cuisinesB)
	if len(tokens) == 0 && policy == Permissive {
		tokens = UnionCuisines(cuisinesA, cuisinesB)
	}
	if len(tokens) == 0 || limit <= 0 {
		return Query{}, false
	}
	return Query{Tokens: tokens, MaxPriceRange: PriceCeiling(budgetA, budgetB), Limit: limit}, true
}

// PriceCeiling converts the lower of two budgets into a price tier:
// one tier per $20, starting at 1, capped at 5. A missing budget is
// unconstrained; nil means no price filter at all.
func PriceCeiling(budgetA, budgetB *float64) *int {
	budget := math.Inf(1)
	for _, b := range []*float64{budgetA, budgetB} {
		if b != nil && *b < budget {
			budget = *b
		}
	}
	if math.IsInf(budget, 1) {
		return nil
	}
	tier := int(math.Floor(budget/budgetPerTier)) + 1
	if tier > MaxPriceTier {
		tier = MaxPriceTier
	}
	return &tier
}

// StaticCatalog answers queries from an in-memory slice with the same
// semantics as the SQL catalog.
type StaticCatalog []db.Restaurant

func (c StaticCatalog) FindRestaurants(_ context.Context, q Query) ([]db.Restaurant, error) {
	var out []db.Restaurant
	for _, r := range c {
		if q.MaxPriceRange != nil && (r.PriceRange == nil || *r.PriceRange > *q.MaxPriceRange) {
			continue
		}
		text := strings.ToLower(r.CuisineType)
		for _, tok := range q.Tokens {
			if strings.Contains(text, strings.ToLower(tok)) {
				out = append(out, r)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Rating, out[j].Rating
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		case *ri != *rj:
			return *ri > *rj
		default:
			return out[i].ID < out[j].ID
		}
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Summaries converts catalog rows into response values.
func Summaries(rows []db.Restaurant) []RestaurantSummary {
	out := make([]RestaurantSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, RestaurantSummary{
			ID:          r.ID,
			Name:        r.Name,
			Location:    r.Location,
			CuisineType: r.CuisineType,
			PriceRange:  r.PriceRange,
			Rating:      r.Rating,
		})
	}
	return out
}
