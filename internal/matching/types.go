// Package matching holds the deterministic compatibility scoring and
// restaurant recommendation rules. Nothing here touches storage except
// through the Catalog interface.
package matching

import (
	"strings"

	"gorm.io/datatypes"

	"github.com/oggyb/lunchmatch/internal/db"
)

// Slot is one weekly availability window. Day 0 is Monday.
type Slot struct {
	Day   int            `json:"day_of_week"`
	Start datatypes.Time `json:"start_time"`
	End   datatypes.Time `json:"end_time"`
}

// Participant is the scoring view of a user.
type Participant struct {
	UserID    uint64
	Cuisines  []string
	MaxBudget *float64
	Slots     []Slot
}

// Result is the outcome of Score. CommonCuisines is sorted.
type Result struct {
	Score          int      `json:"score"`
	TimingMatch    bool     `json:"timing_match"`
	FoodMatch      bool     `json:"food_match"`
	CommonCuisines []string `json:"common_cuisines"`
}

type RestaurantSummary struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	CuisineType string   `json:"cuisine_type"`
	PriceRange  *int     `json:"price_range,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// CandidateSummary is the card shown in discovery and in match listings.
type CandidateSummary struct {
	UserID              uint64              `json:"user_id"`
	FirstName           string              `json:"first_name"`
	LastName            string              `json:"last_name"`
	University          string              `json:"university"`
	Department          string              `json:"department"`
	Bio                 string              `json:"bio"`
	GraduationYear      *int                `json:"graduation_year,omitempty"`
	PhotoURL            string              `json:"photo_url"`
	Cuisines            []string            `json:"cuisines"`
	DietaryRestrictions []string            `json:"dietary_restrictions"`
	MaxBudget           *float64            `json:"max_budget,omitempty"`
	Availability        []Slot              `json:"availability"`
	Restaurants         []RestaurantSummary `json:"recommended_restaurants"`
	Result
}

// ParticipantOf builds the scoring view of a loaded user.
func ParticipantOf(u *db.User) Participant {
	p := Participant{UserID: u.ID}
	if pref := u.LunchPreference; pref != nil {
		p.MaxBudget = pref.MaxBudget
		for _, c := range pref.Cuisines {
			p.Cuisines = append(p.Cuisines, c.CuisineType)
		}
	}
	for _, s := range u.Availability {
		p.Slots = append(p.Slots, Slot{Day: s.DayOfWeek, Start: s.StartTime, End: s.EndTime})
	}
	return p
}

// SummaryOf fills the profile part of a card. Score fields are left zero.
func SummaryOf(u *db.User, photoURL string) CandidateSummary {
	p := ParticipantOf(u)
	s := CandidateSummary{
		UserID:         u.ID,
		FirstName:      u.Profile.FirstName,
		LastName:       u.Profile.LastName,
		University:     u.Profile.University,
		Department:     u.Profile.Department,
		Bio:            u.Profile.Bio,
		GraduationYear: u.Profile.GraduationYear,
		PhotoURL:       photoURL,
		Cuisines:       p.Cuisines,
		MaxBudget:      p.MaxBudget,
		Availability:   p.Slots,
	}
	if pref := u.LunchPreference; pref != nil {
		for _, d := range pref.DietaryRestrictions {
			s.DietaryRestrictions = append(s.DietaryRestrictions, d.RestrictionType)
		}
	}
	return s
}

// PrimaryPhotoPath returns the stored path of u's primary photo, or "".
func PrimaryPhotoPath(u *db.User) string {
	for _, p := range u.Photos {
		if p.IsPrimary {
			return p.Path
		}
	}
	return ""
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
