package matching

import "sort"

const (
	BaseScore      = 100
	TimingBonus    = 30
	CuisineBonus   = 10
	BudgetBonus    = 15
	BudgetMinRatio = 0.8
)

// Score rates candidate against self. The caller has already checked
// that both attend the same university, so the base is unconditional.
//
// Behavior:
//   - +30 once if any same-day slot pair overlaps, boundaries inclusive.
//   - +10 per shared cuisine, compared lower-cased.
//   - +15 if both budgets are set and min/max >= 0.8.
//
// The inputs are symmetric, so Score(a, b) == Score(b, a).
func Score(self, candidate Participant) Result {
	res := Result{Score: BaseScore, CommonCuisines: []string{}}

	if OverlapsInclusive(self.Slots, candidate.Slots) {
		res.TimingMatch = true
		res.Score += TimingBonus
	}

	if common := CommonCuisines(self.Cuisines, candidate.Cuisines); len(common) > 0 {
		res.FoodMatch = true
		res.CommonCuisines = common
		res.Score += CuisineBonus * len(common)
	}

	if BudgetCompatible(self.MaxBudget, candidate.MaxBudget) {
		res.Score += BudgetBonus
	}
	return res
}

// OverlapsInclusive reports whether any same-day pair of slots touches or
// overlaps. Only existence matters, so slot order does not affect the answer.
func OverlapsInclusive(a, b []Slot) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Day == y.Day && x.Start <= y.End && x.End >= y.Start {
				return true
			}
		}
	}
	return false
}

// CommonCuisines intersects two cuisine lists case-insensitively.
func CommonCuisines(a, b []string) []string {
	left, right := lowerSet(a), lowerSet(b)
	out := make([]string, 0)
	for c := range left {
		if _, ok := right[c]; ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// UnionCuisines merges two cuisine lists case-insensitively.
func UnionCuisines(a, b []string) []string {
	set := lowerSet(a)
	for c := range lowerSet(b) {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// BudgetCompatible is true when both budgets are positive and within 80% of each other.
func BudgetCompatible(a, b *float64) bool {
	if a == nil || b == nil || *a <= 0 || *b <= 0 {
		return false
	}
	lo, hi := *a, *b
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo/hi >= BudgetMinRatio
}

// Rank sorts cards by score, highest first. Ties keep ascending user id.
func Rank(cards []CandidateSummary) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Score != cards[j].Score {
			return cards[i].Score > cards[j].Score
		}
		return cards[i].UserID < cards[j].UserID
	})
}
