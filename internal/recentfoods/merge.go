// Package recentfoods keeps each user's bounded list of recently used food
// items up to date as meals are written.
package recentfoods

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"scaledown/internal/model"
)

// MaxEntries is the most entries a user's recent foods list holds.
const MaxEntries = 20

// Policy decides which entry survives when a food item appears more than once.
type Policy string

const (
	// PolicyReference orders the list by food item id and keeps the first
	// entry seen for each id, existing entries ahead of new ones.
	PolicyReference Policy = "reference"
	// PolicyRecency orders the list by date used, newest first, and keeps the
	// most recent entry for each id.
	PolicyRecency Policy = "recency"
)

// ParsePolicy returns the policy named by s. An empty string is PolicyReference.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyReference:
		return PolicyReference, nil
	case PolicyRecency:
		return PolicyRecency, nil
	default:
		return "", fmt.Errorf("unknown recent foods policy %q", s)
	}
}

// Merge combines the stored entries with the ones a meal just used and
// returns a list with at most one entry per food item and at most MaxEntries
// entries. Neither input is modified.
func Merge(existing, used []model.RecentFood, policy Policy) []model.RecentFood {
	combined := make([]model.RecentFood, 0, len(existing)+len(used))

	switch policy {
	case PolicyRecency:
		combined = append(combined, used...)
		combined = append(combined, existing...)
		slices.SortStableFunc(combined, func(a, b model.RecentFood) int {
			return b.DateUsed.Compare(a.DateUsed)
		})
	default:
		combined = append(combined, existing...)
		combined = append(combined, used...)
		slices.SortStableFunc(combined, func(a, b model.RecentFood) int {
			return bytes.Compare(a.FoodItemID[:], b.FoodItemID[:])
		})
	}

	seen := make(map[uuid.UUID]struct{}, len(combined))
	out := make([]model.RecentFood, 0, min(len(combined), MaxEntries))
	for _, entry := range combined {
		if _, dup := seen[entry.FoodItemID]; dup {
			continue
		}
		seen[entry.FoodItemID] = struct{}{}
		out = append(out, entry)
		if len(out) == MaxEntries {
			break
		}
	}
	return out
}

// FromMeal returns one entry per food list item of meal, dated with the meal.
func FromMeal(meal *model.Meal) []model.RecentFood {
	used := make([]model.RecentFood, 0, len(meal.FoodList))
	for _, food := range meal.FoodList {
		used = append(used, model.RecentFood{FoodItemID: food.FoodItemID, DateUsed: meal.Date})
	}
	return used
}
