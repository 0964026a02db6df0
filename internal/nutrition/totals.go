// Package nutrition computes derived nutrient totals for meals.
//
// A portion contributes (portion serving size / food serving size) times each
// nutrient of the food. Serving units are not converted: the ratio assumes the
// portion is measured in the food item's base unit. Portions whose food item
// could not be resolved contribute nothing.
package nutrition

import (
	"math"

	"github.com/shopspring/decimal"
)

// Totals holds summed nutrient values.
type Totals struct {
	Calories float64 `json:"calories"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
	Proteins float64 `json:"proteins"`
}

// Facts are the nutrient values of one serving of a food item.
type Facts struct {
	ServingSize float64
	Calories    float64
	Fats        float64
	Carbs       float64
	Proteins    float64
}

// Portion is an amount of a food item used in a meal.
// Facts is nil when the referenced food item no longer exists.
type Portion struct {
	Facts       *Facts
	ServingSize float64
}

type accumulator struct {
	calories decimal.Decimal
	fats     decimal.Decimal
	carbs    decimal.Decimal
	proteins decimal.Decimal
}

func (a *accumulator) add(multiplier decimal.Decimal, f Facts) {
	a.calories = a.calories.Add(multiplier.Mul(decimal.NewFromFloat(f.Calories)))
	a.fats = a.fats.Add(multiplier.Mul(decimal.NewFromFloat(f.Fats)))
	a.carbs = a.carbs.Add(multiplier.Mul(decimal.NewFromFloat(f.Carbs)))
	a.proteins = a.proteins.Add(multiplier.Mul(decimal.NewFromFloat(f.Proteins)))
}

func (a *accumulator) totals() Totals {
	return Totals{
		Calories: a.calories.InexactFloat64(),
		Fats:     a.fats.InexactFloat64(),
		Carbs:    a.carbs.InexactFloat64(),
		Proteins: a.proteins.InexactFloat64(),
	}
}

// Compute sums the contribution of every resolvable portion.
// An empty list yields zero totals.
func Compute(portions []Portion) Totals {
	var acc accumulator
	for _, p := range portions {
		if !p.Resolvable() {
			continue
		}
		multiplier := decimal.NewFromFloat(p.ServingSize).Div(decimal.NewFromFloat(p.Facts.ServingSize))
		acc.add(multiplier, *p.Facts)
	}
	return acc.totals()
}

// Resolvable reports whether the portion can contribute to totals: its food
// item was found, has a positive serving size, and every value is finite.
func (p Portion) Resolvable() bool {
	if p.Facts == nil || p.Facts.ServingSize <= 0 {
		return false
	}
	for _, v := range []float64{
		p.ServingSize,
		p.Facts.ServingSize,
		p.Facts.Calories,
		p.Facts.Fats,
		p.Facts.Carbs,
		p.Facts.Proteins,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum adds several totals together.
func Sum(all ...Totals) Totals {
	var acc accumulator
	one := decimal.NewFromInt(1)
	for _, t := range all {
		acc.add(one, Facts{
			Calories: t.Calories,
			Fats:     t.Fats,
			Carbs:    t.Carbs,
			Proteins: t.Proteins,
		})
	}
	return acc.totals()
}
