// Package seed loads food items into the catalogue.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"scaledown/internal/model"
)

// FoodData is the seed file format for one food item.
type FoodData struct {
	Name        string  `json:"name"`
	ServingSize float64 `json:"servingSize"`
	ServingUnit string  `json:"servingUnit"`
	Calories    float64 `json:"calories"`
	Fats        float64 `json:"fats"`
	Carbs       float64 `json:"carbs"`
	Proteins    float64 `json:"proteins"`
}

// SampleFoods is used when no source is given.
var SampleFoods = []FoodData{
	{Name: "Ground Beef", ServingSize: 100, ServingUnit: "g", Calories: 332, Fats: 30, Carbs: 0, Proteins: 14},
	{Name: "Tomato", ServingSize: 100, ServingUnit: "g", Calories: 18, Fats: 0.2, Carbs: 3.9, Proteins: 0.9},
	{Name: "White Rice", ServingSize: 100, ServingUnit: "g", Calories: 130, Fats: 0.3, Carbs: 28.2, Proteins: 2.7},
	{Name: "Chicken Breast", ServingSize: 100, ServingUnit: "g", Calories: 165, Fats: 3.6, Carbs: 0, Proteins: 31},
	{Name: "Egg", ServingSize: 50, ServingUnit: "g", Calories: 72, Fats: 4.8, Carbs: 0.4, Proteins: 6.3},
	{Name: "Whole Milk", ServingSize: 244, ServingUnit: "ml", Calories: 149, Fats: 7.9, Carbs: 11.7, Proteins: 7.7},
	{Name: "Banana", ServingSize: 118, ServingUnit: "g", Calories: 105, Fats: 0.4, Carbs: 27, Proteins: 1.3},
	{Name: "Olive Oil", ServingSize: 13.5, ServingUnit: "g", Calories: 119, Fats: 13.5, Carbs: 0, Proteins: 0},
}

// Result counts what a seed run did.
type Result struct {
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}

// Load reads food data from source: an http(s) URL, a file path, or the
// built-in samples when source is empty.
func Load(ctx context.Context, source string) ([]FoodData, error) {
	switch {
	case source == "":
		return SampleFoods, nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetch(ctx, source)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open seed file: %w", err)
		}
		defer f.Close()
		return decode(f)
	}
}

func fetch(ctx context.Context, url string) ([]FoodData, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status: %d", resp.StatusCode)
	}
	return decode(resp.Body)
}

func decode(r io.Reader) ([]FoodData, error) {
	var foods []FoodData
	if err := json.NewDecoder(r).Decode(&foods); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return foods, nil
}

// Store upserts food items by name.
type Store interface {
	UpsertFood(ctx context.Context, food *model.FoodItem) (*model.FoodItem, error)
}

// Foods upserts every valid entry by name. Entries without a name or with a
// non-positive serving size are skipped.
func Foods(ctx context.Context, store Store, foods []FoodData) (Result, error) {
	var res Result
	for _, data := range foods {
		if strings.TrimSpace(data.Name) == "" || data.ServingSize <= 0 || data.ServingUnit == "" {
			res.Skipped++
			continue
		}
		food := &model.FoodItem{
			Name:        strings.TrimSpace(data.Name),
			ServingSize: data.ServingSize,
			ServingUnit: data.ServingUnit,
			Calories:    data.Calories,
			Fats:        data.Fats,
			Carbs:       data.Carbs,
			Proteins:    data.Proteins,
		}
		if _, err := store.UpsertFood(ctx, food); err != nil {
			return res, fmt.Errorf("upsert food %q: %w", food.Name, err)
		}
		res.Upserted++
	}
	return res, nil
}
