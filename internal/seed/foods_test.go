package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaledown/internal/db"
	"scaledown/internal/repository"
	"scaledown/internal/service"
)

const seedJSON = `[
	{"name": "Tomato", "servingSize": 100, "servingUnit": "g", "calories": 18, "fats": 0.2, "carbs": 3.9, "proteins": 0.9},
	{"name": "", "servingSize": 100, "servingUnit": "g"},
	{"name": "Air", "servingSize": 0, "servingUnit": "g"}
]`

func TestLoad_Samples(t *testing.T) {
	foods, err := Load(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, SampleFoods, foods)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))

	foods, err := Load(context.Background(), path)

	require.NoError(t, err)
	assert.Len(t, foods, 3)
	assert.Equal(t, "Tomato", foods[0].Name)
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(seedJSON))
	}))
	defer srv.Close()

	foods, err := Load(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Len(t, foods, 3)
}

func TestLoad_URLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL)

	assert.Error(t, err)
}

func TestFoods_UpsertsAndSkips(t *testing.T) {
	gormDB, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(gormDB))

	repo := repository.NewFoodItemRepository(gormDB)
	foods := service.NewFoodService(repo, nil, 0)
	ctx := context.Background()

	res, err := Foods(ctx, foods, SampleFoods)
	require.NoError(t, err)
	assert.Equal(t, len(SampleFoods), res.Upserted)

	res, err = Foods(ctx, foods, []FoodData{
		{Name: "Tomato", ServingSize: 50, ServingUnit: "g", Calories: 9},
		{Name: "", ServingSize: 1, ServingUnit: "g"},
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Upserted: 1, Skipped: 1}, res)

	tomato, err := repo.FindByName(ctx, "Tomato")
	require.NoError(t, err)
	assert.Equal(t, 9.0, tomato.Calories)
}
