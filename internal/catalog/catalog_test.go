package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymbros/internal/catalog"
	"github.com/2beens/gymbros/internal/workouts"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Consistency(t *testing.T) {
	c := catalog.Default()
	all := c.All()
	require.Len(t, all, 108)

	for _, e := range all {
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.Name, e.ID)
		assert.Contains(t, catalog.DefaultCategories, e.Category, e.ID)
		assert.NotEmpty(t, e.MuscleGroups, e.ID)
	}

	assert.ElementsMatch(t, catalog.DefaultCategories, c.Categories())
}

func TestGet_FirstOccurrenceWins(t *testing.T) {
	c := catalog.Default()

	e, ok := c.Get("dumbbell-press")
	require.True(t, ok)
	assert.Equal(t, "Chest", e.Category)

	e, ok = c.Get("incline-dumbbell-press")
	require.True(t, ok)
	assert.Equal(t, "Incline Dumbbell Press", e.Name)

	_, ok = c.Get("nope")
	assert.False(t, ok)
}

func TestGet_ReturnsCopy(t *testing.T) {
	c := catalog.Default()
	e, _ := c.Get("bench-press")
	e.MuscleGroups[0] = "Legs"

	again, _ := c.Get("bench-press")
	assert.Equal(t, "Chest", again.MuscleGroups[0])
}

func TestByCategoryAndSearch(t *testing.T) {
	c := catalog.New([]workouts.Exercise{
		{ID: "bench-press", Name: "Bench Press", Category: "Chest", MuscleGroups: []string{"Chest"}},
		{ID: "squat", Name: "Squat", Category: "Legs", MuscleGroups: []string{"Quads"}},
		{ID: "front-squat", Name: "Front Squat", Category: "Legs", MuscleGroups: []string{"Quads"}},
	})

	legs := c.ByCategory("legs")
	require.Len(t, legs, 2)
	assert.Equal(t, "squat", legs[0].ID)

	found := c.Search("SQUAT")
	require.Len(t, found, 2)
	assert.Equal(t, "front-squat", found[1].ID)

	assert.Empty(t, c.Search("   "))
	assert.Empty(t, c.ByCategory("Cardio"))
	assert.Equal(t, []string{"Chest", "Legs"}, c.Categories())
}

func TestHandler(t *testing.T) {
	r := mux.NewRouter()
	catalog.NewHandler(catalog.Default()).SetupRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/catalog?category=Cardio", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var cardio []workouts.Exercise
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cardio))
	assert.Len(t, cardio, 8)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/catalog/squat", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var squat workouts.Exercise
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &squat))
	assert.Equal(t, "Squat", squat.Name)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/catalog/unknown-id", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/catalog/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Cardio")
}
