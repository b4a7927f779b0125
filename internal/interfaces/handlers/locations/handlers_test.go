package locations

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"realty-backend/internal/application/location"
	"realty-backend/internal/domain"
	"realty-backend/internal/infrastructure/database/dbtest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocationsApp(t *testing.T) *fiber.App {
	db := dbtest.Open(t)
	require.NoError(t, db.Create(&domain.Region{ID: 1, Name: "Yerevan", UsesDistricts: true}).Error)
	require.NoError(t, db.Create(&domain.District{ID: 5, StateID: 1, Name: "Kentron"}).Error)
	require.NoError(t, db.Create(&domain.Region{ID: 2, Name: "Kotayk"}).Error)

	h := &Handlers{Service: &location.Service{DB: db}}
	app := fiber.New()
	app.Get("/regions", h.Regions)
	app.Get("/regions/:id/districts", h.Districts)
	app.Get("/regions/:id/cities", h.Cities)
	app.Post("/regions/:id/cities", h.CreateCity)
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, []interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	items, _ := out["data"].([]interface{})
	return resp.StatusCode, items
}

func createCity(t *testing.T, app *fiber.App, regionID, name string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/regions/"+regionID+"/cities", strings.NewReader(`{"name":"`+name+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCatalog(t *testing.T) {
	app := setupLocationsApp(t)

	code, regions := get(t, app, "/regions")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, regions, 2)

	code, districts := get(t, app, "/regions/1/districts")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, districts, 1)
	assert.Equal(t, "Kentron", districts[0].(map[string]interface{})["name"])

	code, _ = get(t, app, "/regions/99/cities")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateCity(t *testing.T) {
	app := setupLocationsApp(t)

	assert.Equal(t, http.StatusCreated, createCity(t, app, "2", "Abovyan"))
	assert.Equal(t, http.StatusConflict, createCity(t, app, "2", "abovyan"))
	assert.Equal(t, http.StatusBadRequest, createCity(t, app, "1", "Nork"), "district regions take no cities")

	_, cities := get(t, app, "/regions/2/cities")
	require.Len(t, cities, 1)
	assert.Equal(t, "Abovyan", cities[0].(map[string]interface{})["name"])
}
