package features

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	featuresvc "realty-backend/internal/application/features"
	"realty-backend/internal/infrastructure/database/dbtest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFeaturesApp(t *testing.T) *fiber.App {
	h := &Handlers{Service: &featuresvc.Service{DB: dbtest.Open(t)}}
	app := fiber.New()
	app.Get("/features", h.List)
	app.Post("/features", h.Create)
	app.Delete("/features/:id", h.Delete)
	return app
}

func postFeature(t *testing.T, app *fiber.App, name string) *http.Response {
	b, _ := json.Marshal(map[string]string{"name": name})
	req := httptest.NewRequest(http.MethodPost, "/features", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestFeatures(t *testing.T) {
	app := setupFeaturesApp(t)

	resp := postFeature(t, app, "Balcony")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, http.StatusConflict, postFeature(t, app, "Balcony").StatusCode)
	assert.Equal(t, http.StatusBadRequest, postFeature(t, app, "  ").StatusCode)
	require.Equal(t, http.StatusCreated, postFeature(t, app, "Air conditioning").StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/features", nil))
	require.NoError(t, err)
	var out struct {
		Data []struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, "Air conditioning", out.Data[0].Name)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/features/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/features/999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
