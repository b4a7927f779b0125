package translations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"realty-backend/internal/application/translation"
	"realty-backend/internal/domain"
	"realty-backend/internal/infrastructure/database/dbtest"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type tagTranslator struct{}

func (tagTranslator) Translate(_ context.Context, text, _, target string) (string, error) {
	return target + ":" + text, nil
}

func setupTranslationsApp(t *testing.T) (*fiber.App, *gorm.DB, uint) {
	db := dbtest.Open(t)
	l := domain.Listing{
		CustomID:     "T1",
		PropertyType: domain.PropertyLand,
		ListingType:  domain.ListingSale,
		Price:        decimal.NewFromInt(30000),
		Title:        "Հողատարածք",
		Description:  "Հողատարածք Աբովյանում",
		StateID:      2,
	}
	require.NoError(t, db.Create(&l).Error)

	h := &Handlers{Enricher: &translation.Enricher{DB: db, Translator: tagTranslator{}}}
	app := fiber.New()
	app.Post("/translations/batch", h.TranslateMissing)
	app.Post("/properties/:id/translate", h.Retranslate)
	app.Put("/properties/:id/translations", h.SetManual)
	app.Get("/properties/:id/translations", h.Records)
	return app, db, l.ID
}

func idPath(id uint, suffix string) string {
	b, _ := json.Marshal(id)
	return "/properties/" + string(b) + suffix
}

func TestBatchThenRecords(t *testing.T) {
	app, db, id := setupTranslationsApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/translations/batch?limit=10", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var batch struct {
		Data translation.BatchResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&batch))
	assert.Equal(t, 1, batch.Data.Processed)
	assert.Equal(t, 1, batch.Data.Completed)

	var l domain.Listing
	require.NoError(t, db.First(&l, id).Error)
	require.NotNil(t, l.TitleEn)
	assert.Equal(t, "en:Հողատարածք", *l.TitleEn)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, idPath(id, "/translations"), nil))
	require.NoError(t, err)
	var records struct {
		Data []domain.Translation `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	assert.Len(t, records.Data, 4)
}

func TestSetManual(t *testing.T) {
	app, db, id := setupTranslationsApp(t)

	put := func(body string) int {
		req := httptest.NewRequest(http.MethodPut, idPath(id, "/translations"), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusOK, put(`{"lang":"ru","field":"title","text":"Земельный участок"}`))
	assert.Equal(t, http.StatusBadRequest, put(`{"lang":"de","field":"title","text":"Grundstück"}`))

	var l domain.Listing
	require.NoError(t, db.First(&l, id).Error)
	require.NotNil(t, l.TitleRu)
	assert.Equal(t, "Земельный участок", *l.TitleRu)

	var rec domain.Translation
	require.NoError(t, db.Where("property_id = ? AND language_code = ?", id, "ru").First(&rec).Error)
	assert.Equal(t, domain.TranslationManual, rec.Source)
}

func TestRetranslate(t *testing.T) {
	app, _, id := setupTranslationsApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, idPath(id, "/translate"), nil))
	require.NoError(t, err)
	var out struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, string(domain.TranslationCompleted), out.Data["translation_status"])
}
