package router

import (
	"net/http"
	"time"

	authsvc "realty-backend/internal/application/auth"
	featuresvc "realty-backend/internal/application/features"
	geosvc "realty-backend/internal/application/geocoding"
	healthsvc "realty-backend/internal/application/health"
	listsvc "realty-backend/internal/application/listings"
	"realty-backend/internal/application/location"
	mediasvc "realty-backend/internal/application/media"
	statussvc "realty-backend/internal/application/statuses"
	"realty-backend/internal/application/translation"
	"realty-backend/internal/config"
	"realty-backend/internal/infrastructure/database"
	authhandler "realty-backend/internal/interfaces/handlers/auth"
	featurehandler "realty-backend/internal/interfaces/handlers/features"
	geohandler "realty-backend/internal/interfaces/handlers/geocoding"
	healthhandler "realty-backend/internal/interfaces/handlers/health"
	listhandler "realty-backend/internal/interfaces/handlers/listings"
	lochandler "realty-backend/internal/interfaces/handlers/locations"
	mediahandler "realty-backend/internal/interfaces/handlers/media"
	statushandler "realty-backend/internal/interfaces/handlers/statuses"
	trhandler "realty-backend/internal/interfaces/handlers/translations"
	"realty-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const externalTimeout = 15 * time.Second

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp opens Postgres and Redis from cfg and builds the app over them.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redis.NewClient(opt)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return NewApp(cfg, db, rdb), db, rdb, nil
}

// NewApp registers the global middleware and every route. Domain routes are mounted only
// when db is set; health and auth are always present.
func NewApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               bodyLimit(cfg),
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
		AllowLocalhost: !cfg.IsProduction(),
	}))
	app.Use(middleware.Sessions(rdb, cfg.SessionTTL))
	app.Use(middleware.Tracing())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		Probes:         probes(cfg),
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if db != nil {
		hh.DB = &gormDBPinger{db: db}
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	ah := &authhandler.Handlers{Rdb: rdb, Cookie: middleware.SessionOptions{
		TTL:       cfg.SessionTTL,
		CrossSite: cfg.AllowCrossSiteDev,
		Secure:    cfg.IsProduction(),
	}}
	if db != nil {
		ah.Auth = &authsvc.Service{DB: db}
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db == nil {
		return app
	}

	// Services
	limits := mediasvc.DefaultLimits()
	if cfg.MaxImageBytes > 0 && cfg.MaxVideoBytes > 0 {
		limits = mediasvc.Limits{MaxImageBytes: cfg.MaxImageBytes, MaxVideoBytes: cfg.MaxVideoBytes}
	}
	locations := &location.Service{DB: db}
	resolver := &statussvc.Resolver{DB: db}
	statuses := &statussvc.Service{DB: db, Resolver: resolver}
	features := &featuresvc.Service{DB: db}
	media := &mediasvc.Service{DB: db, Uploader: uploader(cfg), Limits: limits, Folder: cfg.MediaFolder}
	enricher := &translation.Enricher{DB: db, Translator: translator(cfg)}
	geocoder := &geosvc.Service{Geocoder: geocoderClient(cfg)}
	listings := &listsvc.Service{
		DB:              db,
		Rdb:             rdb,
		Locations:       locations,
		Statuses:        resolver,
		Features:        features,
		Media:           media,
		Enricher:        enricher,
		Geocoder:        geocoder,
		ViewDedupWindow: cfg.ViewDedupWindow,
	}

	lh := &listhandler.Handlers{Service: listings}
	sh := &statushandler.Handlers{Service: statuses}
	fh := &featurehandler.Handlers{Service: features}
	loh := &lochandler.Handlers{Service: locations}
	mh := &mediahandler.Handlers{Service: media}
	th := &trhandler.Handlers{Enricher: enricher}
	gh := &geohandler.Handlers{Service: geocoder}

	// Public
	pub := app.Group("/api/v1")
	pub.Get("/properties", lh.List)
	pub.Get("/properties/:custom_id", lh.GetByCustomID)
	pub.Post("/properties/:custom_id/favorite", lh.ToggleFavorite)
	pub.Get("/locations/regions", loh.Regions)
	pub.Get("/locations/regions/:id/districts", loh.Districts)
	pub.Get("/locations/regions/:id/cities", loh.Cities)
	pub.Get("/features", fh.List)
	pub.Get("/statuses", sh.List)
	pub.Get("/geocode/suggest", gh.Suggest)

	// Admin
	adm := app.Group("/api/v1/admin", middleware.RequireAdmin()...)
	adm.Get("/properties", lh.List)
	adm.Post("/properties", lh.Create)
	adm.Get("/properties/:id", lh.Get)
	adm.Put("/properties/:id", lh.Edit)
	adm.Delete("/properties/:id", lh.Delete)
	adm.Get("/properties/:id/media", mh.List)
	adm.Put("/properties/:id/media/order", mh.Reorder)
	adm.Put("/media/:media_id/primary", mh.SetPrimary)
	adm.Delete("/media/:media_id", mh.Delete)
	adm.Post("/properties/:id/translate", th.Retranslate)
	adm.Get("/properties/:id/translations", th.Records)
	adm.Put("/properties/:id/translations", th.SetManual)
	adm.Post("/translations/batch", th.TranslateMissing)
	adm.Get("/statuses", sh.List)
	adm.Post("/statuses", sh.Create)
	adm.Put("/statuses/:id", sh.Update)
	adm.Delete("/statuses/:id", sh.Delete)
	adm.Post("/features", fh.Create)
	adm.Delete("/features/:id", fh.Delete)
	adm.Post("/locations/regions/:id/cities", loh.CreateCity)
	adm.Get("/geocode", gh.Lookup)

	return app
}

// bodyLimit leaves room for one full-size video plus the form fields.
func bodyLimit(cfg *config.Config) int {
	max := cfg.MaxVideoBytes
	if max <= 0 {
		max = mediasvc.DefaultLimits().MaxVideoBytes
	}
	return int(max) + 10<<20
}

func uploader(cfg *config.Config) mediasvc.Uploader {
	if cfg.MediaBaseURL == "" {
		return nil
	}
	return &mediasvc.HTTPUploader{BaseURL: cfg.MediaBaseURL, APIKey: cfg.MediaAPIKey, Client: &http.Client{Timeout: 2 * time.Minute}}
}

func translator(cfg *config.Config) translation.Translator {
	if cfg.TranslateURL == "" {
		return nil
	}
	return &translation.HTTPTranslator{BaseURL: cfg.TranslateURL, APIKey: cfg.TranslateAPIKey, Client: &http.Client{Timeout: externalTimeout}}
}

func geocoderClient(cfg *config.Config) geosvc.Geocoder {
	if cfg.GeocoderURL == "" {
		return nil
	}
	return &geosvc.NominatimClient{BaseURL: cfg.GeocoderURL, UserAgent: cfg.GeocoderUserAgent, CountryCode: "am", Client: &http.Client{Timeout: externalTimeout}}
}

func probes(cfg *config.Config) []healthsvc.Probe {
	return []healthsvc.Probe{
		{Name: "media_storage", URL: cfg.MediaBaseURL},
		{Name: "translator", URL: cfg.TranslateURL},
		{Name: "geocoder", URL: cfg.GeocoderURL},
	}
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
