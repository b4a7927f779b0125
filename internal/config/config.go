package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionTTL          time.Duration
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string

	MediaBaseURL  string // CDN upload API, e.g. https://api.cloudinary.com/v1_1/<cloud>
	MediaAPIKey   string
	MediaFolder   string
	MaxImageBytes int64
	MaxVideoBytes int64

	TranslateURL    string // LibreTranslate-compatible endpoint
	TranslateAPIKey string

	GeocoderURL       string // Nominatim-compatible endpoint
	GeocoderUserAgent string

	// Seeded on startup when both are set and no admin with that email exists.
	AdminEmail    string
	AdminPassword string

	// ViewDedupWindow suppresses repeat view increments from the same viewer; 0 disables it.
	ViewDedupWindow time.Duration
}

const megabyte = 1 << 20

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("MEDIA_FOLDER", "listings")
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("MEDIA_MAX_IMAGE_MB", 20)
	viper.SetDefault("MEDIA_MAX_VIDEO_MB", 100)
	viper.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("GEOCODER_USER_AGENT", "realty-backend/1.0")

	dbURL := viper.GetString("DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	return &Config{
		Env:                 viper.GetString("APP_ENV"),
		Port:                viper.GetString("PORT"),
		SessionTTL:          viper.GetDuration("SESSION_TTL"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		MediaBaseURL:        strings.TrimRight(viper.GetString("MEDIA_BASE_URL"), "/"),
		MediaAPIKey:         viper.GetString("MEDIA_API_KEY"),
		MediaFolder:         viper.GetString("MEDIA_FOLDER"),
		MaxImageBytes:       viper.GetInt64("MEDIA_MAX_IMAGE_MB") * megabyte,
		MaxVideoBytes:       viper.GetInt64("MEDIA_MAX_VIDEO_MB") * megabyte,
		TranslateURL:        strings.TrimRight(viper.GetString("TRANSLATE_URL"), "/"),
		TranslateAPIKey:     viper.GetString("TRANSLATE_API_KEY"),
		GeocoderURL:         strings.TrimRight(viper.GetString("GEOCODER_URL"), "/"),
		GeocoderUserAgent:   viper.GetString("GEOCODER_USER_AGENT"),
		AdminEmail:          strings.ToLower(strings.TrimSpace(viper.GetString("ADMIN_EMAIL"))),
		AdminPassword:       viper.GetString("ADMIN_PASSWORD"),
		ViewDedupWindow:     viper.GetDuration("VIEW_DEDUP_WINDOW"),
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
