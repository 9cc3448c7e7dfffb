package rolniknysa

import (
	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the backend, supplied through the
// environment.
type Config struct {
	Addr         string `env:"RN_ADDR" env-default:":3000"`
	SiteURL      string `env:"RN_SITE_URL" env-default:"http://localhost:3000"`
	DatabasePath string `env:"RN_DB_PATH" env-default:"data/content.db"`
	UploadDir    string `env:"RN_UPLOAD_DIR" env-default:"uploads"`

	// WebhookSecret is the shared secret the automation sender signs
	// request bodies with. Required.
	WebhookSecret string `env:"RN_WEBHOOK_SECRET"`

	// PreviewLimit is the character budget for article previews.
	PreviewLimit int `env:"RN_PREVIEW_LIMIT" env-default:"300"`

	// SlugMaxLen bounds article slugs derived from titles.
	SlugMaxLen int `env:"RN_SLUG_MAX_LEN" env-default:"75"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
