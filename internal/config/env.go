package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ServerConfig holds runtime settings for the API process, read from the
// environment.
type ServerConfig struct {
	Env  string `envconfig:"API_ENV" default:"development"`
	Port string `envconfig:"API_PORT" default:"8080"`

	// ConfigPath is the engine YAML; empty means the built-in defaults.
	ConfigPath string        `envconfig:"BUDGET_CONFIG"`
	DatasetTTL time.Duration `envconfig:"DATASET_TTL" default:"2h"`
	// ImportBaseURL enables /datasets/import for URLs under it. Unset
	// leaves the route disabled.
	ImportBaseURL string `envconfig:"DATA_IMPORT_BASE_URL"`
	// DataToken authenticates fetches under ImportBaseURL.
	DataToken string `envconfig:"BUDGET_DATA_TOKEN"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	StaticDir   string   `envconfig:"STATIC_DIR"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// LoadServer reads ServerConfig from environment variables.
func LoadServer() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the API runs in production.
func (c *ServerConfig) IsProduction() bool {
	return c != nil && c.Env == "production"
}
