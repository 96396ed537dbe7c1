package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig is read from the environment by cmd/api.
type ServerConfig struct {
	Port        string        `env:"API_PORT"          envDefault:"8080"`
	Env         string        `env:"API_ENV"           envDefault:"development"`
	LogLevel    string        `env:"LOG_LEVEL"         envDefault:"info"`
	ScenarioDir string        `env:"SCENARIO_DIR"      envDefault:"./examples/scenarios"`
	RunsDB      string        `env:"RUNS_DB"           envDefault:"runs.db"`
	CacheTTL    time.Duration `env:"RESULT_CACHE_TTL"  envDefault:"1h"`
	CacheSize   int           `env:"RESULT_CACHE_SIZE" envDefault:"64"`
	StaticDir   string        `env:"STATIC_DIR"        envDefault:"./web/dist"`
	CORSOrigins []string      `env:"CORS_ORIGINS"      envSeparator:","`
	MQTT        MQTTConfig    `envPrefix:"MQTT_"`
}

// MQTTConfig configures series publishing. Empty Broker disables it.
type MQTTConfig struct {
	Broker      string `env:"BROKER"`
	TopicPrefix string `env:"TOPIC_PREFIX" envDefault:"panic_buying"`
	ClientID    string `env:"CLIENT_ID"    envDefault:"panic-buying"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
}

func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

// LoadServer parses ServerConfig from environment variables.
func LoadServer() (*ServerConfig, error) {
	var c ServerConfig
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &c, nil
}

func (c *ServerConfig) Production() bool { return c.Env == "production" }
