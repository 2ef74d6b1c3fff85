package utils

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Checkout CheckoutConfig
	Database DatabaseConfig
	Sim      SimConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CheckoutConfig struct {
	RefreshInterval time.Duration
	PaymentDelay    time.Duration
	DeclineMethods  []string
	ReleaseTimeout  time.Duration
	Currency        string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// SimConfig controls the embedded in-memory backend used for local runs.
type SimConfig struct {
	Enabled        bool
	Port           string
	LockTTL        time.Duration
	DeclineMethods []string
}

// LoadConfig reads path (an .env file) if it exists, then lets the
// environment override anything in it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("APP_NAME", "cinema-checkout")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("BACKEND_URL", "http://localhost:8090/api")
	v.SetDefault("BACKEND_TIMEOUT", "10s")
	v.SetDefault("SEAT_REFRESH_INTERVAL", "5s")
	v.SetDefault("PAYMENT_DELAY", "2s")
	v.SetDefault("PAYMENT_DECLINE_METHODS", "")
	v.SetDefault("RELEASE_TIMEOUT", "5s")
	v.SetDefault("CURRENCY_SYMBOL", "₹")
	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SIM_ENABLED", false)
	v.SetDefault("SIM_PORT", "8090")
	v.SetDefault("SIM_LOCK_TTL", "5m")
	v.SetDefault("SIM_DECLINE_METHODS", "")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("BACKEND_URL"), "/"),
			Timeout: v.GetDuration("BACKEND_TIMEOUT"),
		},
		Checkout: CheckoutConfig{
			RefreshInterval: v.GetDuration("SEAT_REFRESH_INTERVAL"),
			PaymentDelay:    v.GetDuration("PAYMENT_DELAY"),
			DeclineMethods:  splitList(v.GetString("PAYMENT_DECLINE_METHODS")),
			ReleaseTimeout:  v.GetDuration("RELEASE_TIMEOUT"),
			Currency:        v.GetString("CURRENCY_SYMBOL"),
		},
		Database: DatabaseConfig{
			Enabled:  v.GetBool("DB_ENABLED"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Sim: SimConfig{
			Enabled:        v.GetBool("SIM_ENABLED"),
			Port:           v.GetString("SIM_PORT"),
			LockTTL:        v.GetDuration("SIM_LOCK_TTL"),
			DeclineMethods: splitList(v.GetString("SIM_DECLINE_METHODS")),
		},
	}

	return config, nil
}

// splitList parses "a, b,c" into its non-empty trimmed parts.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
