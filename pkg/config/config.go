package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const insecureDefaultSecret = "supersecretjwtkey"

type Config struct {
	Port                    string        `yaml:"port"`
	Env                     string        `yaml:"env"`
	LogLevel                string        `yaml:"log_level"`
	FirebaseCredentialsPath string        `yaml:"firebase_credentials_path"`
	PostgresConnStr         string        `yaml:"postgres_conn_str"`
	MongoURI                string        `yaml:"mongo_uri"`
	MongoDatabase           string        `yaml:"mongo_database"`
	JWTSecret               string        `yaml:"jwt_secret"`
	TokenDuration           time.Duration `yaml:"token_duration"`
	APITimeout              time.Duration `yaml:"timeout"`
	Discovery               Discovery     `yaml:"discovery"`
}

type Discovery struct {
	MatchPageSize      int `yaml:"match_page_size"`
	TrendingSampleSize int `yaml:"trending_sample_size"`
	TrendingTopN       int `yaml:"trending_top_n"`
}

// Load builds the configuration from the environment (after reading .env
// when present) and then overlays the YAML file at path, if any.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "neighborly"),
		JWTSecret:               getEnv("JWT_SECRET", insecureDefaultSecret),
		TokenDuration:           getEnvDuration("TOKEN_DURATION", 72*time.Hour),
		APITimeout:              getEnvDuration("API_TIMEOUT", 15*time.Second),
		Discovery: Discovery{
			MatchPageSize:      getEnvInt("MATCH_PAGE_SIZE", 6),
			TrendingSampleSize: getEnvInt("TRENDING_SAMPLE_SIZE", 100),
			TrendingTopN:       getEnvInt("TRENDING_TOP_N", 5),
		},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate reports the first setting that would keep the server from running safely
func (c *Config) Validate() error {
	if c.PostgresConnStr == "" {
		return errors.New("POSTGRES_CONN_STR is required")
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if c.IsProduction() && c.JWTSecret == insecureDefaultSecret {
		return errors.New("refusing to run in production with the default jwt secret")
	}
	if c.TokenDuration <= 0 || c.APITimeout <= 0 {
		return errors.New("token_duration and timeout must be positive")
	}
	if c.Discovery.MatchPageSize <= 0 || c.Discovery.TrendingSampleSize <= 0 || c.Discovery.TrendingTopN <= 0 {
		return errors.New("discovery sizes must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
