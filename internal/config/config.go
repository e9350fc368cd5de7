package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"molttactics/internal/domain/arena"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

func (c S3Config) Enabled() bool { return c.Bucket != "" }

type Config struct {
	Port     string
	Env      string
	LogLevel string

	TurnInterval      time.Duration
	FinishedRetention time.Duration

	StoreBackend string
	DataDir      string
	DBPath       string
	DatabaseURL  string
	RedisURL     string

	ArchiveDir string
	S3         S3Config

	AuthDisabled bool
	DebugTicks   bool
	DebugResolve bool

	TuningPath string
	Rules      arena.Rules
}

// Load reads .env (if present) and the process environment, then overlays
// the optional tuning file onto the default rules.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:              getEnv("PORT", "3000"),
		Env:               getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		TurnInterval:      time.Duration(intEnv("TURN_MS", 300_000)) * time.Millisecond,
		FinishedRetention: time.Duration(intEnv("FINISHED_RETENTION_MS", 600_000)) * time.Millisecond,
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DataDir:           getEnv("DATA_DIR", "./data"),
		DBPath:            getEnv("DB_PATH", "./data/molt.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		ArchiveDir:        getEnv("ARCHIVE_DIR", "./data/replays"),
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "auto"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("S3_PREFIX", "replays/"),
		},
		AuthDisabled: boolEnv("AUTH_DISABLED"),
		DebugTicks:   boolEnv("DEBUG_TICKS"),
		DebugResolve: boolEnv("DEBUG_RESOLVE"),
		TuningPath:   getEnv("TUNING_PATH", ""),
	}

	rules, err := LoadRules(cfg.TuningPath)
	if err != nil {
		return Config{}, err
	}
	cfg.Rules = rules

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for STORE_BACKEND=%s", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.TurnInterval <= 0 {
		return fmt.Errorf("TURN_MS must be positive")
	}
	return nil
}

// LoadRules returns the default rules overlaid with the YAML file at path.
// Keys missing from the file keep their defaults.
func LoadRules(path string) (arena.Rules, error) {
	rules := arena.DefaultRules()
	if path == "" {
		return rules, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return arena.Rules{}, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return arena.Rules{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return arena.Rules{}, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func boolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
