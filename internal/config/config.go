package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	dirName    = ".equipt"
	dbFileName = "equipt.db"
)

// Config is everything the binary needs before it touches the ledger.
type Config struct {
	DBPath    string // SQLite file holding the items table
	SitesFile string // optional JSON/YAML override of the bundled site list
	Theme     string // classic | neon | mono
	Currency  string // ISO 4217 code used to display the total
	LogLevel  string
	LogFile   string
}

// Load reads the environment, optionally seeded from envFile (or ./.env
// when envFile is empty), and fills defaults. An explicit envFile must
// exist. The result is not validated: callers apply their overrides and
// then call Validate.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	dbPath := os.Getenv("EQUIPT_DB")
	if dbPath == "" {
		p, err := defaultDBPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	cfg := &Config{
		DBPath:    dbPath,
		SitesFile: os.Getenv("EQUIPT_SITES"),
		Theme:     getenvWithDefault("EQUIPT_THEME", "classic"),
		Currency:  getenvWithDefault("EQUIPT_CURRENCY", "USD"),
		LogLevel:  getenvWithDefault("EQUIPT_LOG_LEVEL", "warn"),
		LogFile:   os.Getenv("EQUIPT_LOG_FILE"),
	}
	return cfg, nil
}

// Validate checks the fields and normalizes case.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("EQUIPT_DB must not be empty")
	}

	c.Theme = strings.ToLower(c.Theme)
	switch c.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", c.Theme)
	}

	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if len(c.Currency) != 3 {
		return fmt.Errorf("currency %q must be a 3-letter ISO code", c.Currency)
	}
	return nil
}

// EnsureDBDir creates the directory holding the database file.
func (c *Config) EnsureDBDir() error {
	dir := filepath.Dir(c.DBPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName, dbFileName), nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
