package pgutil

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// Config describes a postgres connection. Empty fields fall back to the
// PG_* environment variables and then to local defaults.
type Config struct {
	Host     string `yaml:"host"     envconfig:"PG_HOST"`
	Port     string `yaml:"port"     envconfig:"PG_PORT"`
	User     string `yaml:"user"     envconfig:"PG_USER"`
	Password string `yaml:"password" envconfig:"PG_PASS"`
	DBName   string `yaml:"dbName"   envconfig:"PG_DB_NAME"`
	SSLMode  string `yaml:"sslMode"  envconfig:"PG_SSL_MODE"`
}

func (c *Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		or(c.Host, "PG_HOST", "localhost"),
		or(c.Port, "PG_PORT", "5432"),
		or(c.User, "PG_USER", "postgres"),
		or(c.Password, "PG_PASS", ""),
		or(c.DBName, "PG_DB_NAME", "postgres"),
		or(c.SSLMode, "PG_SSL_MODE", "disable"),
	)
}

func Open(c *Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.dsn())
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	return db, nil
}

func OpenPing(c *Config) (*sql.DB, error) {
	db, err := Open(c)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres database: %w", err)
	}
	return db, nil
}

// OpenEnvPing connects using only the environment.
func OpenEnvPing() (*sql.DB, error) { return OpenPing(&Config{}) }

func or(value, env, def string) string {
	if value != "" {
		return value
	}
	if x := os.Getenv(env); x != "" {
		return x
	}
	return def
}
