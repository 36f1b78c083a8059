package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSQL   = "sql"
	BackendRedis = "redis"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	AppPort  string
	Env      string
	LogLevel string

	APIURL     string
	LoanAPIURL string
	APITimeout time.Duration

	// StoreBackend selects where session/preference documents live.
	StoreBackend string
	StoreDriver  string
	SQLitePath   string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ActionGuardTTLSecs int
	LinkPace           time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

// Load reads the environment, after applying an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		Env:      getenv("APP_ENV", "development"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		APIURL:     getenv("API_URL", "http://localhost:3001/api"),
		LoanAPIURL: getenv("LOAN_API_URL", "http://localhost:5002"),
		APITimeout: getenvDuration("API_TIMEOUT", 30*time.Second),

		StoreBackend: getenv("STORE_BACKEND", BackendSQL),
		StoreDriver:  getenv("STORE_DRIVER", DriverSQLite),
		SQLitePath:   getenv("SQLITE_PATH", "altrion.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "altrion"),
		MySQLUser: getenv("MYSQL_USER", "altrion"),
		MySQLPass: getenv("MYSQL_PASS", "altrion"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		ActionGuardTTLSecs: getenvInt("ACTION_GUARD_TTL_SECONDS", 60),
		LinkPace:           getenvDuration("LINK_PACE", 500*time.Millisecond),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	for name, raw := range map[string]string{"API_URL": c.APIURL, "LOAN_API_URL": c.LoanAPIURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}
	if c.APITimeout <= 0 {
		return errors.New("API_TIMEOUT must be positive")
	}
	switch c.StoreBackend {
	case BackendSQL, BackendRedis:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreBackend == BackendRedis && c.RedisAddr == "" {
		return errors.New("STORE_BACKEND=redis requires REDIS_ADDR")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

// DSN returns the connection string for the configured SQL driver.
func (c *Config) DSN() string {
	if c.StoreDriver == DriverSQLite {
		return c.SQLitePath
	}
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) ActionGuardTTL() time.Duration {
	return time.Duration(c.ActionGuardTTLSecs) * time.Second
}
