package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	AppPort  string
	LogLevel string

	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// empty RedisAddr disables the idempotency middleware
	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret   string
	JWTTTLHours int

	UploadDir           string
	DefaultInterestRate float64
	ReceiptPrefix       string

	AdminName     string
	AdminPhone    string
	AdminEmail    string
	AdminPassword string

	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	SMSEnabled bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func getfloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

// LoadDotenv reads the given .env files (default ".env") into the process
// environment. A missing file is not an error; existing variables win.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func Load() *Config {
	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		SQLitePath: getenv("SQLITE_PATH", "udhar.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "udhar"),
		MySQLUser: getenv("MYSQL_USER", "udhar"),
		MySQLPass: getenv("MYSQL_PASS", "udhar"),

		RedisAddr:    getenv("REDIS_ADDR", ""),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret:   getenv("JWT_SECRET", ""),
		JWTTTLHours: getint("JWT_TTL_HOURS", 24),

		UploadDir:           getenv("UPLOAD_DIR", "uploads"),
		DefaultInterestRate: getfloat("DEFAULT_INTEREST_RATE", 0.10),
		ReceiptPrefix:       getenv("RECEIPT_PREFIX", "TXN-"),

		AdminName:     getenv("ADMIN_NAME", "Admin"),
		AdminPhone:    getenv("ADMIN_PHONE", "0000000000"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),

		SMTPEnabled:  getbool("SMTP_ENABLED", false),
		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getint("SMTP_PORT", 587),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", ""),

		SMSEnabled: getbool("SMS_ENABLED", false),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or mysql)", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.JWTTTLHours <= 0 {
		return fmt.Errorf("invalid JWT_TTL_HOURS %d", c.JWTTTLHours)
	}
	if c.DefaultInterestRate < 0 {
		return fmt.Errorf("invalid DEFAULT_INTEREST_RATE %v", c.DefaultInterestRate)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if c.SMTPEnabled && (c.SMTPHost == "" || c.SMTPFrom == "") {
		return errors.New("SMTP_ENABLED requires SMTP_HOST and SMTP_FROM")
	}
	return nil
}

func (c *Config) JWTTTL() time.Duration { return time.Duration(c.JWTTTLHours) * time.Hour }

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// SQLiteDSN enables foreign keys and a busy timeout on every connection.
func (c *Config) SQLiteDSN() string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.SQLitePath)
}
