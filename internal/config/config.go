package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Admin accounts promoted on registration
	AdminEmails string

	// Server
	Port        string
	CORSOrigins string

	// Report intake
	ProofMaxBytes   int64
	ScamDateMinYear int

	// Proof storage: "local" or "s3"
	ProofStorage  string
	ProofLocalDir string
	S3Bucket      string
	S3Prefix      string
	AWSRegion     string

	// Login lockout counters; empty RedisURL keeps them in memory
	RedisURL         string
	LoginMaxFailures int
	LoginLockout     time.Duration

	LogLevel         string
	LogRetentionDays int
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "scamwatch"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		ProofMaxBytes:   parseInt64(getEnv("PROOF_MAX_BYTES", ""), 10<<20),
		ScamDateMinYear: parseInt(getEnv("SCAM_DATE_MIN_YEAR", ""), 2000),

		ProofStorage:  getEnv("PROOF_STORAGE", "local"),
		ProofLocalDir: getEnv("PROOF_LOCAL_DIR", "uploads"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Prefix:      getEnv("S3_PREFIX", ""),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),

		RedisURL:         getEnv("REDIS_URL", ""),
		LoginMaxFailures: parseInt(getEnv("LOGIN_MAX_FAILURES", ""), 5),
		LoginLockout:     parseDuration(getEnv("LOGIN_LOCKOUT", "15m"), 15*time.Minute),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", ""), 30),
	}
}

// Validate reports the first setting that prevents the server from starting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if c.DBPassword == "" {
		return errors.New("DB_PASSWORD environment variable is required")
	}
	if c.ProofMaxBytes <= 0 {
		return errors.New("PROOF_MAX_BYTES must be positive")
	}
	if c.ScamDateMinYear < 1900 || c.ScamDateMinYear > time.Now().Year() {
		return errors.New("SCAM_DATE_MIN_YEAR is out of range")
	}
	switch c.ProofStorage {
	case "local":
		if c.ProofLocalDir == "" {
			return errors.New("PROOF_LOCAL_DIR is required for local proof storage")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for s3 proof storage")
		}
	default:
		return errors.New("PROOF_STORAGE must be local or s3")
	}
	if c.LoginMaxFailures < 1 {
		return errors.New("LOGIN_MAX_FAILURES must be at least 1")
	}
	return nil
}

// ScamDateFloor is the earliest scam date accepted at intake.
func (c *Config) ScamDateFloor() time.Time {
	return time.Date(c.ScamDateMinYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// AdminEmailList returns the normalized ADMIN_EMAILS entries.
func (c *Config) AdminEmailList() []string {
	if c.AdminEmails == "" {
		return nil
	}
	parts := strings.Split(c.AdminEmails, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
