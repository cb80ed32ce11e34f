package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	CORS      CORSConfig
	S3        S3Config
	Redis     RedisConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
	Bootstrap BootstrapConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SessionConfig 세션 쿠키 설정. Secret이 비어 있으면 모든 세션 검증이 실패한다.
type SessionConfig struct {
	Secret     string
	TTLDays    int
	CookieName string
	Secure     bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// S3Config 업로드된 판매일보 원본 보관용. Bucket이 비어 있으면 보관하지 않는다.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// RedisConfig 분산 락용. Host가 비어 있으면 락 없이 동작한다.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type SheetsConfig struct {
	FetchTimeout time.Duration
	MaxBytes     int64
}

type SchedulerConfig struct {
	MaintenanceSpec   string
	OrphanGracePeriod time.Duration
}

// BootstrapConfig 최초 기동 시 생성할 super_admin 계정
type BootstrapConfig struct {
	LoginID  string
	Password string
	Name     string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "phonedesk"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			TTLDays:    parseInt(getEnv("SESSION_TTL_DAYS", "7"), 7),
			CookieName: getEnv("SESSION_COOKIE_NAME", "pd_session"),
			Secure:     parseBool(getEnv("SESSION_COOKIE_SECURE", "false")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("AWS_S3_LEDGER_PREFIX", "ledgers"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
			LockTTL:  parseDuration(getEnv("REDIS_LOCK_TTL", "30s"), 30*time.Second),
		},
		Sheets: SheetsConfig{
			FetchTimeout: parseDuration(getEnv("SHEETS_FETCH_TIMEOUT", "15s"), 15*time.Second),
			MaxBytes:     int64(parseInt(getEnv("SHEETS_MAX_BYTES", "10485760"), 10<<20)),
		},
		Scheduler: SchedulerConfig{
			MaintenanceSpec:   getEnv("MAINTENANCE_CRON", "*/30 * * * *"),
			OrphanGracePeriod: parseDuration(getEnv("ORPHAN_GRACE_PERIOD", "10m"), 10*time.Minute),
		},
		Bootstrap: BootstrapConfig{
			LoginID:  getEnv("BOOTSTRAP_ADMIN_LOGIN_ID", ""),
			Password: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
			Name:     getEnv("BOOTSTRAP_ADMIN_NAME", "관리자"),
		},
	}

	if config.Session.Secret == "" {
		log.Println("SESSION_SECRET is not set; every login session will be rejected")
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c *S3Config) Enabled() bool {
	return c.Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
