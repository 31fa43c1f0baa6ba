package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"funnelboard/models"
)

var (
	DB        *gorm.DB
	AppConfig Config
	envLoaded bool
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type AlertConfig struct {
	Enabled    bool     `json:"enabled"`
	SMTPHost   string   `json:"smtp_host"`
	SMTPPort   int      `json:"smtp_port"`
	SMTPUser   string   `json:"smtp_user"`
	SMTPPass   string   `json:"-"`
	FromEmail  string   `json:"from_email"`
	Recipients []string `json:"recipients"`
}

type Config struct {
	Environment string `json:"environment"`
	ServerPort  string `json:"server_port"`

	// Upstream CRM API
	CRMBaseURL        string `json:"crm_base_url"`
	CRMToken          string `json:"-"`
	CRMTimeoutSeconds int    `json:"crm_timeout_seconds"`
	CRMActivityLimit  int    `json:"crm_activity_limit"`

	// Snapshot history store
	DBHost         string `json:"db_host"`
	DBPort         string `json:"db_port"`
	DBUser         string `json:"db_user"`
	DBPassword     string `json:"-"`
	DBName         string `json:"db_name"`
	DBSSLMode      string `json:"db_ssl_mode"`
	DBMaxIdleConns int    `json:"db_max_idle_conns"`
	DBMaxOpenConns int    `json:"db_max_open_conns"`

	Redis  RedisConfig `json:"redis"`
	Alerts AlertConfig `json:"alerts"`

	// Aggregation tuning
	PerformanceCacheTTLSeconds int `json:"performance_cache_ttl_seconds"`
	SQLNotesMinLen             int `json:"sql_notes_min_len"`
	SnapshotIntervalMinutes    int `json:"snapshot_interval_minutes"`
	LiveRefreshSeconds         int `json:"live_refresh_seconds"`
	StalledDays                int `json:"stalled_days"`
	ConnectRateAlertThreshold  int `json:"connect_rate_alert_threshold"`

	RateLimitPerMinute int      `json:"rate_limit_per_minute"`
	AllowedOrigins     []string `json:"allowed_origins"`
	SentryDSN          string   `json:"-"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
	envLoaded = true
}

func LoadConfig() error {
	AppConfig = Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("SERVER_PORT", "5000"),

		CRMBaseURL:        getEnv("CRM_API_BASE_URL", ""),
		CRMToken:          getEnv("CRM_API_TOKEN", ""),
		CRMTimeoutSeconds: getEnvAsInt("CRM_TIMEOUT_SECONDS", 30),
		CRMActivityLimit:  getEnvAsInt("CRM_ACTIVITY_LIMIT", 10000),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "funnelboard"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),

		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},

		Alerts: AlertConfig{
			Enabled:    getEnvAsBool("ALERTS_ENABLED", false),
			SMTPHost:   getEnv("SMTP_HOST", ""),
			SMTPPort:   getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:   getEnv("SMTP_USERNAME", ""),
			SMTPPass:   getEnv("SMTP_PASSWORD", ""),
			FromEmail:  getEnv("ALERT_FROM_EMAIL", "alerts@funnelboard.local"),
			Recipients: splitCSV(getEnv("ALERT_RECIPIENTS", "")),
		},

		PerformanceCacheTTLSeconds: getEnvAsInt("PERFORMANCE_CACHE_TTL_SECONDS", 60),
		SQLNotesMinLen:             getEnvAsInt("SQL_NOTES_MIN_LEN", 50),
		SnapshotIntervalMinutes:    getEnvAsInt("SNAPSHOT_INTERVAL_MINUTES", 60),
		LiveRefreshSeconds:         getEnvAsInt("LIVE_REFRESH_SECONDS", 30),
		StalledDays:                getEnvAsInt("STALLED_DAYS", 7),
		ConnectRateAlertThreshold:  getEnvAsInt("CONNECT_RATE_ALERT_THRESHOLD", 10),

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		AllowedOrigins:     splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
	}

	// Validate required configurations
	if AppConfig.CRMBaseURL == "" {
		return fmt.Errorf("CRM_API_BASE_URL is required")
	}
	if AppConfig.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if AppConfig.Alerts.Enabled {
		if AppConfig.Alerts.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when alerts are enabled")
		}
		if len(AppConfig.Alerts.Recipients) == 0 {
			return fmt.Errorf("ALERT_RECIPIENTS is required when alerts are enabled")
		}
	}

	logConfig()
	return nil
}

func ConnectDB() error {
	log.Println("Attempting to connect to database...")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)
	log.Println("Using connection string:", maskPassword(dsn))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	log.Println("✅ Successfully connected to the database")
	log.Println("🔄 Starting database migration...")
	if err := DB.AutoMigrate(&models.FunnelSnapshot{}); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	log.Println("✅ Database migration completed")
	return nil
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if !envLoaded && fallback == "" {
		log.Printf("⚠️ Environment variable %s not found and no fallback provided", key)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(getEnv(key, "")) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

func logConfig() {
	log.Println("🔧 Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("CRM API: %s (timeout %ds, activity limit %d)",
		AppConfig.CRMBaseURL,
		AppConfig.CRMTimeoutSeconds,
		AppConfig.CRMActivityLimit)
	log.Printf("Database: %s@%s:%s/%s",
		AppConfig.DBUser,
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBName)
	log.Printf("Redis cache: %t, alerts: %t", AppConfig.Redis.Enabled, AppConfig.Alerts.Enabled)
}
