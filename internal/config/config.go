package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Office       OfficeConfig
	Retention    RetentionConfig
	Registration RegistrationConfig
	Admin        AdminConfig
	JWT          JWTConfig
	Server       ServerConfig
	Redis        RedisConfig
	Slack        SlackConfig
	Log          LogConfig
}

// OfficeConfig describes the single site check-ins are admitted for.
type OfficeConfig struct {
	Name          string
	NetworkPrefix string
	Lat           float64
	Lng           float64
	RadiusMeters  float64
}

// RetentionConfig bounds the in-memory buffers.
type RetentionConfig struct {
	AuditEntries     int
	PositionSamples  int
	RecordRejections bool
}

// RegistrationConfig holds self-registration defaults.
type RegistrationConfig struct {
	IDPattern           *regexp.Regexp
	DefaultCompensation float64
	DefaultDepartment   string
}

// AdminConfig seeds a bootstrap administrator when Email and Secret are set.
type AdminConfig struct {
	ID     string
	Name   string
	Email  string
	Secret string //nolint:gosec // G117: bootstrap credential config
}

// Enabled reports whether a bootstrap administrator should be provisioned.
func (a AdminConfig) Enabled() bool {
	return a.Email != "" && a.Secret != ""
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret string //nolint:gosec // G117: JWT signing secret config
	TTL    time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	MetricsAddr  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// RedisConfig holds Redis connection settings. An empty Addr disables live
// position fan-out.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// SlackConfig holds Slack integration settings. BotToken and Channel are
// needed for leave notifications. AlertChannel receives denied admissions and
// defaults to Channel.
type SlackConfig struct {
	BotToken     string
	Channel      string
	AlertChannel string
}

// Enabled reports whether Slack notifications are configured.
func (s SlackConfig) Enabled() bool {
	return s.BotToken != "" && s.Channel != ""
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. The JWT secret must always
// be set explicitly.
func Load() (*Config, error) {
	lat, err := getEnvFloat("ATTENDANCE_OFFICE_LAT", 40.7128)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	lng, err := getEnvFloat("ATTENDANCE_OFFICE_LNG", -74.0060)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	radius, err := getEnvFloat("ATTENDANCE_OFFICE_RADIUS_METERS", 100)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	auditRetention, err := getEnvInt("ATTENDANCE_AUDIT_RETENTION", 1000)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	positionRetention, err := getEnvInt("ATTENDANCE_POSITION_RETENTION", 5000)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	recordRejections, err := getEnvBool("ATTENDANCE_RECORD_REJECTIONS", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	compensation, err := getEnvFloat("ATTENDANCE_DEFAULT_COMPENSATION", 35000)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	idPattern, err := getEnvRegexp("ATTENDANCE_ID_PATTERN", `^E\d{4}$`)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	jwtTTL, err := getEnvDuration("ATTENDANCE_JWT_TTL", 60*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("ATTENDANCE_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("ATTENDANCE_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("ATTENDANCE_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	slackChannel := getEnv("ATTENDANCE_SLACK_CHANNEL", "")

	cfg := &Config{
		Office: OfficeConfig{
			Name:          getEnv("ATTENDANCE_OFFICE_NAME", "Exord HQ"),
			NetworkPrefix: getEnv("ATTENDANCE_OFFICE_NETWORK_PREFIX", "192.168.1"),
			Lat:           lat,
			Lng:           lng,
			RadiusMeters:  radius,
		},
		Retention: RetentionConfig{
			AuditEntries:     auditRetention,
			PositionSamples:  positionRetention,
			RecordRejections: recordRejections,
		},
		Registration: RegistrationConfig{
			IDPattern:           idPattern,
			DefaultCompensation: compensation,
			DefaultDepartment:   getEnv("ATTENDANCE_DEFAULT_DEPARTMENT", "General Staff"),
		},
		Admin: AdminConfig{
			ID:     getEnv("ATTENDANCE_ADMIN_ID", "E0001"),
			Name:   getEnv("ATTENDANCE_ADMIN_NAME", "Exord Administrator"),
			Email:  getEnv("ATTENDANCE_ADMIN_EMAIL", ""),
			Secret: getEnv("ATTENDANCE_ADMIN_SECRET", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("ATTENDANCE_JWT_SECRET", ""),
			TTL:    jwtTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("ATTENDANCE_SERVER_ADDR", ":8080"),
			MetricsAddr:  getEnv("ATTENDANCE_METRICS_ADDR", ":9090"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  getEnvList("ATTENDANCE_CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Redis: RedisConfig{
			Addr:     getEnv("ATTENDANCE_REDIS_ADDR", ""),
			Password: getEnv("ATTENDANCE_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Slack: SlackConfig{
			BotToken:     getEnv("ATTENDANCE_SLACK_BOT_TOKEN", ""),
			Channel:      slackChannel,
			AlertChannel: getEnv("ATTENDANCE_SLACK_ALERT_CHANNEL", slackChannel),
		},
		Log: LogConfig{
			Level:  getEnv("ATTENDANCE_LOG_LEVEL", "info"),
			Format: getEnv("ATTENDANCE_LOG_FORMAT", "json"),
			File:   getEnv("ATTENDANCE_LOG_FILE", ""),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("ATTENDANCE_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("ATTENDANCE_JWT_SECRET must be at least 32 characters")
	}

	if c.Office.NetworkPrefix == "" {
		return errors.New("ATTENDANCE_OFFICE_NETWORK_PREFIX must not be empty")
	}
	if math.IsNaN(c.Office.Lat) || c.Office.Lat < -90 || c.Office.Lat > 90 {
		return fmt.Errorf("ATTENDANCE_OFFICE_LAT must be within [-90, 90], got %v", c.Office.Lat)
	}
	if math.IsNaN(c.Office.Lng) || c.Office.Lng < -180 || c.Office.Lng > 180 {
		return fmt.Errorf("ATTENDANCE_OFFICE_LNG must be within [-180, 180], got %v", c.Office.Lng)
	}
	if !(c.Office.RadiusMeters > 0) || math.IsInf(c.Office.RadiusMeters, 1) {
		return fmt.Errorf("ATTENDANCE_OFFICE_RADIUS_METERS must be positive, got %v", c.Office.RadiusMeters)
	}

	if c.Retention.AuditEntries < 1 {
		return fmt.Errorf("ATTENDANCE_AUDIT_RETENTION must be >= 1, got %d", c.Retention.AuditEntries)
	}
	if c.Retention.PositionSamples < 1 {
		return fmt.Errorf("ATTENDANCE_POSITION_RETENTION must be >= 1, got %d", c.Retention.PositionSamples)
	}
	if c.Registration.DefaultCompensation < 0 {
		return fmt.Errorf("ATTENDANCE_DEFAULT_COMPENSATION must not be negative, got %v", c.Registration.DefaultCompensation)
	}

	if c.JWT.TTL <= 0 {
		return fmt.Errorf("ATTENDANCE_JWT_TTL must be positive, got %s", c.JWT.TTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("ATTENDANCE_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("ATTENDANCE_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}

	if c.Admin.Email != "" && c.Admin.Secret == "" {
		return errors.New("ATTENDANCE_ADMIN_SECRET is required when ATTENDANCE_ADMIN_EMAIL is set")
	}
	if c.Admin.Secret != "" && len(c.Admin.Secret) < 8 {
		log.Warn().Msg("ATTENDANCE_ADMIN_SECRET is shorter than 8 characters")
	}
	if (c.Slack.BotToken == "") != (c.Slack.Channel == "") {
		log.Warn().Msg("Slack notifications need both ATTENDANCE_SLACK_BOT_TOKEN and ATTENDANCE_SLACK_CHANNEL; disabled")
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("ATTENDANCE_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvRegexp(key, fallback string) (*regexp.Regexp, error) {
	v := getEnv(key, fallback)
	re, err := regexp.Compile(v)
	if err != nil {
		return nil, fmt.Errorf("parsing %s=%q as regexp: %w", key, v, err)
	}
	return re, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
