package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/DavidK2709/dcbot/internal/domain"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Bot     BotConfig

	Departments map[string]domain.Department
	Reasons     domain.ReasonCatalog
}

// AppConfig controls the admin HTTP surface.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds persistence file locations.
type StorageConfig struct {
	TicketsPath    string
	ArchivePath    string
	BackupDir      string
	BackupSchedule string
}

// RedisConfig holds Redis connection values for the member cache.
type RedisConfig struct {
	Addr             string
	Password         string
	DB               int
	MemberTTLSeconds int
}

// AuthConfig defines admin API authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// BotConfig holds channel routing and behavior tuning.
type BotConfig struct {
	TriggerChannelID         string
	FormChannelID            string
	LogChannelID             string
	IntakeAuthorID           string
	AdminRoles               []string
	RescueRoles              []string
	Timezone                 string
	AppointmentOffsetMinutes int
	RenameDelaySeconds       int
	MaxRetries               int
	InitBatchSize            int
	InitBatchPauseMillis     int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	departments, err := parseDepartments(os.Getenv("DEPARTMENTS"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEPARTMENTS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "treatment-ticket-bot"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "8080"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			TicketsPath:    getEnv("TICKETS_FILE", "database/tickets.json"),
			ArchivePath:    getEnv("ARCHIVE_FILE", "database/archive_tickets.json"),
			BackupDir:      getEnv("BACKUP_DIR", "database/backups/corrupted_files"),
			BackupSchedule: getEnv("BACKUP_SCHEDULE", "@every 6h"),
		},
		Redis: RedisConfig{
			Addr:             getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:         os.Getenv("REDIS_PASSWORD"),
			DB:               redisDB,
			MemberTTLSeconds: getEnvAsInt("REDIS_MEMBER_TTL_SECONDS", 300),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Bot: BotConfig{
			TriggerChannelID:         os.Getenv("TRIGGER_CHANNEL_ID"),
			FormChannelID:            os.Getenv("FORM_CHANNEL_ID"),
			LogChannelID:             os.Getenv("LOG_CHANNEL_ID"),
			IntakeAuthorID:           os.Getenv("INTAKE_AUTHOR_ID"),
			AdminRoles:               splitList(os.Getenv("ADMIN_ROLES")),
			RescueRoles:              splitList(os.Getenv("RESCUE_ROLES")),
			Timezone:                 getEnv("BOT_TIMEZONE", "Europe/Berlin"),
			AppointmentOffsetMinutes: getEnvAsInt("APPOINTMENT_OFFSET_MINUTES", 30),
			RenameDelaySeconds:       getEnvAsInt("RENAME_DELAY_SECONDS", 3),
			MaxRetries:               getEnvAsInt("PLATFORM_MAX_RETRIES", 3),
			InitBatchSize:            getEnvAsInt("INIT_BATCH_SIZE", 10),
			InitBatchPauseMillis:     getEnvAsInt("INIT_BATCH_PAUSE_MILLIS", 1000),
		},
		Departments: departments,
		Reasons:     DefaultReasons(),
	}

	return cfg, nil
}

// Addr returns the HTTP bind address of the admin API.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// MemberTTL returns the member cache lifetime.
func (r RedisConfig) MemberTTL() time.Duration {
	if r.MemberTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(r.MemberTTLSeconds) * time.Second
}

// RenameDelay returns the courtesy delay before deferred channel renames.
func (b BotConfig) RenameDelay() time.Duration {
	if b.RenameDelaySeconds < 0 {
		return 0
	}
	return time.Duration(b.RenameDelaySeconds) * time.Second
}

// InitBatchPause returns the pause between reconciliation batches.
func (b BotConfig) InitBatchPause() time.Duration {
	if b.InitBatchPauseMillis < 0 {
		return 0
	}
	return time.Duration(b.InitBatchPauseMillis) * time.Millisecond
}

// Location resolves the configured timezone, falling back to UTC.
func (b BotConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultReasons is the static catalog of known automatic-ticket reasons.
func DefaultReasons() domain.ReasonCatalog {
	return domain.ReasonCatalog{
		"ticket_arbeitsmedizinisches_pol": {
			InternalKey: "gutachten-polizei-patient",
			DisplayName: "Arbeitsmedizinisches Gutachten Polizeibewerber",
			Price:       5000,
		},
		"ticket_arbeitsmedizinisches_jva": {
			InternalKey: "gutachten-jva-patient",
			DisplayName: "Arbeitsmedizinisches Gutachten JVA/Wachschutz",
			Price:       5000,
		},
		"ticket_arbeitsmedizinisches_ammunation": {
			InternalKey: "gutachten-ammunation-patient",
			DisplayName: "Arbeitsmedizinisches Gutachten Ammunation",
			Price:       2500,
		},
		"ticket_arbeitsmedizinisches_mediziner": {
			InternalKey: "gutachten-mediziner-patient",
			DisplayName: "Arbeitsmedizinisches Gutachten Mediziner",
			Price:       0,
		},
		"ticket_psychologie_bundeswehr": {
			InternalKey: "gutachten-bundeswehr-patient",
			DisplayName: "Psychologisches Gutachten Bundeswehr",
			Price:       5000,
		},
		"ticket_psychologie_jva": {
			InternalKey: "gutachten-jva-patient",
			DisplayName: "Psychologisches Gutachten JVA",
			Price:       5000,
		},
	}
}

func parseDepartments(raw string) (map[string]domain.Department, error) {
	departments := map[string]domain.Department{}
	if strings.TrimSpace(raw) == "" {
		return departments, nil
	}
	if err := json.Unmarshal([]byte(raw), &departments); err != nil {
		return nil, err
	}
	for name, dept := range departments {
		dept.Name = name
		departments[name] = dept
	}
	return departments, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
