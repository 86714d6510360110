package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

// Supported mail transports.
const (
	MailTransportSMTP     = "smtp"
	MailTransportSendGrid = "sendgrid"
	MailTransportConsole  = "console"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	StoreDriver string
	Database    DatabaseConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Mail        MailConfig
	Notify      NotifyConfig
	Scheduler   SchedulerConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// MongoConfig points at the document store used by the original deployment.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MailConfig selects the transport and carries the sender identity and credentials.
type MailConfig struct {
	Transport      string
	FromName       string
	FromAddress    string
	Locale         string
	Timezone       string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	SendGridAPIKey string
	SendGridHost   string
}

// NotifyConfig bounds the notification fan-out.
type NotifyConfig struct {
	Concurrency  int
	SendTimeout  time.Duration
	QueueWorkers int
	QueueRetries int
}

// SchedulerConfig holds the cron expressions of the recurring jobs.
type SchedulerConfig struct {
	Enabled      bool
	ReminderCron string
	SweeperCron  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.StoreDriver = strings.ToLower(v.GetString("STORE_DRIVER"))

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Mongo = MongoConfig{
		URI:      v.GetString("MONGODB_URI"),
		Database: v.GetString("MONGODB_DATABASE"),
		Timeout:  parseDuration(v.GetString("MONGODB_TIMEOUT"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		CacheTTL: parseDuration(v.GetString("HOMEWORK_CACHE_TTL"), 2*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Mail = MailConfig{
		Transport:      strings.ToLower(v.GetString("MAIL_TRANSPORT")),
		FromName:       v.GetString("MAIL_FROM_NAME"),
		FromAddress:    v.GetString("MAIL_FROM_ADDRESS"),
		Locale:         strings.ToLower(v.GetString("MAIL_LOCALE")),
		Timezone:       v.GetString("MAIL_TIMEZONE"),
		SMTPHost:       v.GetString("SMTP_HOST"),
		SMTPPort:       v.GetInt("SMTP_PORT"),
		SMTPUsername:   v.GetString("SMTP_USERNAME"),
		SMTPPassword:   v.GetString("SMTP_PASSWORD"),
		SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
		SendGridHost:   v.GetString("SENDGRID_HOST"),
	}

	cfg.Notify = NotifyConfig{
		Concurrency:  v.GetInt("NOTIFY_CONCURRENCY"),
		SendTimeout:  parseDuration(v.GetString("NOTIFY_SEND_TIMEOUT"), 15*time.Second),
		QueueWorkers: v.GetInt("NOTIFY_QUEUE_WORKERS"),
		QueueRetries: v.GetInt("NOTIFY_QUEUE_RETRIES"),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled:      v.GetBool("ENABLE_SCHEDULER"),
		ReminderCron: v.GetString("REMINDER_CRON"),
		SweeperCron:  v.GetString("SWEEPER_CRON"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "homework_tracker")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "homework-tracker")
	v.SetDefault("MONGODB_TIMEOUT", "10s")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("HOMEWORK_CACHE_TTL", "2m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MAIL_TRANSPORT", MailTransportConsole)
	v.SetDefault("MAIL_FROM_NAME", "Rappel de Devoirs")
	v.SetDefault("MAIL_FROM_ADDRESS", "no-reply@localhost")
	v.SetDefault("MAIL_LOCALE", "fr")
	v.SetDefault("MAIL_TIMEZONE", "Europe/Paris")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("SENDGRID_HOST", "https://api.sendgrid.com")

	v.SetDefault("NOTIFY_CONCURRENCY", 8)
	v.SetDefault("NOTIFY_SEND_TIMEOUT", "15s")
	v.SetDefault("NOTIFY_QUEUE_WORKERS", 2)
	v.SetDefault("NOTIFY_QUEUE_RETRIES", 3)

	v.SetDefault("ENABLE_SCHEDULER", true)
	v.SetDefault("REMINDER_CRON", "0 */4 * * *")
	v.SetDefault("SWEEPER_CRON", "0 0 * * *")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
