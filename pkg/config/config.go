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

// Wizard store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	BaseURL   string
	SiteName  string

	// Locality, region and phone feed the structured data on public pages.
	SiteLocality  string
	SiteRegion    string
	SiteTelephone string

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Admin        AdminConfig
	CORS         CORSConfig
	Log          LogConfig
	Email        EmailConfig
	Wizard       WizardConfig
	Theme        ThemeConfig
	Confirmation ConfirmationConfig
	Inquiries    InquiriesConfig
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AdminConfig holds the single staff account allowed to read the inquiry log.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EmailConfig identifies the transactional email template used for form delivery.
type EmailConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
}

// WizardConfig tunes the enrollment wizard timings and its session store.
type WizardConfig struct {
	Store         string
	SessionTTL    time.Duration
	SuccessDelay  time.Duration
	ShakeDuration time.Duration
	ToastDuration time.Duration
}

// ThemeConfig lists the skins available for A/B testing.
type ThemeConfig struct {
	Default   string
	Available []string
}

// ConfirmationConfig signs confirmation page links.
type ConfirmationConfig struct {
	Secret string
	TTL    time.Duration
}

// InquiriesConfig governs the asynchronous inquiry log writer.
type InquiriesConfig struct {
	WorkerConcurrency int
	WorkerRetries     int
	RetryDelay        time.Duration
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

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.BaseURL = strings.TrimRight(v.GetString("BASE_URL"), "/")
	cfg.SiteName = v.GetString("SITE_NAME")
	cfg.SiteLocality = v.GetString("SITE_LOCALITY")
	cfg.SiteRegion = v.GetString("SITE_REGION")
	cfg.SiteTelephone = v.GetString("SITE_TELEPHONE")

	cfg.Database = DatabaseConfig{
		Enabled:      v.GetBool("ENABLE_INQUIRY_LOG"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 8*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Admin = AdminConfig{
		Username:     v.GetString("ADMIN_USERNAME"),
		PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Email = EmailConfig{
		Endpoint:   strings.TrimRight(v.GetString("EMAIL_ENDPOINT"), "/"),
		ServiceID:  v.GetString("EMAIL_SERVICE_ID"),
		TemplateID: v.GetString("EMAIL_TEMPLATE_ID"),
		PublicKey:  v.GetString("EMAIL_PUBLIC_KEY"),
		PrivateKey: v.GetString("EMAIL_PRIVATE_KEY"),
	}

	cfg.Wizard = WizardConfig{
		Store:         strings.ToLower(v.GetString("WIZARD_STORE")),
		SessionTTL:    parseDuration(v.GetString("WIZARD_SESSION_TTL"), 2*time.Hour),
		SuccessDelay:  parseDuration(v.GetString("WIZARD_SUCCESS_DELAY"), 1500*time.Millisecond),
		ShakeDuration: parseDuration(v.GetString("WIZARD_SHAKE_DURATION"), 500*time.Millisecond),
		ToastDuration: parseDuration(v.GetString("WIZARD_TOAST_DURATION"), 4*time.Second),
	}
	if cfg.Wizard.Store != StoreRedis {
		cfg.Wizard.Store = StoreMemory
	}

	cfg.Theme = ThemeConfig{
		Default:   v.GetString("THEME_DEFAULT"),
		Available: splitAndTrim(v.GetString("THEMES")),
	}

	cfg.Confirmation = ConfirmationConfig{
		Secret: v.GetString("CONFIRMATION_SECRET"),
		TTL:    parseDuration(v.GetString("CONFIRMATION_TTL"), 30*24*time.Hour),
	}

	cfg.Inquiries = InquiriesConfig{
		WorkerConcurrency: v.GetInt("INQUIRY_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("INQUIRY_WORKER_RETRIES"),
		RetryDelay:        parseDuration(v.GetString("INQUIRY_RETRY_DELAY"), 2*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("SITE_NAME", "Bølgen Svømmeskole")
	v.SetDefault("SITE_LOCALITY", "Bærum")
	v.SetDefault("SITE_REGION", "Akershus")
	v.SetDefault("SITE_TELEPHONE", "")

	v.SetDefault("ENABLE_INQUIRY_LOG", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "swim_school")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "8h")
	v.SetDefault("JWT_ISSUER", "swim-school-site")

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EMAIL_ENDPOINT", "https://api.emailjs.com")
	v.SetDefault("EMAIL_SERVICE_ID", "")
	v.SetDefault("EMAIL_TEMPLATE_ID", "")
	v.SetDefault("EMAIL_PUBLIC_KEY", "")
	v.SetDefault("EMAIL_PRIVATE_KEY", "")

	v.SetDefault("WIZARD_STORE", StoreMemory)
	v.SetDefault("WIZARD_SESSION_TTL", "2h")
	v.SetDefault("WIZARD_SUCCESS_DELAY", "1500ms")
	v.SetDefault("WIZARD_SHAKE_DURATION", "500ms")
	v.SetDefault("WIZARD_TOAST_DURATION", "4s")

	v.SetDefault("THEME_DEFAULT", "classic")
	v.SetDefault("THEMES", "classic,nordic,playful")

	v.SetDefault("CONFIRMATION_SECRET", "dev_confirmation_secret")
	v.SetDefault("CONFIRMATION_TTL", "720h")

	v.SetDefault("INQUIRY_WORKER_CONCURRENCY", 1)
	v.SetDefault("INQUIRY_WORKER_RETRIES", 3)
	v.SetDefault("INQUIRY_RETRY_DELAY", "2s")
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
