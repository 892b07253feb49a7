// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Security SecurityConfig
	Storage  StorageConfig
	Checkout CheckoutConfig
	Payment  PaymentConfig
	Lookup   LookupConfig
	I18n     I18nConfig
	Email    EmailConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name           string
	Version        string
	Environment    string
	Debug          bool
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	CompanyWebsite string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CookieSecure       bool
}

// StorageConfig controls the two persistence scopes
type StorageConfig struct {
	SessionTTL   time.Duration // lifetime of tab-scoped entries in Redis
	ClientMaxAge time.Duration // lifetime of the durable client cookie
	LockTTL      time.Duration // expiry of the shared per-cart lock in Redis
}

// CheckoutConfig contains pricing and delivery-zone settings
type CheckoutConfig struct {
	TaxRate          decimal.Decimal
	DeliveryFee      decimal.Decimal
	Currency         string
	PlaceholderImage string
	ReferenceName    string
	ReferenceLat     float64
	ReferenceLon     float64
	AdvisoryRadiusKm float64
}

// PaymentConfig contains Razorpay and payment-attempt configuration
type PaymentConfig struct {
	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	MerchantName      string
	Description       string
	ThemeColor        string
	AttemptSecret     string
	AttemptTimeout    time.Duration
	EnabledMethods    []string
}

// LookupConfig contains the external geocoding and postal settings
type LookupConfig struct {
	NominatimURL      string
	PostalURL         string
	CountryCode       string
	AcceptLanguage    string
	UserAgent         string
	CityLimit         int
	CityDebounce      time.Duration
	PincodeDebounce   time.Duration
	HTTPTimeout       time.Duration
	BreakerFailures   uint32
	BreakerOpenPeriod time.Duration
}

// I18nConfig contains translation bundle configuration
type I18nConfig struct {
	DefaultLanguage string
	LocalesPath     string
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Provider     string
	APIKey       string
	FromEmail    string
	FromName     string
	ReplyTo      string
	BaseURL      string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// KafkaConfig contains order event publishing configuration
type KafkaConfig struct {
	Brokers      []string
	OrdersTopic  string
	WriteTimeout time.Duration
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Foodie Checkout"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			Environment:    getEnv("APP_ENV", "development"),
			Debug:          getEnvAsBool("APP_DEBUG", true),
			CompanyName:    getEnv("COMPANY_NAME", "Foodie"),
			CompanyAddress: getEnv("COMPANY_ADDRESS", "College Road, Nashik, Maharashtra 422005"),
			CompanyPhone:   getEnv("COMPANY_PHONE", "+91 98765 43210"),
			CompanyEmail:   getEnv("COMPANY_EMAIL", "hello@foodie.example"),
			CompanyWebsite: getEnv("COMPANY_WEBSITE", "https://foodie.example"),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", 1<<20),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "foodie_db"),
			User:         getEnv("DB_USER", "foodie_user"),
			Password:     getEnv("DB_PASSWORD", "foodie_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5500", "http://127.0.0.1:5500"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-Session-ID", "X-Client-ID"}),
			CookieSecure:       getEnvAsBool("COOKIE_SECURE", false),
		},
		Storage: StorageConfig{
			SessionTTL:   getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			ClientMaxAge: getEnvAsDuration("CLIENT_MAX_AGE", 365*24*time.Hour),
			LockTTL:      getEnvAsDuration("LOCK_TTL", 10*time.Second),
		},
		Checkout: CheckoutConfig{
			TaxRate:          getEnvAsDecimal("CHECKOUT_TAX_RATE", decimal.RequireFromString("0.10")),
			DeliveryFee:      getEnvAsDecimal("CHECKOUT_DELIVERY_FEE", decimal.RequireFromString("29.00")),
			Currency:         getEnv("CHECKOUT_CURRENCY", "INR"),
			PlaceholderImage: getEnv("CHECKOUT_PLACEHOLDER_IMAGE", "../imgs/placeholder.png"),
			ReferenceName:    getEnv("DELIVERY_REFERENCE_NAME", "Nashik"),
			ReferenceLat:     getEnvAsFloat("DELIVERY_REFERENCE_LAT", 19.9975),
			ReferenceLon:     getEnvAsFloat("DELIVERY_REFERENCE_LON", 73.7898),
			AdvisoryRadiusKm: getEnvAsFloat("DELIVERY_ADVISORY_RADIUS_KM", 30),
		},
		Payment: PaymentConfig{
			RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", "rzp_test_RS6EdXdKAxfVLe"),
			RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
			RazorpayBaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
			MerchantName:      getEnv("PAYMENT_MERCHANT_NAME", "Foodie"),
			Description:       getEnv("PAYMENT_DESCRIPTION", "Order Payment"),
			ThemeColor:        getEnv("PAYMENT_THEME_COLOR", "#F2BD12"),
			AttemptSecret:     getEnv("PAYMENT_ATTEMPT_SECRET", "foodie-dev-attempt-secret-change-me-please"),
			AttemptTimeout:    getEnvAsDuration("PAYMENT_TIMEOUT", 15*time.Minute),
			EnabledMethods:    getEnvAsSlice("PAYMENT_ENABLED_METHODS", []string{"card"}),
		},
		Lookup: LookupConfig{
			NominatimURL:      getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			PostalURL:         getEnv("POSTAL_URL", "https://api.postalpincode.in"),
			CountryCode:       getEnv("LOOKUP_COUNTRY_CODE", "in"),
			AcceptLanguage:    getEnv("LOOKUP_ACCEPT_LANGUAGE", "en-IN,en"),
			UserAgent:         getEnv("LOOKUP_USER_AGENT", "foodie-checkout/1.0 (+https://foodie.example)"),
			CityLimit:         getEnvAsInt("LOOKUP_CITY_LIMIT", 8),
			CityDebounce:      getEnvAsDuration("LOOKUP_CITY_DEBOUNCE", 250*time.Millisecond),
			PincodeDebounce:   getEnvAsDuration("LOOKUP_PINCODE_DEBOUNCE", 350*time.Millisecond),
			HTTPTimeout:       getEnvAsDuration("LOOKUP_HTTP_TIMEOUT", 10*time.Second),
			BreakerFailures:   uint32(getEnvAsInt("LOOKUP_BREAKER_FAILURES", 5)),
			BreakerOpenPeriod: getEnvAsDuration("LOOKUP_BREAKER_OPEN_PERIOD", 60*time.Second),
		},
		I18n: I18nConfig{
			DefaultLanguage: getEnv("I18N_DEFAULT_LANGUAGE", "en"),
			LocalesPath:     getEnv("LOCALES_PATH", ""),
		},
		Email: EmailConfig{
			Provider:     getEnv("EMAIL_PROVIDER", "none"),
			APIKey:       getEnv("EMAIL_API_KEY", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@foodie.example"),
			FromName:     getEnv("FROM_NAME", "Foodie"),
			ReplyTo:      getEnv("EMAIL_REPLY_TO", ""),
			BaseURL:      getEnv("EMAIL_BASE_URL", "https://foodie.example"),
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USER", ""),
			SMTPPassword: getEnv("SMTP_PASS", ""),
			SMTPUseTLS:   getEnvAsBool("SMTP_USE_TLS", false),
		},
		Kafka: KafkaConfig{
			Brokers:      getEnvAsSlice("KAFKA_BROKERS", []string{}),
			OrdersTopic:  getEnv("KAFKA_ORDERS_TOPIC", "foodie.orders.placed"),
			WriteTimeout: getEnvAsDuration("KAFKA_WRITE_TIMEOUT", 5*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Payment.AttemptSecret) < 32 {
		return fmt.Errorf("PAYMENT_ATTEMPT_SECRET must be at least 32 characters long")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.Checkout.TaxRate.IsNegative() || c.Checkout.DeliveryFee.IsNegative() {
		return fmt.Errorf("CHECKOUT_TAX_RATE and CHECKOUT_DELIVERY_FEE must not be negative")
	}

	if c.Payment.AttemptTimeout <= 0 {
		return fmt.Errorf("PAYMENT_TIMEOUT must be positive")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
