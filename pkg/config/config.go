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

// Config holds every environment-driven setting of the service.
type Config struct {
	Port   string
	AppEnv string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBTimeZone  string

	JWTSecret     string
	JWTTTL        time.Duration
	SessionCookie string
	CORSOrigins   string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	TelrStoreID       string
	MoyasarPublicKey  string
	OmanNetMerchantID string

	ShiprocketEmail       string
	ShiprocketPassword    string
	ShiprocketChannelID   string
	ShiprocketEnvironment string
	ShiprocketBaseURL     string
	PickupLocation        string
	PickupPostcode        string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	return &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "newhill"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBTimeZone:  getEnv("DB_TIMEZONE", "Asia/Kolkata"),

		JWTSecret:     getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTTTL:        time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		SessionCookie: getEnv("SESSION_COOKIE", "newhill_session"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
		TelrStoreID:       os.Getenv("TELR_STORE_ID"),
		MoyasarPublicKey:  os.Getenv("MOYASAR_PUBLIC_KEY"),
		OmanNetMerchantID: os.Getenv("OMANNET_MERCHANT_ID"),

		ShiprocketEmail:       os.Getenv("SHIPROCKET_EMAIL"),
		ShiprocketPassword:    os.Getenv("SHIPROCKET_PASSWORD"),
		ShiprocketChannelID:   os.Getenv("SHIPROCKET_CHANNEL_ID"),
		ShiprocketEnvironment: getEnv("SHIPROCKET_ENVIRONMENT", "sandbox"),
		ShiprocketBaseURL:     getEnv("SHIPROCKET_BASE_URL", "https://apiv2.shiprocket.in/v1"),
		PickupLocation:        getEnv("PICKUP_LOCATION", "Primary"),
		PickupPostcode:        getEnv("PICKUP_POSTCODE", "685612"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/api/auth/google/callback"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@newhillspices.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin12345"),
	}
}

// DSN returns DATABASE_URL or a key/value DSN built from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// ShiprocketConfigured reports whether domestic shipping can call the live API.
func (c *Config) ShiprocketConfigured() bool {
	return c.ShiprocketEmail != "" && c.ShiprocketPassword != ""
}

func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}
