// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded once at process start.
type Config struct {
	Server     ServerConfig
	FreshBooks FreshBooksConfig
	Kforce     KforceConfig
	Vendor     VendorConfig
	Email      EmailConfig
	Redis      RedisConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    string
	Timeout int // seconds, read/write
}

// FreshBooksConfig holds OAuth and webhook credentials for FreshBooks.
type FreshBooksConfig struct {
	ClientID      string
	ClientSecret  string
	AccountID     string
	RedirectURI   string
	WebhookURL    string
	WebhookSecret string
	CallbackID    string
}

// KforceConfig identifies the Kforce client inside FreshBooks.
type KforceConfig struct {
	CustomerID string
}

// VendorConfig holds the static vendor identity embedded in every Kforce CSV.
type VendorConfig struct {
	VendorID       string
	VendorName     string
	Address        string
	City           string
	State          string
	Zip            string
	ConsultantID   string
	ConsultantName string
	ContactName    string
	Phone          string
	Email          string
}

// EmailConfig holds addresses for the (stubbed) invoice email.
type EmailConfig struct {
	ClientEmail string
	SenderEmail string
}

// RedisConfig holds connection settings for the token KV store.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Load reads configuration from the environment, with .env support for
// local development. FreshBooks credentials are required; everything else
// falls back to a default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			Timeout: getInt("SERVER_TIMEOUT", 15),
		},
		FreshBooks: FreshBooksConfig{
			ClientID:      os.Getenv("FRESHBOOKS_CLIENT_ID"),
			ClientSecret:  os.Getenv("FRESHBOOKS_CLIENT_SECRET"),
			AccountID:     os.Getenv("FRESHBOOKS_ACCOUNT_ID"),
			RedirectURI:   os.Getenv("OAUTH_REDIRECT_URI"),
			WebhookURL:    os.Getenv("FRESHBOOKS_WEBHOOK_URL"),
			WebhookSecret: os.Getenv("FRESHBOOKS_WEBHOOK_SECRET"),
			CallbackID:    os.Getenv("FRESHBOOKS_CALLBACK_ID"),
		},
		Kforce: KforceConfig{
			CustomerID: os.Getenv("KFORCE_CUSTOMER_ID"),
		},
		Vendor: VendorConfig{
			VendorID:       os.Getenv("VENDOR_INFO_VENDOR_ID"),
			VendorName:     os.Getenv("VENDOR_INFO_VENDOR_NAME"),
			Address:        os.Getenv("VENDOR_INFO_ADDRESS"),
			City:           os.Getenv("VENDOR_INFO_CITY"),
			State:          os.Getenv("VENDOR_INFO_STATE"),
			Zip:            os.Getenv("VENDOR_INFO_ZIP"),
			ConsultantID:   os.Getenv("VENDOR_INFO_CONSULTANT_ID"),
			ConsultantName: os.Getenv("VENDOR_INFO_CONSULTANT_NAME"),
			ContactName:    os.Getenv("VENDOR_INFO_CONTACT_NAME"),
			Phone:          os.Getenv("VENDOR_INFO_PHONE"),
			Email:          os.Getenv("VENDOR_INFO_EMAIL"),
		},
		Email: EmailConfig{
			ClientEmail: os.Getenv("CLIENT_EMAIL"),
			SenderEmail: os.Getenv("SENDER_EMAIL"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        getInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "fbserver"),
		},
	}

	for _, required := range []struct {
		key, value string
	}{
		{"FRESHBOOKS_CLIENT_ID", cfg.FreshBooks.ClientID},
		{"FRESHBOOKS_CLIENT_SECRET", cfg.FreshBooks.ClientSecret},
		{"FRESHBOOKS_ACCOUNT_ID", cfg.FreshBooks.AccountID},
		{"OAUTH_REDIRECT_URI", cfg.FreshBooks.RedirectURI},
	} {
		if strings.TrimSpace(required.value) == "" {
			return Config{}, fmt.Errorf("%s is required", required.key)
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
