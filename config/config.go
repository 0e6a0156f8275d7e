package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type Config struct {
	Port string
	// FirebaseCredentials is the base64 encoded service account JSON.
	FirebaseCredentials string
	FirebaseProjectID   string
	StoreBackend        string
	OpenAIAPIKey        string
	OpenAIModel         string
	MapsAPIKey          string
	ClientURL           string
	ShortageCron        string
	LogLevel            string
}

// Load reads the optional .env file, then the environment. The returned
// bool reports whether a .env file was found.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		Port:                getenv("PORT", "8080"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS"),
		FirebaseProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
		StoreBackend:        getenv("STORE_BACKEND", BackendFirestore),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getenv("OPENAI_MODEL", "gpt-4o-mini"),
		MapsAPIKey:          os.Getenv("MAPS_CREDENTIALS"),
		ClientURL:           os.Getenv("CLIENT_URL"),
		ShortageCron:        getenv("SHORTAGE_CRON", "*/10 * * * *"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
	}
	return cfg, envLoaded
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.FirebaseCredentials == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS environment variable is required")
	}
	if c.StoreBackend != BackendFirestore && c.StoreBackend != BackendMemory {
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFirestore, BackendMemory, c.StoreBackend)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
