package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Port            string
	RedisAddr       string
	STTProvider     string
	DeepgramAPIKey  string
	OpenAIAPIKey    string
	AllowedOrigins  string
	SupabaseURL     string
	SupabaseAnonKey string
	JWTSecret       string
	Verbose         bool
}

// Load reads a .env file if present, then the environment. Only the
// values required by the selected STT provider are validated.
func Load() (*Config, error) {
	// Missing .env just means plain environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getenv("PORT", "5000"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		STTProvider:     getenv("STT_PROVIDER", "deepgram"),
		DeepgramAPIKey:  os.Getenv("DEEPGRAM_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPEN_AI_API_KEY"),
		AllowedOrigins:  getenv("ALLOWED_ORIGINS", "*"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		JWTSecret:       os.Getenv("AUTH_JWT_SECRET"),
		Verbose:         os.Getenv("VERBOSE") != "",
	}

	switch cfg.STTProvider {
	case "deepgram":
		if cfg.DeepgramAPIKey == "" {
			return nil, fmt.Errorf("DEEPGRAM_API_KEY must be set")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPEN_AI_API_KEY must be set")
		}
	default:
		return nil, fmt.Errorf("unknown STT_PROVIDER %q (want deepgram or openai)", cfg.STTProvider)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
