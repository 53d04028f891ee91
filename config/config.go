package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Clerk    ClerkConfig
	GitHub   GitHubConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	// Addr is optional. When empty the response cache falls back to the
	// Postgres-backed store.
	Addr     string
	Password string
	DB       int
}

type ClerkConfig struct {
	// SecretKey authenticates calls to the Clerk Backend API. Optional:
	// without it the resolver never consults Clerk for OAuth tokens.
	SecretKey string
	// JWTPublicKeyPEM verifies Clerk session tokens (RS256). Optional in
	// development; when unset the session middleware accepts the user_id
	// query parameter the way the original deployment did.
	JWTPublicKeyPEM string
}

type GitHubConfig struct {
	// Token is the static fallback personal access token. Optional.
	Token string
}

type AppConfig struct {
	Environment string
	Version     string
	FrontendURL string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "openforge"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Clerk: ClerkConfig{
			SecretKey:       getEnv("CLERK_SECRET_KEY", ""),
			JWTPublicKeyPEM: getEnv("CLERK_JWT_PUBLIC_KEY", ""),
		},
		GitHub: GitHubConfig{
			Token: getEnv("GITHUB_TOKEN", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			FrontendURL: getEnv("FRONTEND_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.App.Environment == "production" && c.Clerk.JWTPublicKeyPEM == "" {
		return fmt.Errorf("CLERK_JWT_PUBLIC_KEY is required in production")
	}

	return nil
}

// AllowedOrigins returns the CORS origins for the current environment.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000", "http://localhost:3001"}
	if c.App.FrontendURL != "" {
		origins = append(origins, c.App.FrontendURL)
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
