package config

import (
	"os"
	"strconv"
)

type Config struct {
	DB     DBConfig
	JWT    JWTConfig
	Server ServerConfig
	Draw   DrawConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

type ServerConfig struct {
	Port string
}

// DrawConfig carries the draw policy constants. The defaults match the
// behavior the product shipped with: a group needs at least 3 participants
// (two people would be a forced swap), and the generator gives up after 120
// rejected permutations.
type DrawConfig struct {
	MinParticipants int
	MaxAttempts     int
}

func Load() *Config {
	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "giftdraw"),
			Password: getEnv("DB_PASSWORD", "giftdraw_secret"),
			Name:     getEnv("DB_NAME", "giftdraw"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-me-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Draw: DrawConfig{
			MinParticipants: getEnvAsInt("DRAW_MIN_PARTICIPANTS", 3),
			MaxAttempts:     getEnvAsInt("DRAW_MAX_ATTEMPTS", 120),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
