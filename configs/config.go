package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort         int
	DBHost          string
	DBPort          int
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	RedisHost       string
	RedisPort       int
	CacheTTLSeconds int
	LogDir          string
	RateLimitMax    int
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	return Config{
		AppPort:         getInt("APP_PORT", 3004),
		DBHost:          getString("DB_HOST", "localhost"),
		DBPort:          getInt("DB_PORT", 5432),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          getString("DB_NAME", "todo"),
		DBSSLMode:       getString("DB_SSLMODE", "disable"),
		RedisHost:       os.Getenv("REDIS_HOST"),
		RedisPort:       getInt("REDIS_PORT", 6379),
		CacheTTLSeconds: getInt("CACHE_TTL_SECONDS", 3600),
		LogDir:          os.Getenv("LOG_DIR"),
		RateLimitMax:    getInt("RATE_LIMIT_MAX", 100),
	}
}

// DSN renders the lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisEnabled reports whether a Redis host was configured.
func (c Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("warning: env %s must be integer but got '%s', using fallback %d", key, val, fallback)
		return fallback
	}
	return i
}
