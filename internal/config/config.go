package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Gemini    GeminiConfig
	Chain     ChainConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	App       AppConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// GeminiConfig holds the hosted LLM settings
type GeminiConfig struct {
	APIKey string
	Model  string
}

// ChainConfig holds the on-chain submission settings. Submissions are
// attempted only when PrivateKey and a non-zero ContractAddress are set;
// everything else runs in simulation mode.
type ChainConfig struct {
	RPCURL          string
	ContractAddress string
	PrivateKey      string
	ChainID         int64
}

// RedisConfig holds the optional shared-store settings. When Addr is empty
// the rate limiter and price cache stay process-local.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig holds the per-client request budget
type RateLimitConfig struct {
	RequestsPerMinute int
}

// AppConfig holds application-specific settings
type AppConfig struct {
	EnableUserRegistration bool
	MarketsFile            string
	AllowedOrigins         string
	CacheTTLSeconds        int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "prediction_arena"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8001"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Chain: ChainConfig{
			RPCURL:          getEnv("CHAIN_RPC_URL", "https://rpc.blockdag.network"),
			ContractAddress: getEnv("CONTRACT_ADDRESS", "0x0000000000000000000000000000000000000000"),
			PrivateKey:      getEnv("CHAIN_PRIVATE_KEY", ""),
			ChainID:         getEnvInt64("CHAIN_ID", 0),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvInt("RATE_LIMIT_RPM", 120),
		},
		App: AppConfig{
			EnableUserRegistration: getEnvBool("ENABLE_USER_REGISTRATION", false),
			MarketsFile:            getEnv("MARKETS_FILE", "configs/markets.yaml"),
			AllowedOrigins:         getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
			CacheTTLSeconds:        getEnvInt("CACHE_TTL", 30),
		},
	}

	if config.RateLimit.RequestsPerMinute < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_RPM must be at least 1")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
