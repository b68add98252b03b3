package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Standalone schema runner for environments where the server's automigrate
// is not wanted (CI seeding, fresh databases behind restricted roles).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := getEnv("DB_NAME", "prediction_arena")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to reach database")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS markets (
			id VARCHAR(100) PRIMARY KEY,
			title VARCHAR(500) NOT NULL,
			deadline TIMESTAMPTZ NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'open',
			outcome VARCHAR(10),
			base_price DECIMAL(20,8) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT now(),
			resolved_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_markets_status ON markets(status)`,
		`CREATE INDEX IF NOT EXISTS idx_markets_deadline ON markets(deadline)`,
		`CREATE TABLE IF NOT EXISTS bets (
			id SERIAL PRIMARY KEY,
			market_id VARCHAR(100) NOT NULL,
			side VARCHAR(10) NOT NULL,
			amount DECIMAL(20,8) NOT NULL,
			user_address VARCHAR(42) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			payout_amount DECIMAL(20,8) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bets_market_id ON bets(market_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bets_user_address ON bets(user_address)`,
		`CREATE TABLE IF NOT EXISTS leaderboard (
			id SERIAL PRIMARY KEY,
			user_address VARCHAR(42) NOT NULL,
			accuracy_score DOUBLE PRECISION NOT NULL,
			total_predictions INTEGER NOT NULL DEFAULT 0,
			avg_error DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ DEFAULT now(),
			updated_at TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboard_user_address ON leaderboard(user_address)`,
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			user_address VARCHAR(42) NOT NULL UNIQUE,
			nickname VARCHAR(50),
			created_at TIMESTAMPTZ DEFAULT now(),
			updated_at TIMESTAMPTZ DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatal().Err(err).Msg("Migration statement failed")
		}
	}

	log.Info().Msg("Migrations completed successfully")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
