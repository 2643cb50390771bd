package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitPostgres initializes and returns a PostgreSQL connection pool
func InitPostgres() (*pgxpool.Pool, error) {
	// Get database URL from environment variable or use default
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Default local development configuration
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5432")
		user := getEnvOrDefault("POSTGRES_USER", "friendo")
		password := getEnvOrDefault("POSTGRES_PASSWORD", "")
		dbname := getEnvOrDefault("POSTGRES_DB", "friendo")
		sslmode := getEnvOrDefault("POSTGRES_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, dbname, sslmode)
	}

	// Configure connection pool
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Set connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute * 5

	// Create connection pool
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create tables if they don't exist
	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pool, nil
}

// createTables creates all required tables if they don't exist
func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	// Users table - stores application users
	usersTable := `
		CREATE TABLE IF NOT EXISTS users (
			uid VARCHAR(255) PRIMARY KEY,
			display_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		);
	`

	// Tasks table - stores micro-wins
	tasksTable := `
		CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_uid VARCHAR(255) NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
			title VARCHAR(500) NOT NULL,
			notes TEXT,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMP NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			CONSTRAINT tasks_completion_consistency CHECK (
				(completed = TRUE AND completed_at IS NOT NULL) OR
				(completed = FALSE AND completed_at IS NULL)
			)
		);
	`

	// Energy logs table - stores energy level check-ins
	energyLogsTable := `
		CREATE TABLE IF NOT EXISTS energy_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_uid VARCHAR(255) NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
			level SMALLINT NOT NULL CHECK (level BETWEEN 1 AND 5),
			note TEXT,
			logged_at TIMESTAMP DEFAULT NOW()
		);
	`

	// Win photos table - stores confirmed capture payloads
	winPhotosTable := `
		CREATE TABLE IF NOT EXISTS win_photos (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_uid VARCHAR(255) NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
			task_id UUID NULL REFERENCES tasks(id) ON DELETE SET NULL,
			mime_type VARCHAR(100) NOT NULL,
			data BYTEA NOT NULL,
			file_size BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		);
	`

	// Daily prompts - stores the capture prompt rotated per day
	dailyPromptsTable := `
		CREATE TABLE IF NOT EXISTS daily_prompts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			prompt TEXT NOT NULL,
			date DATE NOT NULL UNIQUE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	// Create indexes for better performance
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_uid ON tasks(user_uid);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(user_uid, completed);`,
		`CREATE INDEX IF NOT EXISTS idx_energy_logs_user_uid ON energy_logs(user_uid);`,
		`CREATE INDEX IF NOT EXISTS idx_energy_logs_logged_at ON energy_logs(user_uid, logged_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_win_photos_user_uid ON win_photos(user_uid);`,
		`CREATE INDEX IF NOT EXISTS idx_win_photos_task_id ON win_photos(task_id);`,
		`CREATE INDEX IF NOT EXISTS idx_daily_prompts_date ON daily_prompts(date);`,
	}

	// Execute table creation statements
	tables := []string{usersTable, tasksTable, energyLogsTable, winPhotosTable, dailyPromptsTable}

	for _, table := range tables {
		if _, err := pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Execute index creation statements
	for _, index := range indexes {
		if _, err := pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
