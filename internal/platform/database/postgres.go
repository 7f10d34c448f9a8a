package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewPostgresDB(cfg Config) (*sql.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, sslMode)

	var db *sql.DB
	var err error
	maxRetries := 10

	for i := 1; i <= maxRetries; i++ {
		log.Printf("Connecting to database (Attempt %d/%d)...", i, maxRetries)
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
		}

		if err == nil {
			log.Println("Database connected successfully!")
			return db, nil
		}

		log.Printf("Database not ready yet. Waiting 2 seconds...")
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database: %v", err)
}

// EnsureSchema creates the ledger and catalog tables when they are missing.
// Catalog tables are owned by the marketplace admin tooling; they are created
// here too so a fresh dev database works end to end.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			organizer_id UUID NOT NULL,
			title TEXT NOT NULL,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			date TIMESTAMPTZ NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			category_id UUID
		)`,
		`CREATE TABLE IF NOT EXISTS tickets (
			id UUID PRIMARY KEY,
			event_id UUID NOT NULL REFERENCES events(id),
			name TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL,
			quantity_available INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			event_id UUID REFERENCES events(id),
			total_price NUMERIC(10,2) NOT NULL DEFAULT 0,
			platform_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			order_id UUID NOT NULL REFERENCES orders(id),
			stripe_payment_intent_id TEXT NOT NULL,
			amount NUMERIC(10,2) NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_intent ON payments (stripe_payment_intent_id)`,
		`CREATE TABLE IF NOT EXISTS attendees (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			order_id UUID NOT NULL REFERENCES orders(id),
			ticket_id UUID NOT NULL REFERENCES tickets(id),
			checked_in BOOLEAN NOT NULL DEFAULT FALSE,
			check_in_time TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS platform_fees (
			order_id UUID NOT NULL REFERENCES orders(id),
			percentage NUMERIC(5,2) NOT NULL,
			fixed_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			total_fee NUMERIC(10,2) NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}
