package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// InitSchema crea las tablas si no existen. Idempotente: seguro en cada arranque.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			stock INTEGER NOT NULL CHECK (stock >= 0),
			price NUMERIC(12,2) NOT NULL DEFAULT 0,
			category TEXT,
			description TEXT,
			image TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT,
			email TEXT,
			role TEXT NOT NULL DEFAULT 'viewer',
			email_verification_code TEXT,
			email_code_expires TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			product_id UUID NOT NULL REFERENCES products(id),
			type TEXT NOT NULL CHECK (type IN ('in', 'out')),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
			note TEXT,
			operator TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS logs (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			action TEXT NOT NULL,
			details JSONB,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// SeedAdmin crea la cuenta admin inicial si no existe. No pisa cuentas previas.
func SeedAdmin(ctx context.Context, pool *pgxpool.Pool, username, password, email string) error {
	if username == "" || password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	query := `
		INSERT INTO users (id, username, password_hash, email, role)
		VALUES ($1, $2, $3, $4, 'admin')
		ON CONFLICT (username) DO NOTHING`
	if _, err := pool.Exec(ctx, query, uuid.New().String(), username, string(hash), email); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
