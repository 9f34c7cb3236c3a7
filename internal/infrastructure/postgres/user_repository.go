package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/blockbyjamez/stockroom-api/internal/domain"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, COALESCE(password_hash, ''), COALESCE(email, ''),
	role, COALESCE(email_verification_code, ''), email_code_expires`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// GetByID obtiene un usuario por ID. Devuelve nil, nil si no existe.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get user by id")
}

// GetByUsername obtiene un usuario por username. Devuelve nil, nil si no existe.
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, username), "get user by username")
}

// List devuelve todas las cuentas ordenadas por username.
func (r *UserRepo) List() ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// UpsertPendingCode crea (o pisa) la fila provisional del registro con el
// código pendiente. Reemplaza cualquier código anterior: last-write-wins.
func (r *UserRepo) UpsertPendingCode(username, email, code string, expiresAt time.Time) error {
	query := `
		INSERT INTO users (id, username, email, role, email_verification_code, email_code_expires)
		VALUES ($1, $2, $3, 'viewer', $4, $5)
		ON CONFLICT (username) DO UPDATE
		SET email = EXCLUDED.email,
		    email_verification_code = EXCLUDED.email_verification_code,
		    email_code_expires = EXCLUDED.email_code_expires`
	_, err := r.q.Exec(context.Background(), query,
		uuid.New().String(), username, email, code, expiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("upsert pending code: %w", err)
	}
	return nil
}

// SetPendingCode fija un código pendiente sobre una cuenta existente.
func (r *UserRepo) SetPendingCode(id, code string, expiresAt time.Time) error {
	query := `
		UPDATE users SET email_verification_code = $2, email_code_expires = $3
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, code, expiresAt)
	if err != nil {
		return fmt.Errorf("set pending code: %w", err)
	}
	return nil
}

// RedeemForRegistration consume el código de registro en una sola sentencia:
// fija el hash y limpia el código solo si username, email y code coinciden y
// el código sigue vigente. El conteo de filas decide el resultado, así un
// segundo canje del mismo código nunca encuentra match.
func (r *UserRepo) RedeemForRegistration(username, email, code, passwordHash string, now time.Time) (bool, error) {
	query := `
		UPDATE users
		SET password_hash = $4,
		    email_verification_code = NULL,
		    email_code_expires = NULL
		WHERE username = $1 AND email = $2
		  AND email_verification_code = $3
		  AND email_code_expires > $5`
	tag, err := r.q.Exec(context.Background(), query, username, email, code, passwordHash, now)
	if err != nil {
		return false, fmt.Errorf("redeem registration code: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RedeemForReset fija la nueva contraseña de la cuenta y limpia el código
// pendiente en la misma sentencia. Sin código pendiente no hay match: un
// token de reseteo reutilizado falla.
func (r *UserRepo) RedeemForReset(userID, passwordHash string) (bool, error) {
	query := `
		UPDATE users
		SET password_hash = $2,
		    email_verification_code = NULL,
		    email_code_expires = NULL
		WHERE id = $1 AND email_verification_code IS NOT NULL`
	tag, err := r.q.Exec(context.Background(), query, userID, passwordHash)
	if err != nil {
		return false, fmt.Errorf("redeem reset code: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdatePassword fija el hash de contraseña de una cuenta.
func (r *UserRepo) UpdatePassword(id, passwordHash string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateRole cambia el rol de una cuenta.
func (r *UserRepo) UpdateRole(id, role string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// CountAdmins cuenta las cuentas con rol admin.
func (r *UserRepo) CountAdmins() (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var expires *time.Time
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email,
		&u.Role, &u.VerificationCode, &expires); err != nil {
		return nil, err
	}
	u.CodeExpiresAt = expires
	return &u, nil
}
