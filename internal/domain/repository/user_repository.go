package repository

import (
	"time"

	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para cuentas de usuario.
// Las operaciones Redeem* son UPDATEs condicionales de una sola sentencia:
// limpiar el código pendiente y aplicar el cambio dependiente (password)
// ocurren de forma atómica, y el número de filas afectadas decide el éxito.
type UserRepository interface {
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	List() ([]*entity.User, error)

	// UpsertPendingCode crea la fila provisional del registro (o la pisa si ya
	// existe sin contraseña), reemplazando cualquier código pendiente anterior.
	UpsertPendingCode(username, email, code string, expiresAt time.Time) error
	// SetPendingCode fija un código pendiente sobre una cuenta existente
	// (flujo de recuperación de contraseña). Last-write-wins.
	SetPendingCode(id, code string, expiresAt time.Time) error

	// RedeemForRegistration consume el código de registro: si username, email y
	// code coinciden y el código no expiró, fija el hash y limpia el código en
	// la misma sentencia. Devuelve false si no hubo match (código usado,
	// incorrecto o expirado).
	RedeemForRegistration(username, email, code, passwordHash string, now time.Time) (bool, error)
	// RedeemForReset consume el código de la cuenta indicada: fija el hash y
	// limpia el código pendiente. Devuelve false si la cuenta ya no tiene
	// código pendiente (uso repetido).
	RedeemForReset(userID, passwordHash string) (bool, error)

	UpdatePassword(id, passwordHash string) error
	UpdateRole(id, role string) error
	CountAdmins() (int, error)
}
