package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User representa una cuenta del sistema.
// Los campos de verificación (VerificationCode / CodeExpiresAt) son propiedad
// exclusiva del flujo de códigos: como máximo un código pendiente por usuario.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash; vacío mientras la cuenta es provisional
	Email        string
	Role         string // admin, viewer

	VerificationCode string     // código pendiente, vacío si no hay
	CodeExpiresAt    *time.Time // expiración absoluta del código pendiente
}

// Provisioned indica si la cuenta ya completó el registro (tiene contraseña).
func (u *User) Provisioned() bool {
	return u.PasswordHash != ""
}
