package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrUsernameTaken         = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrCodeMismatchOrExpired = errors.New("código de verificación incorrecto o expirado")
	ErrDeliveryFailure       = errors.New("no se pudo enviar el correo de verificación")
	ErrLastAdmin             = errors.New("no se puede degradar al último administrador")
)
