package auth

// Mailer es el colaborador de entrega fuera de banda (correo saliente).
// Devuelve error si el mensaje no pudo entregarse al transporte.
type Mailer interface {
	Send(to, subject, body string) error
}
