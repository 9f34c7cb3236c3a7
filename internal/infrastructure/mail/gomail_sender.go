package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/blockbyjamez/stockroom-api/internal/application/auth"
	"github.com/blockbyjamez/stockroom-api/pkg/config"
)

var _ auth.Mailer = (*GomailSender)(nil)

// GomailSender implementación del puerto Mailer sobre SMTP (gomail).
// Cada Send abre y cierra su propia conexión: el volumen de correo del
// sistema (códigos de verificación) no justifica un daemon de envío.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailSender construye el sender con la configuración SMTP.
func NewGomailSender(cfg config.SMTPConfig) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send entrega un mensaje de texto plano. Devuelve error si el transporte
// SMTP rechaza la conexión o el mensaje.
func (s *GomailSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}
