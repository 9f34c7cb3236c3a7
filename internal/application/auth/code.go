package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// generateCode produce un código numérico de 6 dígitos (100000–999999).
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generar código: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
