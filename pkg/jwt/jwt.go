package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Propósitos de token. Un token de sesión nunca sirve para resetear contraseña
// ni al revés.
const (
	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para que el middleware RBAC pueda decidir sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`    // "admin" | "viewer"
	Purpose  string `json:"purpose"` // "session" | "password_reset"
}

// Generate genera un token de sesión firmado con userID, username y role.
func Generate(secret, userID, username, role, issuer string, expMinutes int) (string, error) {
	return sign(secret, Claims{
		RegisteredClaims: registered(userID, issuer, time.Duration(expMinutes)*time.Minute),
		UserID:           userID,
		Username:         username,
		Role:             role,
		Purpose:          PurposeSession,
	})
}

// GenerateReset genera un token de corta vida ligado al usuario que verificó
// un código de recuperación. Solo sirve para el paso de reseteo de contraseña.
func GenerateReset(secret, userID, issuer string, ttl time.Duration) (string, error) {
	return sign(secret, Claims{
		RegisteredClaims: registered(userID, issuer, ttl),
		UserID:           userID,
		Purpose:          PurposePasswordReset,
	})
}

func registered(subject, issuer string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(secret string, claims Claims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve los claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
