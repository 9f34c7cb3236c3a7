package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/domain"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
	"github.com/blockbyjamez/stockroom-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// CodeConfig ventanas de validez del flujo de verificación.
type CodeConfig struct {
	RegisterTTL time.Duration // validez del código de registro
	ResetTTL    time.Duration // validez del código de recuperación
	ResetToken  time.Duration // validez del token de sesión de reseteo
}

// UseCase casos de uso de autenticación: login, registro con código de
// verificación y recuperación de contraseña.
//
// Máquina de estados por usuario: sin código pendiente → código pendiente
// (code, expiresAt) → sin código pendiente, vía canje exitoso, expiración o
// emisión que lo reemplaza (last-write-wins, nunca hay más de un código vivo).
type UseCase struct {
	userRepo repository.UserRepository
	mailer   Mailer
	trail    *audit.Trail
	jwtCfg   JWTConfig
	codes    CodeConfig
	now      func() time.Time // inyectable en tests
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, mailer Mailer, trail *audit.Trail, jwtCfg JWTConfig, codes CodeConfig) *UseCase {
	return &UseCase{
		userRepo: userRepo,
		mailer:   mailer,
		trail:    trail,
		jwtCfg:   jwtCfg,
		codes:    codes,
		now:      time.Now,
	}
}

// Login verifica username/password, genera el token de sesión con el claim de
// rol y lo devuelve junto al usuario.
func (uc *UseCase) Login(ctx context.Context, username, password string) (string, *entity.User, error) {
	_ = ctx
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !user.Provisioned() {
		return "", nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return "", nil, err
	}
	uc.trail.Record(username, "login_success", map[string]any{"username": username})
	return token, user, nil
}

// SendRegisterCode emite un código de verificación para registrar una cuenta
// nueva. Si el username ya completó el registro devuelve ErrUsernameTaken.
//
// El envío de correo va primero: si la entrega falla no se persiste nada y se
// devuelve ErrDeliveryFailure. Al persistir, cualquier código pendiente
// anterior queda reemplazado.
func (uc *UseCase) SendRegisterCode(ctx context.Context, username, email string) error {
	_ = ctx
	if username == "" || email == "" {
		return domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return err
	}
	if existing != nil && existing.Provisioned() {
		return domain.ErrUsernameTaken
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	expiresAt := uc.now().Add(uc.codes.RegisterTTL)

	body := fmt.Sprintf(
		"Hola, su código de verificación de registro es: %s. Válido por %d minutos.\nUsuario: %s",
		code, int(uc.codes.RegisterTTL.Minutes()), username,
	)
	if err := uc.mailer.Send(email, "Código de verificación de registro", body); err != nil {
		return domain.ErrDeliveryFailure
	}

	if err := uc.userRepo.UpsertPendingCode(username, email, code, expiresAt); err != nil {
		return err
	}
	uc.trail.Record(username, "send_register_code", map[string]any{"email": email})
	return nil
}

// Register canjea el código de registro y fija la contraseña. El canje y el
// borrado del código ocurren en la misma sentencia condicional: un segundo
// intento con el mismo código siempre falla.
func (uc *UseCase) Register(ctx context.Context, username, password, email, code string) error {
	_ = ctx
	if username == "" || password == "" || email == "" || code == "" {
		return domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	ok, err := uc.userRepo.RedeemForRegistration(username, email, code, string(hash), uc.now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCodeMismatchOrExpired
	}
	uc.trail.Record(username, "register_user", map[string]any{"email": email})
	return nil
}

// ForgotPassword emite un código de recuperación al correo registrado de la
// cuenta. Mismo contrato que el registro: entrega primero, persistencia
// condicionada a la entrega, last-write-wins sobre códigos anteriores.
func (uc *UseCase) ForgotPassword(ctx context.Context, identifier string) error {
	_ = ctx
	if identifier == "" {
		return domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByUsername(identifier)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	expiresAt := uc.now().Add(uc.codes.ResetTTL)

	body := fmt.Sprintf(
		"Hola, su código de verificación es: %s. Válido por %d minutos.\nUsuario: %s",
		code, int(uc.codes.ResetTTL.Minutes()), user.Username,
	)
	if err := uc.mailer.Send(user.Email, "Código de recuperación de contraseña", body); err != nil {
		return domain.ErrDeliveryFailure
	}

	if err := uc.userRepo.SetPendingCode(user.ID, code, expiresAt); err != nil {
		return err
	}
	uc.trail.Record(user.Username, "send_verification_code", map[string]any{"email": user.Email})
	return nil
}

// VerifyCode comprueba el código de recuperación y devuelve un token de corta
// vida ligado al usuario. No consume el código: el consumo ocurre en
// ResetPassword, atado a la identidad del token y no al valor crudo del código.
func (uc *UseCase) VerifyCode(ctx context.Context, username, code string) (string, error) {
	_ = ctx
	if username == "" || code == "" {
		return "", domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return "", err
	}
	if user == nil || !uc.codeValid(user, code) {
		return "", domain.ErrCodeMismatchOrExpired
	}
	return jwt.GenerateReset(uc.jwtCfg.Secret, user.ID, uc.jwtCfg.Issuer, uc.codes.ResetToken)
}

// ResetPassword fija la nueva contraseña de la cuenta identificada por el
// token de reseteo y limpia el código pendiente en la misma sentencia.
// Un token reutilizado tras el primer reseteo no encuentra código pendiente
// y falla.
func (uc *UseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	_ = ctx
	if token == "" || newPassword == "" {
		return domain.ErrInvalidInput
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil || claims.Purpose != jwt.PurposePasswordReset {
		return domain.ErrCodeMismatchOrExpired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	ok, err := uc.userRepo.RedeemForReset(claims.UserID, string(hash))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCodeMismatchOrExpired
	}
	user, err := uc.userRepo.GetByID(claims.UserID)
	if err == nil && user != nil {
		uc.trail.Record(user.Username, "reset_password", nil)
	}
	return nil
}

// ChangePassword cambia la contraseña de una cuenta autenticada verificando la
// anterior.
func (uc *UseCase) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	_ = ctx
	if username == "" || oldPassword == "" || newPassword == "" {
		return domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByUsername(username)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uc.userRepo.UpdatePassword(user.ID, string(hash)); err != nil {
		return err
	}
	uc.trail.Record(username, "change_password", nil)
	return nil
}

// codeValid: el código coincide y el instante actual es estrictamente anterior
// a la expiración. En el instante de expiración el código ya no vale.
func (uc *UseCase) codeValid(user *entity.User, code string) bool {
	if user.VerificationCode == "" || user.CodeExpiresAt == nil {
		return false
	}
	if user.VerificationCode != code {
		return false
	}
	return uc.now().Before(*user.CodeExpiresAt)
}
