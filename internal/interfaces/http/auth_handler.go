package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/blockbyjamez/stockroom-api/internal/application/auth"
	"github.com/blockbyjamez/stockroom-api/internal/application/dto"
	"github.com/blockbyjamez/stockroom-api/internal/domain"
)

// AuthHandler maneja login, registro con código de verificación y
// recuperación de contraseña.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	token, user, err := h.uc.Login(c.Context(), in.Username, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
		case errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "usuario o contraseña incorrectos"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(dto.LoginResponse{Token: token, Username: user.Username, Role: user.Role})
}

// SendCode godoc
// @Summary      Enviar código de verificación de registro
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendCodeRequest  true  "Username y email"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/send-code [post]
func (h *AuthHandler) SendCode(c *fiber.Ctx) error {
	var in dto.SendCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SendRegisterCode(c.Context(), in.Username, in.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y email son requeridos"})
		case errors.Is(err, domain.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "USERNAME_TAKEN", Message: "el usuario ya está registrado"})
		case errors.Is(err, domain.ErrDeliveryFailure):
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "DELIVERY_FAILURE", Message: "no se pudo enviar el correo"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "código enviado"})
}

// Register godoc
// @Summary      Registrar cuenta con código de verificación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos de registro"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Register(c.Context(), in.Username, in.Password, in.Email, in.Code); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username, password, email y code son requeridos"})
		case errors.Is(err, domain.ErrCodeMismatchOrExpired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CODE_INVALID", Message: "código incorrecto o expirado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "registro exitoso"})
}

// ForgotPassword godoc
// @Summary      Enviar código de recuperación de contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "Identificador de la cuenta"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ForgotPassword(c.Context(), in.Identifier); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifier es requerido"})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
		case errors.Is(err, domain.ErrDeliveryFailure):
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "DELIVERY_FAILURE", Message: "no se pudo enviar el correo"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "código enviado"})
}

// VerifyCode godoc
// @Summary      Verificar código de recuperación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyCodeRequest  true  "Username y código"
// @Success      200   {object}  dto.VerifyCodeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/verify-code [post]
func (h *AuthHandler) VerifyCode(c *fiber.Ctx) error {
	var in dto.VerifyCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	token, err := h.uc.VerifyCode(c.Context(), in.Username, in.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y code son requeridos"})
		case errors.Is(err, domain.ErrCodeMismatchOrExpired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CODE_INVALID", Message: "código incorrecto o expirado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(dto.VerifyCodeResponse{Message: "código verificado", Token: token})
}

// ResetPassword godoc
// @Summary      Resetear contraseña con token de verificación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "Token y nueva contraseña"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ResetPassword(c.Context(), in.Token, in.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "token y newPassword son requeridos"})
		case errors.Is(err, domain.ErrCodeMismatchOrExpired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "TOKEN_INVALID", Message: "token inválido, expirado o ya usado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "contraseña actualizada"})
}

// ChangePassword godoc
// @Summary      Cambiar contraseña (autenticado)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "Contraseña anterior y nueva"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	username := GetUsername(c)
	if err := h.uc.ChangePassword(c.Context(), username, in.OldPassword, in.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "oldPassword y newPassword son requeridos"})
		case errors.Is(err, domain.ErrUnauthorized):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "contraseña anterior incorrecta"})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "contraseña actualizada"})
}
