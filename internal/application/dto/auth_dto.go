package dto

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token de sesión más datos básicos del usuario.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SendCodeRequest emisión de código de registro.
type SendCodeRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterRequest canje del código de registro.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Code     string `json:"code"`
}

// ForgotPasswordRequest solicitud de código de recuperación.
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier"`
}

// VerifyCodeRequest verificación del código de recuperación.
type VerifyCodeRequest struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

// VerifyCodeResponse token de corta vida para el paso de reseteo.
type VerifyCodeResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ResetPasswordRequest reseteo con el token emitido por verify-code.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ChangePasswordRequest cambio de contraseña autenticado.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
