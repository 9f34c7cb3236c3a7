package dto

// UserResponse cuenta sin campos sensibles.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UpdateRoleRequest cambio de rol de una cuenta.
type UpdateRoleRequest struct {
	Role string `json:"role"` // admin | viewer
}
