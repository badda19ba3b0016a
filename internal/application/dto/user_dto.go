package dto

import "time"

// UserResponse salida de un usuario interno.
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	Linked    bool      `json:"linked"` // ya inició sesión al menos una vez
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateRoleRequest cambio de rol de un usuario.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

// InviteUserRequest alta de un usuario por un admin. Role vacío = user.
type InviteUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,max=200"`
	Role  string `json:"role" validate:"omitempty,oneof=admin user"`
}

// BootstrapRequest datos opcionales del primer login.
type BootstrapRequest struct {
	Name        string `json:"name" validate:"omitempty,max=200"`
	CompanyName string `json:"company_name" validate:"omitempty,max=200"`
}

// SessionResponse contexto de la sesión: usuario interno y empresa.
type SessionResponse struct {
	User    UserResponse    `json:"user"`
	Company CompanyResponse `json:"company"`
	Created bool            `json:"created"` // se creó la empresa en este login
}
