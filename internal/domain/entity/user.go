package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario interno (pertenece a una Company).
// AuthUserID vacío indica un usuario provisionado por webhook que aún no hizo su primer login.
type User struct {
	ID         string
	CompanyID  string
	AuthUserID string
	Name       string
	Email      string
	Role       string // admin, user
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAdmin informa si el usuario tiene rol admin.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// ValidRole informa si role es uno de los roles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
