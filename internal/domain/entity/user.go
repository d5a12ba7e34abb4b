package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleAtendente = "atendente"
)

// ValidRole indica si role es uno de los roles soportados.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleAtendente
}

// User atendente o administrador de la lanchonete.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	CreatedAt    time.Time
}

// StaffIdentity identidad verificada de quien hace la petición.
type StaffIdentity struct {
	StaffID   string
	StaffName string
	Username  string
	Role      string
}
