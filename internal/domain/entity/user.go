package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleCare   = "care"   // atención al cliente: ve todos los clientes, no factura
	RoleClient = "client" // usuario de un cliente: solo ve su ClientID
)

// User representa un usuario del sistema. ClientID va vacío para el personal interno.
type User struct {
	ID           string
	ClientID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, care, client
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsStaff indica si el usuario es personal interno (admin o care).
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleCare
}
