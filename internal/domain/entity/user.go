package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"    // administra centros y usuarios
	RoleOperador = "operador" // registra documentos de etapa
)

// User representa un usuario operador del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, operador
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
