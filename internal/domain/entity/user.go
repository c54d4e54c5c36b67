package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RolePlanificador = "planificador"
	RoleConsulta     = "consulta"
)

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema de planeación.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // admin, planificador, consulta
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidRole indica si role es uno de los roles soportados.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePlanificador, RoleConsulta:
		return true
	}
	return false
}
