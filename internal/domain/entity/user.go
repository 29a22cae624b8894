package entity

import "time"

// Roles válidos del sistema.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// ValidRole indica si role es uno de los valores permitidos del enum.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

// User representa un principal del almacén de identidad: credenciales más el
// claim de rol del lado servidor. ClaimRole es la fuente firmada de verdad:
// se copia al token JWT en el momento de emitirlo, por lo que un cambio aquí
// solo alcanza a una sesión viva cuando esta reemite su token.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	DisplayName  string
	ClaimRole    string // "admin", "employee" o vacío (sin claim)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
