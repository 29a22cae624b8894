package dto

import "time"

// SetRoleRequest entrada para cambiar el rol de un usuario (solo admin).
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin employee"`
}

// SetBlockedRequest entrada para bloquear o desbloquear una cuenta (solo admin).
type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

// UserSummary fila del listado de usuarios para la pantalla de administración.
// Combina el registro de identidad con el documento de perfil.
type UserSummary struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        string    `json:"role,omitempty"` // rol del perfil (respaldo)
	ClaimRole   string    `json:"claim_role,omitempty"`
	Blocked     bool      `json:"blocked"`
	UpdatedAt   time.Time `json:"updated_at"`
}
