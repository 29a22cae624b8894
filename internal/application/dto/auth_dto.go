package dto

// RegisterRequest entrada para registro: email, password y nombre visible.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"omitempty,max=200"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse salida de una resolución de sesión: token de claims más el
// rol efectivo ya reconciliado (claim primero, perfil como respaldo).
type SessionResponse struct {
	Token         string `json:"token"`
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name,omitempty"`
	EffectiveRole string `json:"effective_role,omitempty"` // vacío = sin rol (no es un error)
}

// MeResponse estado de la sesión actual para la capa de presentación.
type MeResponse struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name,omitempty"`
	ClaimRole     string `json:"claim_role,omitempty"`
	ProfileRole   string `json:"profile_role,omitempty"`
	EffectiveRole string `json:"effective_role,omitempty"`
}
