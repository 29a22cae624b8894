package dto

import "time"

// LogActivityRequest entrada del wrapper de actividad para la UI: el actor y
// la IP se completan desde la sesión actual, no desde el cuerpo.
type LogActivityRequest struct {
	Action  string `json:"action" validate:"required"`
	Details string `json:"details" validate:"omitempty,max=1000"`
}

// ActivityResponse una entrada del registro de actividad.
type ActivityResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email,omitempty"`
	Details   string    `json:"details,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
