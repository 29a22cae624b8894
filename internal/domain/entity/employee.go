package entity

import "time"

// Employee es el registro de un empleado para el que se generan carnés y
// tarjetas de visita. Es un registro de negocio plano: la autorización vive
// en User/Profile, no aquí.
type Employee struct {
	ID          string
	FullName    string
	Designation string
	Department  string
	Email       string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
