package dto

import "time"

// EmployeeRequest entrada para crear o actualizar un empleado.
type EmployeeRequest struct {
	FullName    string `json:"full_name" validate:"required,min=1,max=200"`
	Designation string `json:"designation" validate:"omitempty,max=120"`
	Department  string `json:"department" validate:"omitempty,max=120"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
}

// EmployeeResponse salida de un empleado.
type EmployeeResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Designation string    `json:"designation,omitempty"`
	Department  string    `json:"department,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
