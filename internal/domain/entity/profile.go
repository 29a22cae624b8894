package entity

import "time"

// Profile es el documento mutable que refleja los atributos de negocio de un
// principal. Invariante: Profile.ID == User.ID (1:1). Role aquí es el rol de
// respaldo cuando el token no trae claim; Blocked fuerza el cierre de sesión
// en la resolución sin importar qué diga cualquiera de los dos roles.
type Profile struct {
	ID          string
	Role        string // "admin", "employee" o vacío (sin rol)
	Blocked     bool
	Email       string // copia desnormalizada del email del principal
	DisplayName string
	Designation string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
