package entity

import "time"

// Acciones conocidas del registro de actividad. El campo Action es texto
// libre para permitir extensiones sin migración; estas constantes cubren los
// eventos que la aplicación emite hoy.
const (
	ActionLogin         = "login"
	ActionLogout        = "logout"
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionCardGenerated = "card_generated"
)

// ActivityEntry es una entrada del registro de actividad: append-only e
// inmutable una vez escrita. UserEmail se captura al momento de escribir y no
// se vuelve a resolver, así que entradas históricas pueden mostrar un email
// ya desactualizado. CreatedAt lo asigna el servidor de datos, nunca el
// cliente.
type ActivityEntry struct {
	ID        string
	Action    string
	UserID    string
	UserEmail string
	Details   string
	IPAddress string // best-effort, puede quedar vacío
	CreatedAt time.Time
}
