package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La taxonomía sigue la de las mutaciones privilegiadas: autenticación,
// privilegio, entrada y fallo de infraestructura se distinguen siempre.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrUserNotFound     = errors.New("usuario no encontrado")
	ErrEmailExists      = errors.New("el email ya está registrado")
	ErrUnauthenticated  = errors.New("se requiere sesión activa")
	ErrPermissionDenied = errors.New("privilegios insuficientes")
	ErrInvalidArgument  = errors.New("entrada inválida")
	ErrBlocked          = errors.New("cuenta bloqueada")
	ErrInternal         = errors.New("error interno")
)
