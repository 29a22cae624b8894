package repository

import (
	"context"

	"github.com/jhoicas/Carnet-api/internal/domain/entity"
)

// ActivityFilter filtros del listado de actividad (queryDocuments).
type ActivityFilter struct {
	Action string // vacío = todas las acciones
	UserID string // vacío = todos los actores
	Limit  int
	Offset int
}

// ActivityRepository define el puerto append-only del registro de actividad.
// No existe Update ni Delete: el registro es puramente aditivo y cada Append
// es una escritura independiente (los escritores concurrentes nunca chocan).
type ActivityRepository interface {
	// Append inserta una entrada; el timestamp lo asigna el servidor de datos.
	// Devuelve el ID generado.
	Append(ctx context.Context, entry *entity.ActivityEntry) (string, error)
	// List devuelve entradas ordenadas por timestamp de servidor descendente.
	List(ctx context.Context, filter ActivityFilter) ([]*entity.ActivityEntry, error)
}
