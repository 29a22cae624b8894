package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Carnet-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile.
// GetByID devuelve (nil, nil) cuando el perfil no existe: la ausencia de
// perfil no es un error para el resolver.
type ProfileRepository interface {
	// Upsert crea o reemplaza el perfil (setDocument).
	Upsert(ctx context.Context, profile *entity.Profile) error
	// CreateIfAbsent inserta el perfil solo si no existe. Un perfil ya
	// presente queda intacto: es la forma segura de crear en login sin
	// pisar escrituras concurrentes de la autoridad de claims.
	CreateIfAbsent(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	// UpdateRole actualiza solo role y updated_at. Sin predicado de versión:
	// entre escritores concurrentes gana el último write.
	UpdateRole(ctx context.Context, id, role string, updatedAt time.Time) error
	// UpdateBlocked actualiza solo blocked y updated_at.
	UpdateBlocked(ctx context.Context, id string, blocked bool, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*entity.Profile, error)
}
