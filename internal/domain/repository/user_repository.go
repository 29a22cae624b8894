package repository

import (
	"context"

	"github.com/jhoicas/Carnet-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para el almacén de
// identidad (DIP). GetByID devuelve (nil, nil) cuando el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateClaimRole reemplaza el claim de rol firmado del usuario. Es la
	// única mutación de autorización sobre el almacén de identidad.
	UpdateClaimRole(ctx context.Context, id, role string) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}
