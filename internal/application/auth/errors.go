package auth

import (
	"fmt"

	"github.com/jhoicas/Carnet-api/internal/domain"
)

// wrapInternal envuelve un fallo de infraestructura como ErrInternal
// conservando el detalle para el log del servidor (nunca para el cliente).
func wrapInternal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrInternal, op, err)
}
