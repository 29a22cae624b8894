// Package card genera la tarjeta de visita de un empleado y deja constancia
// del evento en el registro de actividad.
package card

import (
	"context"
	"fmt"

	"github.com/jhoicas/Carnet-api/internal/application/audit"
	"github.com/jhoicas/Carnet-api/internal/application/authz"
	"github.com/jhoicas/Carnet-api/internal/domain"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
	"github.com/jhoicas/Carnet-api/internal/domain/repository"
)

// Renderer es el puerto de presentación: produce los bytes del PDF de la
// tarjeta. La autorización y el registro de actividad quedan fuera de él.
type Renderer interface {
	RenderCard(ctx context.Context, employee *entity.Employee) ([]byte, error)
}

// UseCase generación de tarjetas de visita.
type UseCase struct {
	employees repository.EmployeeRepository
	renderer  Renderer
	audit     *audit.Logger
}

// NewUseCase construye el caso de uso de tarjetas.
func NewUseCase(employees repository.EmployeeRepository, renderer Renderer, auditLog *audit.Logger) *UseCase {
	return &UseCase{employees: employees, renderer: renderer, audit: auditLog}
}

// Generate produce el PDF de la tarjeta del empleado y registra el evento
// card_generated con el actor de la sesión actual. El registro es
// fire-and-forget: su fallo no afecta la entrega del PDF.
func (uc *UseCase) Generate(ctx context.Context, actor authz.Actor, employeeID string) ([]byte, error) {
	emp, err := uc.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: buscar empleado: %v", domain.ErrInternal, err)
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	pdf, err := uc.renderer.RenderCard(ctx, emp)
	if err != nil {
		return nil, fmt.Errorf("%w: render tarjeta: %v", domain.ErrInternal, err)
	}
	uc.audit.Go(audit.Entry{
		Action:    entity.ActionCardGenerated,
		UserID:    actor.UserID,
		UserEmail: actor.Email,
		Details:   fmt.Sprintf("Generated visiting card for %s", emp.FullName),
		IPAddress: actor.IP,
	})
	return pdf, nil
}
