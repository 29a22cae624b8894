// Package employee implementa el CRUD de empleados. Cada mutación
// privilegiada deja su entrada en el registro de actividad como efecto
// secundario, nunca como condición del resultado.
package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Carnet-api/internal/application/audit"
	"github.com/jhoicas/Carnet-api/internal/application/authz"
	"github.com/jhoicas/Carnet-api/internal/application/dto"
	"github.com/jhoicas/Carnet-api/internal/domain"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
	"github.com/jhoicas/Carnet-api/internal/domain/repository"
)

// UseCase casos de uso de empleados.
type UseCase struct {
	repo  repository.EmployeeRepository
	audit *audit.Logger
}

// NewUseCase construye el caso de uso de empleados.
func NewUseCase(repo repository.EmployeeRepository, auditLog *audit.Logger) *UseCase {
	return &UseCase{repo: repo, audit: auditLog}
}

// Create registra un empleado nuevo.
func (uc *UseCase) Create(ctx context.Context, actor authz.Actor, in dto.EmployeeRequest) (*entity.Employee, error) {
	if in.FullName == "" {
		return nil, fmt.Errorf("%w: full_name es requerido", domain.ErrInvalidArgument)
	}
	now := time.Now()
	emp := &entity.Employee{
		ID:          uuid.New().String(),
		FullName:    in.FullName,
		Designation: in.Designation,
		Department:  in.Department,
		Email:       in.Email,
		Phone:       in.Phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, emp); err != nil {
		return nil, fmt.Errorf("%w: crear empleado: %v", domain.ErrInternal, err)
	}
	uc.audit.Go(audit.Entry{
		Action:    entity.ActionCreate,
		UserID:    actor.UserID,
		UserEmail: actor.Email,
		Details:   fmt.Sprintf("Created employee %s", emp.FullName),
		IPAddress: actor.IP,
	})
	return emp, nil
}

// Update actualiza un empleado existente.
func (uc *UseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.EmployeeRequest) (*entity.Employee, error) {
	if in.FullName == "" {
		return nil, fmt.Errorf("%w: full_name es requerido", domain.ErrInvalidArgument)
	}
	emp, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: buscar empleado: %v", domain.ErrInternal, err)
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	emp.FullName = in.FullName
	emp.Designation = in.Designation
	emp.Department = in.Department
	emp.Email = in.Email
	emp.Phone = in.Phone
	emp.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, emp); err != nil {
		return nil, fmt.Errorf("%w: actualizar empleado: %v", domain.ErrInternal, err)
	}
	uc.audit.Go(audit.Entry{
		Action:    entity.ActionUpdate,
		UserID:    actor.UserID,
		UserEmail: actor.Email,
		Details:   fmt.Sprintf("Updated employee %s", emp.FullName),
		IPAddress: actor.IP,
	})
	return emp, nil
}

// Delete elimina un empleado.
func (uc *UseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	emp, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: buscar empleado: %v", domain.ErrInternal, err)
	}
	if emp == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: eliminar empleado: %v", domain.ErrInternal, err)
	}
	uc.audit.Go(audit.Entry{
		Action:    entity.ActionDelete,
		UserID:    actor.UserID,
		UserEmail: actor.Email,
		Details:   fmt.Sprintf("Deleted employee %s", emp.FullName),
		IPAddress: actor.IP,
	})
	return nil
}

// GetByID devuelve un empleado.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	emp, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: buscar empleado: %v", domain.ErrInternal, err)
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	return emp, nil
}

// List devuelve empleados paginados.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Employee, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: listar empleados: %v", domain.ErrInternal, err)
	}
	return list, nil
}
