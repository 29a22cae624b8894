// Package authz implementa la autoridad de claims: el único camino por el
// que cambia el nivel de autorización de un principal. Las precondiciones se
// verifican en orden fijo y los efectos (claim firmado, perfil, log) se
// secuencian dentro de una misma invocación.
package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Carnet-api/internal/application/audit"
	"github.com/jhoicas/Carnet-api/internal/application/auth"
	"github.com/jhoicas/Carnet-api/internal/domain"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
	"github.com/jhoicas/Carnet-api/internal/domain/repository"
)

// Actor identifica al invocador de una mutación privilegiada.
type Actor struct {
	UserID string
	Email  string
	IP     string
}

// Service autoridad de claims y mutaciones administrativas sobre cuentas.
type Service struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	audit    *audit.Logger
	cache    auth.SessionCache // puede ser nil
}

// NewService construye la autoridad de claims. cache puede ser nil.
func NewService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	auditLog *audit.Logger,
	cache auth.SessionCache,
) *Service {
	return &Service{users: users, profiles: profiles, audit: auditLog, cache: cache}
}

// SetRole cambia el rol de targetID a newRole. Precondiciones en orden:
// sesión del invocador, rol admin en el PERFIL del invocador (no en su token,
// que puede traer un claim viejo tras una democión), y argumentos válidos.
// Ninguna precondición fallida deja mutación ni entrada de log.
//
// El nuevo claim no alcanza al token vivo del target hasta que este haga
// refresh; quien necesite efecto inmediato debe forzarlo. Un fallo de store a
// mitad de camino se reporta como interno y no se revierte: reintentar es
// idempotente para el estado (y aditivo para el log).
func (s *Service) SetRole(ctx context.Context, actor Actor, targetID, newRole string) (string, error) {
	caller, err := s.requireAdmin(ctx, actor)
	if err != nil {
		return "", err
	}
	if targetID == "" || newRole == "" {
		return "", fmt.Errorf("%w: se requieren usuario y rol", domain.ErrInvalidArgument)
	}
	if !entity.ValidRole(newRole) {
		return "", fmt.Errorf("%w: rol debe ser admin o employee", domain.ErrInvalidArgument)
	}

	// Efecto a: claim firmado del target en el almacén de identidad.
	if err := s.users.UpdateClaimRole(ctx, targetID, newRole); err != nil {
		return "", fmt.Errorf("%w: actualizar claim: %v", domain.ErrInternal, err)
	}
	// Efecto b: rol de respaldo en el perfil. Último write gana entre
	// invocaciones concurrentes sobre el mismo target.
	if err := s.profiles.UpdateRole(ctx, targetID, newRole, time.Now()); err != nil {
		return "", fmt.Errorf("%w: actualizar perfil: %v", domain.ErrInternal, err)
	}
	if s.cache != nil {
		s.cache.Evict(ctx, targetID)
	}
	// Efecto c: entrada de actividad, sin bloquear el resultado primario.
	s.audit.Go(audit.Entry{
		Action:    entity.ActionUpdate,
		UserID:    caller.ID,
		UserEmail: caller.Email,
		Details:   fmt.Sprintf("Updated role of user %s to %s", targetID, newRole),
		IPAddress: actor.IP,
	})

	return fmt.Sprintf("User role set to %s", newRole), nil
}

// SetBlocked bloquea o desbloquea la cuenta de targetID. El snapshot del
// target se evicta de inmediato para que un admin bloqueado nunca vuelva a
// observar su rol elevado, ni siquiera dentro de la ventana del cache.
func (s *Service) SetBlocked(ctx context.Context, actor Actor, targetID string, blocked bool) error {
	caller, err := s.requireAdmin(ctx, actor)
	if err != nil {
		return err
	}
	if targetID == "" {
		return fmt.Errorf("%w: se requiere usuario", domain.ErrInvalidArgument)
	}
	if err := s.profiles.UpdateBlocked(ctx, targetID, blocked, time.Now()); err != nil {
		return fmt.Errorf("%w: actualizar bloqueo: %v", domain.ErrInternal, err)
	}
	if s.cache != nil {
		s.cache.Evict(ctx, targetID)
	}
	details := fmt.Sprintf("Blocked user %s", targetID)
	if !blocked {
		details = fmt.Sprintf("Unblocked user %s", targetID)
	}
	s.audit.Go(audit.Entry{
		Action:    entity.ActionUpdate,
		UserID:    caller.ID,
		UserEmail: caller.Email,
		Details:   details,
		IPAddress: actor.IP,
	})
	return nil
}

// ListUsers devuelve el listado combinado identidad+perfil para la pantalla
// de administración.
func (s *Service) ListUsers(ctx context.Context, actor Actor, limit, offset int) ([]*entity.User, map[string]*entity.Profile, error) {
	if _, err := s.requireAdmin(ctx, actor); err != nil {
		return nil, nil, err
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: listar usuarios: %v", domain.ErrInternal, err)
	}
	profiles := make(map[string]*entity.Profile, len(users))
	for _, u := range users {
		p, err := s.profiles.GetByID(ctx, u.ID)
		if err != nil || p == nil {
			continue // perfil ausente: la fila sale solo con datos de identidad
		}
		profiles[u.ID] = p
	}
	return users, profiles, nil
}

// requireAdmin verifica sesión y privilegio leyendo el PERFIL del invocador.
// Leer el perfil y no el token cierra la escalada por claim viejo: un admin
// demovido con token aún elevado falla aquí.
func (s *Service) requireAdmin(ctx context.Context, actor Actor) (*entity.Profile, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	caller, err := s.profiles.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: leer perfil del invocador: %v", domain.ErrInternal, err)
	}
	if caller == nil || caller.Role != entity.RoleAdmin {
		return nil, domain.ErrPermissionDenied
	}
	return caller, nil
}
