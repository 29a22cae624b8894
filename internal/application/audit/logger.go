// Package audit implementa la escritura append-only del registro de
// actividad. Cada entrada se escribe una sola vez, con timestamp asignado
// por el servidor de datos, y nunca se edita ni se borra.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Carnet-api/internal/domain"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
	"github.com/jhoicas/Carnet-api/internal/domain/repository"
	"github.com/jhoicas/Carnet-api/pkg/logger"
)

// Entry datos de una entrada a registrar. Solo Action es obligatorio: el
// resto puede venir vacío y se persiste tal cual (la completitud del registro
// pesa más que la validación estricta).
type Entry struct {
	Action    string
	UserID    string
	UserEmail string
	Details   string
	IPAddress string
}

// Logger escribe entradas de actividad. Record es síncrono; Go despacha la
// escritura en segundo plano para que la latencia o el fallo del registro
// nunca afecten el resultado de la operación primaria que lo disparó.
type Logger struct {
	repo     repository.ActivityRepository
	log      *logger.Logger
	inflight sync.WaitGroup
	timeout  time.Duration
}

// New construye el logger de actividad.
func New(repo repository.ActivityRepository, log *logger.Logger) *Logger {
	return &Logger{repo: repo, log: log, timeout: 10 * time.Second}
}

// Record valida y persiste una entrada. Action vacío es la única causa de
// rechazo; los demás campos se registran tal como llegan.
func (l *Logger) Record(ctx context.Context, e Entry) error {
	if e.Action == "" {
		return fmt.Errorf("%w: action es requerido", domain.ErrInvalidArgument)
	}
	entry := &entity.ActivityEntry{
		Action:    e.Action,
		UserID:    e.UserID,
		UserEmail: e.UserEmail,
		Details:   e.Details,
		IPAddress: e.IPAddress,
	}
	if _, err := l.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("%w: append activity: %v", domain.ErrInternal, err)
	}
	return nil
}

// Go registra la entrada en una goroutine propia. El fallo se reporta por el
// canal operacional (zerolog) y se descarta: la operación primaria ya quedó
// confirmada y no debe revertirse por un fallo del registro.
func (l *Logger) Go(e Entry) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		if err := l.Record(ctx, e); err != nil {
			l.log.Error().
				Err(err).
				Str("action", e.Action).
				Str("user_id", e.UserID).
				Msg("escritura de actividad fallida")
		}
	}()
}

// Drain espera a que terminen las escrituras en vuelo. Se usa en el apagado
// del proceso para no perder entradas pendientes.
func (l *Logger) Drain() {
	l.inflight.Wait()
}

// List devuelve entradas filtradas, ordenadas por timestamp de servidor
// descendente.
func (l *Logger) List(ctx context.Context, filter repository.ActivityFilter) ([]*entity.ActivityEntry, error) {
	entries, err := l.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list activity: %v", domain.ErrInternal, err)
	}
	return entries, nil
}
