package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Carnet-api/internal/domain/entity"
	"github.com/jhoicas/Carnet-api/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo implementación append-only del registro de actividad.
// created_at lo asigna la DB (now()): el reloj del cliente no se confía y el
// orden entre entradas es siempre el del servidor.
type ActivityRepo struct {
	pool *pgxpool.Pool
}

// NewActivityRepository construye el adaptador del registro de actividad.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

// Append inserta una entrada independiente (sin read-modify-write: los
// escritores concurrentes nunca entran en conflicto).
func (r *ActivityRepo) Append(ctx context.Context, entry *entity.ActivityEntry) (string, error) {
	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}
	query := `
		INSERT INTO activity_logs (id, action, user_id, user_email, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		id, entry.Action, entry.UserID, entry.UserEmail, entry.Details, entry.IPAddress,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("append activity: %w", err)
	}
	entry.ID = id
	return id, nil
}

// List devuelve entradas ordenadas por timestamp de servidor descendente,
// con filtros opcionales por acción y actor.
func (r *ActivityRepo) List(ctx context.Context, filter repository.ActivityFilter) ([]*entity.ActivityEntry, error) {
	query := `
		SELECT id, action, user_id, user_email, details, COALESCE(ip_address, ''), created_at
		FROM activity_logs
		WHERE ($1 = '' OR action = $1)
		  AND ($2 = '' OR user_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, filter.Action, filter.UserID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityEntry
	for rows.Next() {
		var e entity.ActivityEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.UserID, &e.UserEmail, &e.Details, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
