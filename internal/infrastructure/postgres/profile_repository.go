package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Carnet-api/internal/domain"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
	"github.com/jhoicas/Carnet-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
// profiles.id es a la vez PK y FK hacia users.id (1:1 por esquema).
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepository construye el adaptador de persistencia para perfiles.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Upsert crea o reemplaza el perfil (equivalente a setDocument).
func (r *ProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, role, blocked, email, display_name, designation, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			role = EXCLUDED.role,
			blocked = EXCLUDED.blocked,
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			designation = EXCLUDED.designation,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Role, p.Blocked, p.Email, p.DisplayName, p.Designation, p.Phone,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// CreateIfAbsent inserta el perfil solo si no existe ya una fila con ese ID.
// ON CONFLICT DO NOTHING: un perfil existente (rol, bloqueo) nunca se pisa
// desde el camino de login.
func (r *ProfileRepo) CreateIfAbsent(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, role, blocked, email, display_name, designation, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Role, p.Blocked, p.Email, p.DisplayName, p.Designation, p.Phone,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID. Devuelve (nil, nil) si no existe.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	query := `
		SELECT id, role, blocked, email, display_name, designation, phone, created_at, updated_at
		FROM profiles WHERE id = $1`
	var p entity.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Role, &p.Blocked, &p.Email, &p.DisplayName, &p.Designation, &p.Phone,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// UpdateRole actualiza role y updated_at. Sin chequeo de versión: entre
// escrituras concurrentes gana la que llegue de última.
func (r *ProfileRepo) UpdateRole(ctx context.Context, id, role string, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET role = $2, updated_at = $3 WHERE id = $1`, id, role, updatedAt)
	if err != nil {
		return fmt.Errorf("update profile role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateBlocked actualiza blocked y updated_at.
func (r *ProfileRepo) UpdateBlocked(ctx context.Context, id string, blocked bool, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET blocked = $2, updated_at = $3 WHERE id = $1`, id, blocked, updatedAt)
	if err != nil {
		return fmt.Errorf("update profile blocked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve perfiles paginados por fecha de actualización.
func (r *ProfileRepo) List(ctx context.Context, limit, offset int) ([]*entity.Profile, error) {
	query := `
		SELECT id, role, blocked, email, display_name, designation, phone, created_at, updated_at
		FROM profiles ORDER BY updated_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.Role, &p.Blocked, &p.Email, &p.DisplayName, &p.Designation, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
