package authz_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Carnet-api/internal/application/audit"
	"github.com/jhoicas/Carnet-api/internal/application/auth"
	"github.com/jhoicas/Carnet-api/internal/application/authz"
	"github.com/jhoicas/Carnet-api/internal/domain"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
	"github.com/jhoicas/Carnet-api/internal/domain/repository"
	"github.com/jhoicas/Carnet-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpdateClaimRole(_ context.Context, id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ClaimRole = role
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

type memProfileRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{byID: make(map[string]*entity.Profile)}
}

func (r *memProfileRepo) Upsert(_ context.Context, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *profile
	r.byID[profile.ID] = &cp
	return nil
}

func (r *memProfileRepo) CreateIfAbsent(_ context.Context, profile *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[profile.ID]; ok {
		return nil
	}
	cp := *profile
	r.byID[profile.ID] = &cp
	return nil
}

func (r *memProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) UpdateRole(_ context.Context, id, role string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	p.Role = role
	p.UpdatedAt = updatedAt
	return nil
}

func (r *memProfileRepo) UpdateBlocked(_ context.Context, id string, blocked bool, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	p.Blocked = blocked
	p.UpdatedAt = updatedAt
	return nil
}

func (r *memProfileRepo) List(_ context.Context, _, _ int) ([]*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type memActivityRepo struct {
	mu      sync.Mutex
	entries []*entity.ActivityEntry
}

func (r *memActivityRepo) Append(_ context.Context, entry *entity.ActivityEntry) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	cp.ID = fmt.Sprintf("act-%d", len(r.entries)+1)
	r.entries = append(r.entries, &cp)
	return cp.ID, nil
}

func (r *memActivityRepo) List(_ context.Context, _ repository.ActivityFilter) ([]*entity.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.ActivityEntry(nil), r.entries...), nil
}

func (r *memActivityRepo) all() []*entity.ActivityEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.ActivityEntry(nil), r.entries...)
}

type memCache struct {
	mu        sync.Mutex
	evictions []string
}

func (c *memCache) Get(_ context.Context, _ string) (*auth.Snapshot, bool) { return nil, false }

func (c *memCache) Set(_ context.Context, _ string, _ *auth.Snapshot) {}

func (c *memCache) Evict(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictions = append(c.evictions, userID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Arnés
// ──────────────────────────────────────────────────────────────────────────────

type authzFixture struct {
	svc      *authz.Service
	users    *memUserRepo
	profiles *memProfileRepo
	activity *memActivityRepo
	audit    *audit.Logger
	cache    *memCache
}

func newAuthzFixture(t *testing.T) *authzFixture {
	t.Helper()
	users := newMemUserRepo()
	profiles := newMemProfileRepo()
	activity := &memActivityRepo{}
	auditLog := audit.New(activity, logger.Nop())
	cache := &memCache{}
	return &authzFixture{
		svc:      authz.NewService(users, profiles, auditLog, cache),
		users:    users,
		profiles: profiles,
		activity: activity,
		audit:    auditLog,
		cache:    cache,
	}
}

// seed inserta identidad y perfil de un usuario en un solo paso.
func (f *authzFixture) seed(t *testing.T, id, email, claimRole, profileRole string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.users.Create(context.Background(), &entity.User{
		ID: id, Email: email, ClaimRole: claimRole, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, f.profiles.Upsert(context.Background(), &entity.Profile{
		ID: id, Email: email, Role: profileRole, CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *authzFixture) claimRoleOf(t *testing.T, id string) string {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u.ClaimRole
}

func (f *authzFixture) profileRoleOf(t *testing.T, id string) string {
	t.Helper()
	p, err := f.profiles.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Role
}

var adminActor = authz.Actor{UserID: "admin-1", Email: "admin@example.com", IP: "10.0.0.2"}

// ──────────────────────────────────────────────────────────────────────────────
// SetRole
// ──────────────────────────────────────────────────────────────────────────────

// El camino feliz: claim firmado y perfil del target quedan con el nuevo rol,
// el snapshot del target se evicta y la entrada de actividad usa el formato
// estable del registro.
func TestSetRole_PromocionCompleta(t *testing.T) {
	f := newAuthzFixture(t)
	f.seed(t, "admin-1", "admin@example.com", entity.RoleAdmin, entity.RoleAdmin)
	f.seed(t, "u2", "ana@example.com", "", "")

	msg, err := f.svc.SetRole(context.Background(), adminActor, "u2", entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "User role set to admin", msg)

	assert.Equal(t, entity.RoleAdmin, f.claimRoleOf(t, "u2"))
	assert.Equal(t, entity.RoleAdmin, f.profileRoleOf(t, "u2"))
	assert.Contains(t, f.cache.evictions, "u2")

	f.audit.Drain()
	entries := f.activity.all()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ActionUpdate, entries[0].Action)
	assert.Equal(t, "admin-1", entries[0].UserID, "el actor del log es el invocador, no el target")
	assert.Equal(t, "Updated role of user u2 to admin", entries[0].Details)
	assert.Equal(t, "10.0.0.2", entries[0].IPAddress)
}

// La autoridad lee el PERFIL del invocador, no su token: un admin demovido
// cuyo token aún trae claim admin no puede escalar. Ninguna mutación ni
// entrada de log queda.
func TestSetRole_TokenViejoNoEscala(t *testing.T) {
	f := newAuthzFixture(t)
	// Demovido: el claim del almacén aún dice admin (no ha habido refresh del
	// perfil), pero el perfil ya dice employee.
	f.seed(t, "demovido", "ex@example.com", entity.RoleAdmin, entity.RoleEmployee)
	f.seed(t, "u2", "ana@example.com", "", "")

	_, err := f.svc.SetRole(context.Background(), authz.Actor{UserID: "demovido", Email: "ex@example.com"}, "u2", entity.RoleAdmin)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
	assert.Empty(t, f.claimRoleOf(t, "u2"), "una precondición fallida no deja mutación")
	f.audit.Drain()
	assert.Empty(t, f.activity.all(), "una precondición fallida no deja entrada de log")
}

func TestSetRole_SinSesion(t *testing.T) {
	f := newAuthzFixture(t)
	_, err := f.svc.SetRole(context.Background(), authz.Actor{}, "u2", entity.RoleAdmin)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

// Rol fuera del conjunto conocido: todo-o-nada, sin mutación parcial ni log.
func TestSetRole_RolInvalido(t *testing.T) {
	f := newAuthzFixture(t)
	f.seed(t, "admin-1", "admin@example.com", entity.RoleAdmin, entity.RoleAdmin)
	f.seed(t, "u2", "ana@example.com", "", "")
	ctx := context.Background()

	for _, bad := range []string{"superuser", "ADMIN", ""} {
		_, err := f.svc.SetRole(ctx, adminActor, "u2", bad)
		require.Error(t, err, "rol %q", bad)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "rol %q", bad)
	}

	assert.Empty(t, f.claimRoleOf(t, "u2"))
	assert.Empty(t, f.profileRoleOf(t, "u2"))
	f.audit.Drain()
	assert.Empty(t, f.activity.all())
}

func TestSetRole_SinTarget(t *testing.T) {
	f := newAuthzFixture(t)
	f.seed(t, "admin-1", "admin@example.com", entity.RoleAdmin, entity.RoleAdmin)

	_, err := f.svc.SetRole(context.Background(), adminActor, "", entity.RoleAdmin)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

// Reintentar la misma asignación es idempotente para el estado y aditivo para
// el registro: dos invocaciones, un solo estado final, dos entradas.
func TestSetRole_ReintentoIdempotenteParaElEstado(t *testing.T) {
	f := newAuthzFixture(t)
	f.seed(t, "admin-1", "admin@example.com", entity.RoleAdmin, entity.RoleAdmin)
	f.seed(t, "u2", "ana@example.com", "", "")
	ctx := context.Background()

	_, err := f.svc.SetRole(ctx, adminActor, "u2", entity.RoleEmployee)
	require.NoError(t, err)
	_, err = f.svc.SetRole(ctx, adminActor, "u2", entity.RoleEmployee)
	require.NoError(t, err)

	assert.Equal(t, entity.RoleEmployee, f.claimRoleOf(t, "u2"))
	assert.Equal(t, entity.RoleEmployee, f.profileRoleOf(t, "u2"))

	f.audit.Drain()
	entries := f.activity.all()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "Updated role of user u2 to employee", e.Details)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// SetBlocked
// ──────────────────────────────────────────────────────────────────────────────

func TestSetBlocked_BloqueaYEvicta(t *testing.T) {
	f := newAuthzFixture(t)
	f.seed(t, "admin-1", "admin@example.com", entity.RoleAdmin, entity.RoleAdmin)
	f.seed(t, "u2", "ana@example.com", entity.RoleAdmin, entity.RoleAdmin)
	ctx := context.Background()

	require.NoError(t, f.svc.SetBlocked(ctx, adminActor, "u2", true))

	p, err := f.profiles.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, p.Blocked)
	// La evicción inmediata cierra la ventana del cache: un admin bloqueado no
	// vuelve a observar su rol elevado.
	assert.Contains(t, f.cache.evictions, "u2")

	f.audit.Drain()
	entries := f.activity.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "Blocked user u2", entries[0].Details)
}

func TestSetBlocked_Desbloquea(t *testing.T) {
	f := newAuthzFixture(t)
	f.seed(t, "admin-1", "admin@example.com", entity.RoleAdmin, entity.RoleAdmin)
	f.seed(t, "u2", "ana@example.com", "", "")
	ctx := context.Background()

	require.NoError(t, f.svc.SetBlocked(ctx, adminActor, "u2", true))
	require.NoError(t, f.svc.SetBlocked(ctx, adminActor, "u2", false))

	p, err := f.profiles.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, p.Blocked)

	f.audit.Drain()
	entries := f.activity.all()
	require.Len(t, entries, 2)
	details := []string{entries[0].Details, entries[1].Details}
	assert.Contains(t, details, "Blocked user u2")
	assert.Contains(t, details, "Unblocked user u2")
}

func TestSetBlocked_RequiereAdmin(t *testing.T) {
	f := newAuthzFixture(t)
	f.seed(t, "empleado", "emp@example.com", entity.RoleEmployee, entity.RoleEmployee)
	f.seed(t, "u2", "ana@example.com", "", "")

	err := f.svc.SetBlocked(context.Background(), authz.Actor{UserID: "empleado"}, "u2", true)
	assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
}

// ──────────────────────────────────────────────────────────────────────────────
// ListUsers
// ──────────────────────────────────────────────────────────────────────────────

func TestListUsers_CombinaIdentidadYPerfil(t *testing.T) {
	f := newAuthzFixture(t)
	f.seed(t, "admin-1", "admin@example.com", entity.RoleAdmin, entity.RoleAdmin)
	f.seed(t, "u2", "ana@example.com", "", entity.RoleEmployee)
	// u3 sin perfil: la fila sale solo con datos de identidad.
	require.NoError(t, f.users.Create(context.Background(), &entity.User{ID: "u3", Email: "solo@example.com"}))

	users, profiles, err := f.svc.ListUsers(context.Background(), adminActor, 50, 0)
	require.NoError(t, err)

	assert.Len(t, users, 3)
	assert.Contains(t, profiles, "u2")
	assert.NotContains(t, profiles, "u3")
}

func TestListUsers_RequiereAdmin(t *testing.T) {
	f := newAuthzFixture(t)
	f.seed(t, "empleado", "emp@example.com", entity.RoleEmployee, entity.RoleEmployee)

	_, _, err := f.svc.ListUsers(context.Background(), authz.Actor{UserID: "empleado"}, 50, 0)
	assert.True(t, errors.Is(err, domain.ErrPermissionDenied))
}
