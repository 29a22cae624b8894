package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Carnet-api/internal/application/auth"
	"github.com/jhoicas/Carnet-api/internal/application/dto"
	"github.com/jhoicas/Carnet-api/internal/domain"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/Carnet-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

// fakeResolver devuelve un snapshot fijo o un error, sin tocar DB ni cache.
type fakeResolver struct {
	snap *auth.Snapshot
	err  error
}

func (f *fakeResolver) Resolve(_ context.Context, _ *pkgjwt.Claims) (*auth.Snapshot, error) {
	return f.snap, f.err
}

// newProtectedApp monta una ruta con la cadena completa de middlewares y un
// handler que expone el rol efectivo resuelto.
func newProtectedApp(resolver *fakeResolver, roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protegido", AuthMiddleware(testSecret), RequireRole(resolver, roles...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"effective_role": GetEffectiveRole(c)})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body dto.ErrorResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &body)
	return resp, body
}

func generateToken(t *testing.T, role string, expMinutes int) string {
	t.Helper()
	token, err := pkgjwt.Generate(testSecret, "u1", "ana@example.com", role, "carnet-api", expMinutes)
	require.NoError(t, err)
	return token
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware — autenticación del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{EffectiveRole: entity.RoleAdmin}})

	resp, body := doRequest(t, app, "")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}

func TestAuthMiddleware_EsquemaInvalido(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{EffectiveRole: entity.RoleAdmin}})

	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{EffectiveRole: entity.RoleAdmin}})

	resp, body := doRequest(t, app, "no-es-un-jwt")

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{EffectiveRole: entity.RoleAdmin}})

	resp, body := doRequest(t, app, generateToken(t, entity.RoleAdmin, -5))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{EffectiveRole: entity.RoleAdmin}})

	token, err := pkgjwt.Generate("otro-secreto", "u1", "ana@example.com", entity.RoleAdmin, "carnet-api", 60)
	require.NoError(t, err)
	resp, body := doRequest(t, app, token)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole — gating por rol efectivo
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminPermitido(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{UserID: "u1", EffectiveRole: entity.RoleAdmin}}, entity.RoleAdmin)

	resp, _ := doRequest(t, app, generateToken(t, entity.RoleAdmin, 60))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// El mensaje de privilegios insuficientes es distinto del de "no autenticado":
// la sesión es válida, el rol no alcanza.
func TestRequireRole_RolInsuficiente(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{UserID: "u1", EffectiveRole: entity.RoleEmployee}}, entity.RoleAdmin)

	resp, body := doRequest(t, app, generateToken(t, entity.RoleEmployee, 60))

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PERMISSION_DENIED", body.Code)
}

// Sin rol efectivo toda ruta protegida se niega, incluso sin restricción de
// roles: sin rol no es error de sesión, pero tampoco abre puertas.
func TestRequireRole_SinRolEfectivo(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{UserID: "u1"}})

	resp, body := doRequest(t, app, generateToken(t, "", 60))

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PERMISSION_DENIED", body.Code)
}

// Sin lista de roles, cualquier rol efectivo no vacío pasa, incluido el que
// viene del respaldo de perfil (token sin claim de rol).
func TestRequireRole_CualquierRolConRespaldoDePerfil(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{
		UserID:        "u1",
		ProfileRole:   entity.RoleEmployee,
		EffectiveRole: entity.RoleEmployee,
	}})

	resp, _ := doRequest(t, app, generateToken(t, "", 60))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Cuenta bloqueada: 403 con el código estable BLOCKED y el mensaje de la capa
// de presentación. El rol nunca llega al handler.
func TestRequireRole_CuentaBloqueada(t *testing.T) {
	app := newProtectedApp(&fakeResolver{err: domain.ErrBlocked}, entity.RoleAdmin)

	resp, body := doRequest(t, app, generateToken(t, entity.RoleAdmin, 60))

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "BLOCKED", body.Code)
	assert.Equal(t, "Tu cuenta ha sido bloqueada. Contacta al administrador.", body.Message)
}

func TestRequireRole_ExponeElRolAlHandler(t *testing.T) {
	app := newProtectedApp(&fakeResolver{snap: &auth.Snapshot{UserID: "u1", EffectiveRole: entity.RoleAdmin}}, entity.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+generateToken(t, entity.RoleAdmin, 60))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.RoleAdmin, body["effective_role"])
}
