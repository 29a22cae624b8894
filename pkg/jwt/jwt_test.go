package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Carnet-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "ana@example.com", "admin", "carnet-api", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "carnet-api", claims.Issuer)
}

// role vacío es válido: el token se emite sin claim de rol y se parsea con
// Role vacío (usuario sin rol elevado).
func TestGenerate_RolVacio(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "ana@example.com", "", "carnet-api", 60)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u1", "ana@example.com", "admin", "carnet-api", 60)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate(secret, "u1", "ana@example.com", "admin", "carnet-api", -5)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("otro-secreto", "u1", "ana@example.com", "admin", "carnet-api", 60)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestParse_BasuraNoEsToken(t *testing.T) {
	_, err := jwt.Parse(secret, "no.es.jwt")
	assert.Error(t, err)
}
