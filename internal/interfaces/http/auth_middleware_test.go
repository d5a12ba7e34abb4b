package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fichas-api/internal/application/auth"
	"github.com/jhoicas/fichas-api/internal/domain/entity"
	apphttp "github.com/jhoicas/fichas-api/internal/interfaces/http"
	"github.com/jhoicas/fichas-api/internal/testutil/memstore"
	pkgjwt "github.com/jhoicas/fichas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "fichas-test"
	testExpMin    = 60

	adminID     = "00000000-0000-0000-0000-000000000001"
	atendenteID = "00000000-0000-0000-0000-000000000002"
	noRoleID    = "00000000-0000-0000-0000-000000000003"
)

func newAuthStore() (*memstore.Store, *auth.AuthUseCase) {
	store := memstore.New()
	store.SeedUser(entity.User{ID: adminID, Username: "admin", Name: "Administrador", Role: entity.RoleAdmin})
	store.SeedUser(entity.User{ID: atendenteID, Username: "maria", Name: "Maria", Role: entity.RoleAtendente})
	store.SeedUser(entity.User{ID: noRoleID, Username: "legado", Name: "Legado"})
	return store, auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el token y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(t *testing.T, allowedRoles ...string) *fiber.App {
	t.Helper()
	_, uc := newAuthStore()
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(uc),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT para el usuario indicado.
func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, "u", role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// El usuario tiene el rol requerido → HTTP 200.
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, tokenFor(t, adminID, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

// Uno de los roles permitidos → HTTP 200.
func TestRequireRole_AtendenteAccedeRutaMultiRol(t *testing.T) {
	app := buildTestApp(t, "admin", "atendente")
	resp := doRequest(t, app, tokenFor(t, atendenteID, "atendente"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Rol distinto al requerido → HTTP 403 Forbidden.
func TestRequireRole_AtendenteBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, tokenFor(t, atendenteID, "atendente"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// El rol sale del usuario guardado, no del claim: un token que dice admin no eleva a un atendente.
func TestRequireRole_ClaimAdminNoElevaAtendente(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, tokenFor(t, atendenteID, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Usuario sin rol → HTTP 401 MISSING_ROLE.
func TestRequireRole_UsuarioSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, tokenFor(t, noRoleID, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// Sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// Token válido de un usuario que ya no existe → HTTP 401.
func TestAuthMiddleware_UsuarioInexistente_Retorna401(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, tokenFor(t, "00000000-0000-0000-0000-000000000099", "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: identidad en locals
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CargaIdentidad(t *testing.T) {
	_, uc := newAuthStore()
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(uc), func(c *fiber.Ctx) error {
		staff := apphttp.GetStaff(c)
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"nome":    staff.StaffName,
			"role":    apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, atendenteID, "atendente"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, atendenteID, body["user_id"])
	assert.Equal(t, "Maria", body["nome"])
	assert.Equal(t, "atendente", body["role"])
}
