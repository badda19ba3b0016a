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

	apphttp "github.com/jhoicas/segvenc-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/segvenc-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testAudience   = "authenticated"
	testAuthUserID = "00000000-0000-0000-0000-00000000a001"
	testEmail      = "admin@empresa.com"
	testExpMin     = 60
)

// bearer genera un JWT válido para la identidad indicada.
func bearer(t *testing.T, authUserID, email string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, authUserID, email, testAudience, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, method, path, authHeader string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func buildAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, testAudience), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"auth_user_id": apphttp.GetAuthUserID(c),
			"email":        apphttp.GetEmail(c),
		})
	})
	return app
}

func TestAuthMiddleware_ExtraeIdentidad(t *testing.T) {
	resp := doRequest(t, buildAuthApp(), http.MethodGet, "/me", bearer(t, testAuthUserID, testEmail), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testAuthUserID, body["auth_user_id"])
	assert.Equal(t, testEmail, body["email"])
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildAuthApp(), http.MethodGet, "/me", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	cases := map[string]string{
		"malformado":      "Bearer token.invalido.aqui",
		"sin esquema":     "token-suelto",
		"otra audiencia":  "",
		"secret distinto": "",
	}
	other, err := pkgjwt.Generate(testJWTSecret, testAuthUserID, testEmail, "otra-app", testExpMin)
	require.NoError(t, err)
	cases["otra audiencia"] = "Bearer " + other
	forged, err := pkgjwt.Generate("otro-secret", testAuthUserID, testEmail, testAudience, testExpMin)
	require.NoError(t, err)
	cases["secret distinto"] = "Bearer " + forged

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, buildAuthApp(), http.MethodGet, "/me", header, nil)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// buildRoleApp simula TenantMiddleware cargando el rol en locals.
func buildRoleApp(role string, allowed ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		func(c *fiber.Ctx) error {
			if role != "" {
				c.Locals(apphttp.LocalRole, role)
			}
			return c.Next()
		},
		apphttp.RequireRole(allowed...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	resp := doRequest(t, buildRoleApp("admin", "admin"), http.MethodGet, "/protected", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin debe poder acceder a ruta restringida a admin")
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	resp := doRequest(t, buildRoleApp("user", "admin"), http.MethodGet, "/protected", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
}

func TestRequireRole_SinRol_Retorna401(t *testing.T) {
	resp := doRequest(t, buildRoleApp("", "admin"), http.MethodGet, "/protected", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, resp))
}
