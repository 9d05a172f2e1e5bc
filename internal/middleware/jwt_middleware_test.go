package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, mw echo.MiddlewareFunc, gate func(echo.HandlerFunc) echo.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	h := handler
	if gate != nil {
		h = gate(h)
	}
	h = mw(h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h(c))
	return rec
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "student@example.com", model.RoleStudent, 1)
	require.NoError(t, err)

	rec := doRequest(t, JWTMiddleware(), nil, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddlewareRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, JWTMiddleware(), nil, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		gate     func(echo.HandlerFunc) echo.HandlerFunc
		wantCode int
	}{
		{"student blocked from admin", model.RoleStudent, AdminOnly, http.StatusForbidden},
		{"admin passes admin gate", model.RoleAdmin, AdminOnly, http.StatusOK},
		{"super admin passes admin gate", model.RoleSuperAdmin, AdminOnly, http.StatusOK},
		{"admin blocked from super admin gate", model.RoleAdmin, SuperAdminOnly, http.StatusForbidden},
		{"super admin passes super admin gate", model.RoleSuperAdmin, SuperAdminOnly, http.StatusOK},
		{"student blocked from instructor gate", model.RoleStudent, InstructorOnly, http.StatusForbidden},
		{"instructor passes instructor gate", model.RoleInstructor, InstructorOnly, http.StatusOK},
		{"admin passes instructor gate", model.RoleAdmin, InstructorOnly, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(uuid.New(), "user@example.com", tt.role, 1)
			require.NoError(t, err)

			rec := doRequest(t, JWTMiddleware(), tt.gate, "Bearer "+token)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestGetClaimsRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateToken(userID, "teach@example.com", model.RoleInstructor, 1)
	require.NoError(t, err)

	e := echo.New()
	var got *Claims
	h := JWTMiddleware()(func(c echo.Context) error {
		got = GetClaims(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	require.NotNil(t, got)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "teach@example.com", got.Email)
	assert.Equal(t, model.RoleInstructor, got.Role)
}
