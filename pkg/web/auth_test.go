package web_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/web"
)

const testJWTSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestJWTAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
	}{
		{
			name: "valid token with org claim",
			authorization: "Bearer " + signToken(t, jwt.SigningMethodHS256, testJWTSecret, jwt.MapClaims{
				"org": "org-jwt",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusOK,
		},
		{
			name: "wrong secret",
			authorization: "Bearer " + signToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{
				"org": "org-jwt",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing org claim",
			authorization: "Bearer " + signToken(t, jwt.SigningMethodHS256, testJWTSecret, jwt.MapClaims{
				"sub": "user-1",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			authorization: "Bearer " + signToken(t, jwt.SigningMethodHS256, testJWTSecret, jwt.MapClaims{
				"org": "org-jwt",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "rejected signing method",
			authorization: "Bearer " + signToken(t, jwt.SigningMethodHS384, testJWTSecret, jwt.MapClaims{
				"org": "org-jwt",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed authorization header",
			authorization:  "Bearer",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not a bearer scheme",
			authorization:  "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing header",
			authorization:  "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, _ := setupTestAppWithAuth(t, web.AuthConfig{JWTSecret: testJWTSecret})

			req := httptest.NewRequest(http.MethodGet, "/projects/", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestJWTAuthScopesOrganization(t *testing.T) {
	t.Parallel()

	app, p := setupTestAppWithAuth(t, web.AuthConfig{JWTSecret: testJWTSecret})
	ctx := context.Background()

	require.NoError(t, p.StaffRepository().Create(ctx, &models.StaffMember{
		ID:             "staff-1",
		OrganizationID: "org-a",
		Name:           "Dana Smith",
		Availability:   models.Availability{MaxConcurrentTasks: 3},
		IsActive:       true,
	}))
	require.NoError(t, p.StaffRepository().Create(ctx, &models.StaffMember{
		ID:             "staff-2",
		OrganizationID: "org-b",
		Name:           "Lee Park",
		Availability:   models.Availability{MaxConcurrentTasks: 3},
		IsActive:       true,
	}))

	token := signToken(t, jwt.SigningMethodHS256, testJWTSecret, jwt.MapClaims{
		"org": "org-a",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/staff/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var list struct {
		Staff []models.StaffMember `json:"staff"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Staff, 1)
	assert.Equal(t, "staff-1", list.Staff[0].ID)
}

func TestJWTAuthIgnoresOrgHeader(t *testing.T) {
	t.Parallel()

	// with a secret configured, the dev header must not bypass token auth
	app, _ := setupTestAppWithAuth(t, web.AuthConfig{JWTSecret: testJWTSecret, AllowOrgHeader: true})

	req := httptest.NewRequest(http.MethodGet, "/projects/", nil)
	req.Header.Set("X-Organization-ID", "org-sneaky")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
