package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsshhit/vendors/internal/config"
	"github.com/harsshhit/vendors/internal/modules/user"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "APP_PORT", "APP_BASE_URL", "MONGODB_URI", "DATABASE_URL", "MONGODB_DATABASE",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "AUTH_SECRET", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, env[key])
	}
	t.Chdir(t.TempDir())
}

func TestNewApp_RequiresStoreURI(t *testing.T) {
	setEnv(t, nil)

	_, err := newApp()
	assert.ErrorIs(t, err, config.ErrMissingStoreURI)
}

func TestRootCommand_RefusesToServeWithoutStore(t *testing.T) {
	setEnv(t, nil)

	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})
	assert.ErrorIs(t, cmd.Execute(), config.ErrMissingStoreURI)
}

func TestRouter_ServesVendors(t *testing.T) {
	setEnv(t, map[string]string{"MONGODB_URI": "memory://", "LOG_LEVEL": "error"})

	a, err := newApp()
	require.NoError(t, err)
	require.NoError(t, a.open(context.Background()))
	t.Cleanup(func() { a.close(context.Background()) })

	router, err := a.router()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/vendors",
		strings.NewReader(`{"name":"ABC Corporation","bankAccountNo":"1234567890","bankName":"Chase Bank"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vendors?page=1&limit=10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ABC Corporation"`)

	// Sign-in routes are only mounted when credentials are configured.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AuthNeedsSecret(t *testing.T) {
	setEnv(t, map[string]string{
		"MONGODB_URI":          "memory://",
		"GOOGLE_CLIENT_ID":     "id",
		"GOOGLE_CLIENT_SECRET": "secret",
		"LOG_LEVEL":            "error",
	})

	a, err := newApp()
	require.NoError(t, err)

	_, err = a.router()
	assert.Error(t, err)
}

func TestRouter_MountsAuthRoutes(t *testing.T) {
	setEnv(t, map[string]string{
		"MONGODB_URI":          "memory://",
		"GOOGLE_CLIENT_ID":     "id",
		"GOOGLE_CLIENT_SECRET": "secret",
		"AUTH_SECRET":          "session-secret",
		"LOG_LEVEL":            "error",
	})

	a, err := newApp()
	require.NoError(t, err)
	router, err := a.router()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/signin", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "accounts.google.com")

	// A user record is never served anonymously.
	u, err := user.NewService(a.users).RecordSignIn(context.Background(), "ada@example.com", "Ada", "")
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+u.ID, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "ada@example.com")
}
