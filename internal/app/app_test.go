package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udhar-ledger/internal/adapter/metrics"
	"udhar-ledger/internal/config"
	"udhar-ledger/internal/testutil/dbtest"
	"udhar-ledger/internal/testutil/notifymock"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("UPLOAD_DIR", t.TempDir())
	cfg := config.Load()
	return Wire(cfg, nil, dbtest.Open(t), nil, metrics.New(), &notifymock.Recorder{})
}

func TestBootstrap_CreatesAdminOnce(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	created, err := a.Bootstrap(ctx)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.True(t, created.IsAdmin)
	assert.Equal(t, a.Config.AdminPhone, created.Phone)

	again, err := a.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Nil(t, again, "an existing admin is left alone")
}

func TestMigrate_NothingPendingOnMigratedDB(t *testing.T) {
	a := newTestApp(t)
	applied, err := a.Migrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestRouter_ServesHealth(t *testing.T) {
	a := newTestApp(t)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSettingsFallBackToConfig(t *testing.T) {
	t.Setenv("DEFAULT_INTEREST_RATE", "0.25")
	a := newTestApp(t)
	rate, err := a.Settings.DefaultInterestRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.25, rate)
}
