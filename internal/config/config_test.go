package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "sheet-analytics", cfg.App.Name)
	require.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	require.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL())
	require.Equal(t, 10, cfg.Auth.BcryptCost)
	require.EqualValues(t, 10<<20, cfg.Upload.MaxFileSizeBytes())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("APP_PORT", "8081")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_HOURS", "2")
	t.Setenv("UPLOAD_MAX_FILE_SIZE_MB", "1")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8081", cfg.App.Port)
	require.Equal(t, 2*time.Hour, cfg.Auth.AccessTokenTTL())
	require.EqualValues(t, 1<<20, cfg.Upload.MaxFileSizeBytes())
}
