package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEnv_LoadsExistingFiles(t *testing.T) {
	tmp := t.TempDir()
	envPath := filepath.Join(tmp, ".env.local")
	require.NoError(t, os.WriteFile(envPath, []byte("CAMPUS_TEST_ENV_LOAD=ok\n"), 0o644))

	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmp))

	_ = os.Unsetenv("CAMPUS_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ok", os.Getenv("CAMPUS_TEST_ENV_LOAD"))
}

func TestLoadEnv_NoFiles(t *testing.T) {
	tmp := t.TempDir()
	origWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmp))

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	opts := DatabaseOptions{
		Name:     "campus",
		Host:     "db",
		Port:     "5433",
		User:     "app",
		Password: "secret",
	}
	require.Equal(
		t,
		"host=db port=5433 user=app dbname=campus password=secret sslmode=disable",
		opts.ConnectionString(),
	)
}

func TestConfiguration_LogrusLogLevel(t *testing.T) {
	c := &Configuration{LogLevel: "debug"}
	require.Equal(t, "debug", c.LogLevel)
	require.Equal(t, c.LogrusLogLevel().String(), "debug")

	c.LogLevel = "bogus"
	require.Equal(t, "error", c.LogrusLogLevel().String())
}
