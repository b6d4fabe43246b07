package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
auth:
  jwt_secret: "from-file-secret-123"
finance:
  income_categories: ["DP Proyek", "Pelunasan"]
`)
	t.Setenv("DATABASE_URL", "postgres://vena@localhost/vena?sslmode=disable")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "postgres://vena@localhost/vena?sslmode=disable", cfg.Database.DSN)
	require.Equal(t, "from-file-secret-123", cfg.Auth.JWTSecret)
	require.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, "./files", cfg.Files.RootDir)
	require.Equal(t, int64(5<<20), cfg.Files.MaxProofBytes)
	require.Equal(t, "DP Proyek", cfg.Finance.DepositCategory)
	require.Equal(t, []string{"DP Proyek", "Pelunasan"}, cfg.Finance.IncomeCategories)
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: short\n")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
