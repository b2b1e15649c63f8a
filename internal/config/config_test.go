package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "local", cfg.App.Env)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 50, cfg.Revisions.KeepAutosaves)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	data := []byte("app:\n  env: production\n  port: 9090\nrevisions:\n  keep_autosaves: 10\n")
	assert.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, 10, cfg.Revisions.KeepAutosaves)
	assert.False(t, cfg.IsDevelopment())
}

func TestEnvOverridesBeatYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("database:\n  name: from_yaml\n"), 0o600))

	t.Setenv("DB_NAME", "from_env")
	t.Setenv("REVISIONS_KEEP_AUTOSAVES", "7")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Database.Name)
	assert.Equal(t, 7, cfg.Revisions.KeepAutosaves)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("app: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := defaults()
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "db"
	cfg.Database.Port = 3307
	cfg.Database.Name = "coral"
	assert.Equal(t, "u:p@tcp(db:3307)/coral?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}
