package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.False(t, cfg.Offline)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "root: /srv/lake\noffline: true\nfetch_timeout: 30s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ingestr.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/lake", cfg.Root)
	assert.True(t, cfg.Offline)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ingestr.yaml"), []byte("root: /from/file\n"), 0o644))
	t.Setenv("INGESTR_ROOT", "/from/env")
	t.Setenv("INGESTR_OFFLINE", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Root)
	assert.True(t, cfg.Offline)
}

func TestLoadMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ingestr.yaml"), []byte(":\n\t- not yaml"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestGetRootDir(t *testing.T) {
	tests := []struct {
		name string
		env  string
		cfg  *Config
		want string
	}{
		{name: "env wins", env: "/srv/data", cfg: &Config{Root: "/other"}, want: "/srv/data"},
		{name: "config when no env", cfg: &Config{Root: "/other"}, want: "/other"},
		{name: "default when empty", cfg: &Config{}, want: "."},
		{name: "default when nil", cfg: nil, want: "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("INGESTR_ROOT", tt.env)
			} else {
				t.Setenv("INGESTR_ROOT", "")
			}
			if got := GetRootDir(tt.cfg); got != tt.want {
				t.Errorf("GetRootDir() = %q, want %q", got, tt.want)
			}
		})
	}
}
