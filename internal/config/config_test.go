package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/fogwall"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "fogwall", cfg.Logger.ServiceName)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 3*time.Second, cfg.Gallery.ScatterDuration)
	assert.Equal(t, 100*time.Millisecond, cfg.Gallery.AssembleDuration)
	assert.Equal(t, 2, cfg.Loader.MaxConcurrentDecodes)
	assert.Equal(t, 30*time.Second, cfg.Loader.HTTPTimeout)
}

func TestTuningMatchesDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, fogwall.DefaultTuning(), cfg.Tuning())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
window:
  width: 640
  height: 480
gallery:
  seed: 42
  scatter_duration: 1500ms
particles:
  max_samples: 1000
  friction: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, uint64(42), cfg.Gallery.Seed)

	tu := cfg.Tuning()
	assert.Equal(t, 1000, tu.MaxSamples)
	assert.Equal(t, 0.8, tu.Friction)
	assert.Equal(t, 1500*time.Millisecond, tu.ScatterDuration)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("FOGWALL_WINDOW_HEIGHT", "720")

	v := newViper()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 720, cfg.Window.Height)
}

func TestExpandHome(t *testing.T) {
	v := newViper()
	v.Set("gallery.posters_file", "~/posters.json")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(cfg.Gallery.PostersFile, "~"))
	assert.True(t, strings.HasSuffix(cfg.Gallery.PostersFile, "posters.json"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
		msg  string
	}{
		{"zero width", "window.width", 0, "window size"},
		{"negative samples", "particles.max_samples", -1, "max_samples"},
		{"alpha cutoff", "particles.alpha_cutoff", 300, "alpha_cutoff"},
		{"friction", "particles.friction", 1.5, "friction"},
		{"image ratio", "particles.ambient_image_ratio", 2.0, "ambient ratios"},
		{"decodes", "loader.max_concurrent_decodes", 0, "max_concurrent_decodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
