package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Probes: []ProbeGroup{{
			Name:     "default",
			Targets:  []string{"8.8.8.8"},
			Interval: 10 * time.Second,
			Count:    10,
		}},
		Poll:         time.Second,
		DatabasePath: "test.db",
		Port:         8080,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no groups", mutate: func(c *Config) { c.Probes = nil }, wantErr: true},
		{name: "no targets", mutate: func(c *Config) { c.Probes[0].Targets = []string{" ", ""} }, wantErr: true},
		{name: "flag-like target", mutate: func(c *Config) { c.Probes[0].Targets = []string{"-f"} }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.Probes[0].Interval = 0 }, wantErr: true},
		{name: "zero count", mutate: func(c *Config) { c.Probes[0].Count = 0 }, wantErr: true},
		{name: "zero poll", mutate: func(c *Config) { c.Poll = 0 }, wantErr: true},
		{name: "empty db", mutate: func(c *Config) { c.DatabasePath = "" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: " 8.8.8.8 ", want: "8.8.8.8"},
		{in: "example.com", want: "example.com"},
		{in: "bücher.example", want: "xn--bcher-kva.example"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTarget(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{"-targets", "a.example, b.example", "-interval", "30s", "-count", "3"})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Probes, 1)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.Probes[0].Targets)
	assert.Equal(t, 30*time.Second, cfg.Probes[0].Interval)
	assert.Equal(t, 3, cfg.Probes[0].Count)
	assert.Equal(t, time.Second, cfg.Poll)
}

func TestParseFlagsWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pingwatch.yml")
	content := `
poll: 2
port: 9090
probes:
  upstream:
    targets: [8.8.8.8, 1.1.1.1]
    interval: 1m
  local:
    targets: [192.168.1.1]
    count: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := ParseFlags([]string{"-config", path, "-count", "4"})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2*time.Second, cfg.Poll)
	assert.Equal(t, 9090, cfg.Port)
	require.Len(t, cfg.Probes, 2)

	assert.Equal(t, "local", cfg.Probes[0].Name)
	assert.Equal(t, 5, cfg.Probes[0].Count)
	assert.Equal(t, 10*time.Second, cfg.Probes[0].Interval)

	assert.Equal(t, "upstream", cfg.Probes[1].Name)
	assert.Equal(t, time.Minute, cfg.Probes[1].Interval)
	assert.Equal(t, 4, cfg.Probes[1].Count)

	assert.Equal(t, []string{"192.168.1.1", "8.8.8.8", "1.1.1.1"}, cfg.Targets())
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pingwatch.json")
	content := `{"probes": {"dns": {"targets": ["1.1.1.1"], "interval": "15s"}}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	file, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Duration(15*time.Second), file.Probes["dns"].Interval)
}

func TestLoadFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pingwatch.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "10", want: 10 * time.Second},
		{in: "1m30s", want: 90 * time.Second},
		{in: "-5s", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
