package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kbukum/bindkit/logger"
)

type containerSection struct {
	Capacity      int `mapstructure:"capacity"`
	ScopeCapacity int `mapstructure:"scope_capacity"`
}

type testConfig struct {
	Name    string           `mapstructure:"name"`
	DI      containerSection `mapstructure:"di"`
	Logging logger.Config    `mapstructure:"logging"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: orders
di:
  capacity: 32
  scope_capacity: 4
logging:
  level: debug
`)

	var cfg testConfig
	if err := Load("orders", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "orders" {
		t.Errorf("expected name 'orders', got %q", cfg.Name)
	}
	if cfg.DI.Capacity != 32 || cfg.DI.ScopeCapacity != 4 {
		t.Errorf("unexpected di section: %+v", cfg.DI)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level 'debug', got %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "di:\n  capacity: 32\n")
	t.Setenv("DI_CAPACITY", "64")
	t.Setenv("DI_SCOPE_CAPACITY", "9")

	var cfg testConfig
	if err := Load("orders", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DI.Capacity != 64 {
		t.Errorf("expected env capacity 64, got %d", cfg.DI.Capacity)
	}
	if cfg.DI.ScopeCapacity != 9 {
		t.Errorf("expected env scope capacity 9, got %d", cfg.DI.ScopeCapacity)
	}
}

func TestLoadEnvPrefix(t *testing.T) {
	t.Setenv("ORDERS_DI_CAPACITY", "11")
	t.Setenv("DI_CAPACITY", "99")

	var cfg testConfig
	if err := Load("orders", &cfg, WithConfigFile("/nonexistent/config.yml"), WithEnvPrefix("orders")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DI.Capacity != 11 {
		t.Errorf("expected prefixed capacity 11, got %d", cfg.DI.Capacity)
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "BINDKIT_TEST_NAME"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", key+"=from-dotenv\n")

	type named struct {
		Name string `mapstructure:"name"`
	}
	var cfg named
	err := Load("orders", &cfg,
		WithConfigFile("/nonexistent/config.yml"),
		WithEnvFile(envPath),
		WithEnvPrefix("bindkit_test"),
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("expected name from .env, got %q", cfg.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected Load to succeed with missing file, got %v", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "di: [unterminated\n")

	var cfg testConfig
	if err := Load("orders", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadRejectsNonPointer(t *testing.T) {
	tests := []struct {
		name string
		cfg  any
	}{
		{"value", testConfig{}},
		{"nil pointer", (*testConfig)(nil)},
		{"pointer to int", new(int)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := Load("x", tc.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResolverWithMockFS(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]bool
		wantConfig string
		wantEnv    string
	}{
		{
			name:       "named files win",
			files:      map[string]bool{"./orders.yml": true, "./config.yml": true, "./.env.orders": true, "./.env": true},
			wantConfig: "./orders.yml",
			wantEnv:    "./.env.orders",
		},
		{
			name:       "config directory",
			files:      map[string]bool{"./config/config.yaml": true, "./config/.env": true},
			wantConfig: "./config/config.yaml",
			wantEnv:    "./config/.env",
		},
		{
			name:  "nothing found",
			files: map[string]bool{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Resolver{FileSystem: &mockFS{files: tc.files}}
			got := r.ResolveFiles("orders", LoaderConfig{})
			if got.ConfigFile != tc.wantConfig {
				t.Errorf("config file: expected %q, got %q", tc.wantConfig, got.ConfigFile)
			}
			if got.EnvFile != tc.wantEnv {
				t.Errorf("env file: expected %q, got %q", tc.wantEnv, got.EnvFile)
			}
		})
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	r := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./config.yml": true}}}
	got := r.ResolveFiles("orders", LoaderConfig{ConfigFile: "/etc/app.yml", EnvFile: "/etc/app.env"})
	if got.ConfigFile != "/etc/app.yml" || got.EnvFile != "/etc/app.env" {
		t.Errorf("expected explicit paths, got %+v", got)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestKeys(t *testing.T) {
	type inner struct {
		Port int
	}
	type Embedded struct {
		Region string `mapstructure:"region"`
	}
	type sample struct {
		Embedded `mapstructure:",squash"`
		Name     string           `mapstructure:"name"`
		Skip     string           `mapstructure:"-"`
		Server   *inner           `mapstructure:"server"`
		DI       containerSection `mapstructure:"di"`
	}

	got := Keys(reflect.TypeFor[sample]())
	want := []string{"region", "name", "server.port", "di.capacity", "di.scope_capacity"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEnvName(t *testing.T) {
	tests := []struct {
		prefix, key, want string
	}{
		{"", "di.capacity", "DI_CAPACITY"},
		{"", "di.scope_capacity", "DI_SCOPE_CAPACITY"},
		{"app", "logging.level", "APP_LOGGING_LEVEL"},
	}
	for _, tc := range tests {
		if got := EnvName(tc.prefix, tc.key); got != tc.want {
			t.Errorf("EnvName(%q, %q) = %q, want %q", tc.prefix, tc.key, got, tc.want)
		}
	}
}

type finalizable struct {
	Capacity int
	err      error
}

func (f *finalizable) ApplyDefaults() {
	if f.Capacity == 0 {
		f.Capacity = 127
	}
}

func (f *finalizable) Validate() error { return f.err }

func TestFinalize(t *testing.T) {
	cfg := &finalizable{}
	if err := Finalize(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Capacity != 127 {
		t.Errorf("expected default capacity, got %d", cfg.Capacity)
	}

	want := errors.New("invalid")
	if err := Finalize(&finalizable{err: want}); !errors.Is(err, want) {
		t.Errorf("expected validation error, got %v", err)
	}

	if err := Finalize(struct{}{}); err != nil {
		t.Errorf("expected nil for plain value, got %v", err)
	}
}
