package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/ledwall/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Defaults != want.Defaults {
		t.Errorf("defaults = %+v, want %+v", cfg.Defaults, want.Defaults)
	}
	if cfg.Cache.Backend != CacheFile || cfg.Store.Backend != StoreFile {
		t.Errorf("backends = %s/%s", cfg.Cache.Backend, cfg.Store.Backend)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
strict = true

[defaults]
module = "generic-p39"
group_index_start = 5

[cache]
backend = "redis"
redis_addr = "cache:6379"
redis_db = 2
ttl = "1h30m"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Strict {
		t.Error("strict should be true")
	}
	if cfg.Defaults.Module != "generic-p39" || cfg.Defaults.GroupIndexStart != 5 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Defaults.Processor != "vx600" {
		t.Errorf("unset keys keep defaults, got processor %q", cfg.Defaults.Processor)
	}
	if cfg.Cache.RedisDB != 2 || cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "strict = = true"},
		{"unknown cache backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("got %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LEDWALL_REDIS_ADDR":  "redis:6379",
		"LEDWALL_MONGO_URI":   "mongodb://mongo:27017",
		"LEDWALL_SERVER_ADDR": ":9999",
		"LEDWALL_STRICT":      "true",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Store.Backend != StoreMongo || cfg.Store.MongoURI != "mongodb://mongo:27017" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != ":9999" || !cfg.Strict {
		t.Errorf("server = %q strict = %v", cfg.Server.Addr, cfg.Strict)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")

	cfg := Default()
	if dir, _ := cfg.CacheDir(); dir != "/tmp/xdg-cache/ledwall" {
		t.Errorf("CacheDir = %q", dir)
	}
	if dir, _ := cfg.StoreDir(); dir != "/tmp/xdg-data/ledwall/projects" {
		t.Errorf("StoreDir = %q", dir)
	}
	if path, _ := DefaultPath(); path != "/tmp/xdg-config/ledwall/config.toml" {
		t.Errorf("DefaultPath = %q", path)
	}

	cfg.Cache.Dir = "/custom"
	if dir, _ := cfg.CacheDir(); dir != "/custom" {
		t.Errorf("CacheDir override = %q", dir)
	}
}
