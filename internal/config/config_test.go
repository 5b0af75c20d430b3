package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"NABAVA_DB", "NABAVA_ADDR", "NABAVA_ADMIN_USER", "NABAVA_LOG"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.DBPath != "nabava.sqlite3" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.AdminUser != "Admin" {
		t.Errorf("expected default admin user, got %q", cfg.AdminUser)
	}
	if cfg.LogPath != "" {
		t.Errorf("expected empty log path, got %q", cfg.LogPath)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NABAVA_DB", "/tmp/test.sqlite3")
	t.Setenv("NABAVA_ADDR", ":9090")

	cfg := Load()
	if cfg.DBPath != "/tmp/test.sqlite3" {
		t.Errorf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("expected env addr, got %q", cfg.Addr)
	}
}
