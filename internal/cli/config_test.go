package cli

import (
	"path/filepath"
	"testing"
)

func withConfigPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Setenv(ConfigPathEnv, path)
	return path
}

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	withConfigPath(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.Format != "text" || cfg.Color != "auto" || cfg.Policy != "presence" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Remotes == nil {
		t.Error("Remotes should be initialised")
	}
}

func TestInitConfig_RoundTrip(t *testing.T) {
	withConfigPath(t)

	if err := InitConfig(); err != nil {
		t.Fatalf("InitConfig() failed: %v", err)
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if cfg.DefaultRemote != "local" {
		t.Errorf("DefaultRemote = %q, want local", cfg.DefaultRemote)
	}
	if cfg.Remotes["local"].BaseURL != "http://localhost:8080" {
		t.Errorf("local base_url = %q", cfg.Remotes["local"].BaseURL)
	}
}

func TestResolveBaseURL(t *testing.T) {
	cfg := &Config{
		DefaultRemote: "staging",
		Remotes: map[string]Remote{
			"staging": {BaseURL: "https://staging.example.com"},
			"broken":  {},
		},
	}

	tests := []struct {
		name    string
		env     string
		flag    string
		remote  string
		want    string
		wantErr bool
	}{
		{name: "local by default"},
		{name: "flag wins", flag: "http://flag", env: "http://env", remote: "staging", want: "http://flag"},
		{name: "env beats remote", env: "http://env", remote: "staging", want: "http://env"},
		{name: "named remote", remote: "staging", want: "https://staging.example.com"},
		{name: "default remote", remote: RemoteDefault, want: "https://staging.example.com"},
		{name: "unknown remote", remote: "prod", wantErr: true},
		{name: "remote without url", remote: "broken", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(BaseURLEnv, tt.env)
			got, err := ResolveBaseURL(cfg, tt.flag, tt.remote)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveBaseURL() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveBaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
