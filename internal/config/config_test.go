package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FeedURL == "" || cfg.MaxPerRun <= 0 || cfg.RunInterval <= 0 {
		t.Fatalf("incomplete defaults: %+v", cfg)
	}
	if cfg.LinksFile != "analyzed_links.json" {
		t.Errorf("links file = %q", cfg.LinksFile)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("smtp port = %d", cfg.SMTPPort)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEWSTRACK_DATA_DIR", "/tmp/newstrack-test")
	t.Setenv("NEWSTRACK_MAX_PER_RUN", "3")
	t.Setenv("NEWSTRACK_RUN_INTERVAL", "5m")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SMTP_USER", "sender@example.com")
	t.Setenv("SMTP_AUTH_CODE", "authcode")

	cfg := DefaultConfig()

	if cfg.DataDir != "/tmp/newstrack-test" {
		t.Errorf("data dir = %q", cfg.DataDir)
	}
	if cfg.MaxPerRun != 3 {
		t.Errorf("max per run = %d", cfg.MaxPerRun)
	}
	if cfg.RunInterval.Minutes() != 5 {
		t.Errorf("interval = %s", cfg.RunInterval)
	}
	if cfg.LLMProvider != "openai" || cfg.LLMAPIKey != "sk-test" {
		t.Errorf("llm = %q / %q", cfg.LLMProvider, cfg.LLMAPIKey)
	}
	if cfg.SMTPPassword != "authcode" {
		t.Errorf("auth code should override password, got %q", cfg.SMTPPassword)
	}
	if cfg.SMTPFrom != "sender@example.com" {
		t.Errorf("from should fall back to user, got %q", cfg.SMTPFrom)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("NEWSTRACK_DATA_DIR", t.TempDir())
	cfg := DefaultConfig()

	if cfg.LinksPath() != filepath.Join(cfg.DataDir, cfg.LinksFile) {
		t.Errorf("links path = %q", cfg.LinksPath())
	}
	if got := filepath.Dir(cfg.TrackPath()); got != cfg.DataDir {
		t.Errorf("track path dir = %q", got)
	}
}

func TestMailEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.MailEnabled() {
		t.Error("empty SMTP settings should disable mail")
	}
	cfg.SMTPServer = "smtp.example.com"
	cfg.SMTPFrom = "a@example.com"
	cfg.SMTPTo = "b@example.com"
	if !cfg.MailEnabled() {
		t.Error("complete SMTP settings should enable mail")
	}
}
