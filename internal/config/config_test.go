package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default server port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Draw.MinParticipants != 3 {
		t.Errorf("expected default minimum of 3 participants, got %d", cfg.Draw.MinParticipants)
	}
	if cfg.Draw.MaxAttempts != 120 {
		t.Errorf("expected default of 120 attempts, got %d", cfg.Draw.MaxAttempts)
	}
	if cfg.JWT.ExpirationHours != 24 {
		t.Errorf("expected default JWT expiration of 24 hours, got %d", cfg.JWT.ExpirationHours)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DRAW_MIN_PARTICIPANTS", "5")
	t.Setenv("DRAW_MAX_ATTEMPTS", "10")

	cfg := Load()

	if cfg.Server.Port != "9090" {
		t.Errorf("expected server port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Draw.MinParticipants != 5 {
		t.Errorf("expected minimum of 5 participants, got %d", cfg.Draw.MinParticipants)
	}
	if cfg.Draw.MaxAttempts != 10 {
		t.Errorf("expected 10 attempts, got %d", cfg.Draw.MaxAttempts)
	}
}

func TestLoadIgnoresUnparsableInt(t *testing.T) {
	t.Setenv("DRAW_MAX_ATTEMPTS", "not-a-number")

	cfg := Load()

	if cfg.Draw.MaxAttempts != 120 {
		t.Errorf("expected fallback of 120 attempts, got %d", cfg.Draw.MaxAttempts)
	}
}
