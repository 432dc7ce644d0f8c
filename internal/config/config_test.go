package config

import "testing"

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"SAMSARA_DB", "SAMSARA_PLAYER", "SAMSARA_CATALOG", "DEBUG", "OPENAI_API_KEY", "SAMSARA_HINT_MODEL", "SAMSARA_HINT_TOKENS"} {
		t.Setenv(key, "")
	}

	c := LoadConfigFromEnv()
	if c.Player != DefaultPlayer {
		t.Errorf("Player = %q, want %q", c.Player, DefaultPlayer)
	}
	if c.HintModel != DefaultHintModel {
		t.Errorf("HintModel = %q, want %q", c.HintModel, DefaultHintModel)
	}
	if c.Debug || c.HintsEnabled() {
		t.Errorf("got %+v, want debug and hints off", c)
	}
	if c.HintTokens != 200 {
		t.Errorf("HintTokens = %d, want 200", c.HintTokens)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("SAMSARA_DB", "/tmp/s.db")
	t.Setenv("SAMSARA_PLAYER", "arjun")
	t.Setenv("SAMSARA_CATALOG", "puzzles.yaml")
	t.Setenv("DEBUG", "1")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SAMSARA_HINT_TOKENS", "64")

	c := LoadConfigFromEnv()
	if c.DBPath != "/tmp/s.db" || c.Player != "arjun" || c.CatalogPath != "puzzles.yaml" {
		t.Errorf("got %+v", c)
	}
	if !c.Debug || !c.HintsEnabled() || c.HintTokens != 64 {
		t.Errorf("got %+v", c)
	}
}
