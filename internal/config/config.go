package config

import (
	"os"
	"strconv"

	"samsara/internal/debug"
	"samsara/internal/storage"
)

const (
	DefaultPlayer    = "seeker"
	DefaultHintModel = "gpt-4o-mini"
)

type Config struct {
	DBPath       string
	Player       string
	CatalogPath  string
	Debug        bool
	DebugLogPath string
	OpenAIKey    string
	HintModel    string
	HintTokens   int
}

// HintsEnabled reports whether an LLM hint oracle can be built.
func (c Config) HintsEnabled() bool {
	return c.OpenAIKey != ""
}

func LoadConfigFromEnv() Config {
	c := Config{
		DBPath:       getEnv("SAMSARA_DB", storage.DefaultPath),
		Player:       getEnv("SAMSARA_PLAYER", DefaultPlayer),
		CatalogPath:  os.Getenv("SAMSARA_CATALOG"),
		Debug:        os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true",
		DebugLogPath: getEnv("SAMSARA_DEBUG_LOG", debug.DefaultLogFile),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		HintModel:    getEnv("SAMSARA_HINT_MODEL", DefaultHintModel),
		HintTokens:   200,
	}
	if v, err := strconv.Atoi(os.Getenv("SAMSARA_HINT_TOKENS")); err == nil && v > 0 {
		c.HintTokens = v
	}
	return c
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
