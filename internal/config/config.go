// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/colorbook/internal/domain/model"
)

// StoreKind selects the IdeaStore backend.
type StoreKind string

const (
	StoreJSON   StoreKind = "json"
	StoreSQLite StoreKind = "sqlite"
)

// Config holds the application configuration loaded from environment variables.
// The provider API key is deliberately absent: it is only ever entered at login.
type Config struct {
	ListenAddr     string
	Store          StoreKind
	IdeasPath      string
	DBPath         string
	OpenAIBaseURL  string
	ChatModel      string
	ImageModel     string
	ImageSize      string
	ImageQuality   string
	RequestTimeout time.Duration
	RateLimit      int // Generation requests per minute per client IP; 0 disables.
	PromptsFile    string
	Prompts        model.Prompts
	LogLevel       slog.Level
}

// Load reads configuration from environment variables and returns a validated Config.
// Every variable is optional. Malformed values fail fast with the variable name
// in the error. When COLORBOOK_PROMPTS_FILE is set, the YAML file it names
// overrides the built-in prompt texts key by key.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     envOr("COLORBOOK_LISTEN_ADDR", "127.0.0.1:8080"),
		IdeasPath:      envOr("COLORBOOK_IDEAS_PATH", "coloring_ideas.json"),
		DBPath:         envOr("COLORBOOK_DB_PATH", "colorbook.db"),
		OpenAIBaseURL:  envOr("COLORBOOK_OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ChatModel:      envOr("COLORBOOK_CHAT_MODEL", "gpt-4"),
		ImageModel:     envOr("COLORBOOK_IMAGE_MODEL", "dall-e-3"),
		ImageSize:      envOr("COLORBOOK_IMAGE_SIZE", "1024x1024"),
		ImageQuality:   envOr("COLORBOOK_IMAGE_QUALITY", "standard"),
		RequestTimeout: 2 * time.Minute,
		RateLimit:      20,
		PromptsFile:    os.Getenv("COLORBOOK_PROMPTS_FILE"),
		Prompts:        model.DefaultPrompts(),
		LogLevel:       slog.LevelInfo,
	}

	store := StoreKind(strings.ToLower(envOr("COLORBOOK_STORE", string(StoreJSON))))
	switch store {
	case StoreJSON, StoreSQLite:
		cfg.Store = store
	default:
		return nil, fmt.Errorf("COLORBOOK_STORE must be %q or %q, got %q", StoreJSON, StoreSQLite, store)
	}

	if v, ok := os.LookupEnv("COLORBOOK_REQUEST_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("COLORBOOK_REQUEST_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("COLORBOOK_REQUEST_TIMEOUT must be positive, got %s", parsed)
		}
		cfg.RequestTimeout = parsed
	}

	if v, ok := os.LookupEnv("COLORBOOK_RATE_LIMIT"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("COLORBOOK_RATE_LIMIT has invalid integer %q: %w", v, err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("COLORBOOK_RATE_LIMIT must not be negative, got %d", parsed)
		}
		cfg.RateLimit = parsed
	}

	if v, ok := os.LookupEnv("COLORBOOK_LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("COLORBOOK_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	if cfg.PromptsFile != "" {
		prompts, err := loadPrompts(cfg.PromptsFile, cfg.Prompts)
		if err != nil {
			return nil, err
		}
		cfg.Prompts = prompts
	}

	return cfg, nil
}

// loadPrompts overlays the YAML file at path onto base. Keys missing from
// the file keep their base value.
func loadPrompts(path string, base model.Prompts) (model.Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Prompts{}, fmt.Errorf("reading prompts file: %w", err)
	}

	var overlay model.Prompts
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return model.Prompts{}, fmt.Errorf("parsing prompts file %s: %w", path, err)
	}

	if overlay.SystemPrompt != "" {
		base.SystemPrompt = overlay.SystemPrompt
	}
	if overlay.IdeaPrompt != "" {
		base.IdeaPrompt = overlay.IdeaPrompt
	}
	if overlay.ImageStylePrefix != "" {
		base.ImageStylePrefix = overlay.ImageStylePrefix
	}

	if !strings.Contains(base.IdeaPrompt, "{topic}") {
		return model.Prompts{}, errors.New("prompts file: idea_prompt must contain {topic}")
	}

	return base, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
