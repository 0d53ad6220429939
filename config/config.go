package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPath is where the CLI looks for the config file when --config is not given.
const DefaultPath = "config/config.json"

const (
	defaultServerAddr     = ":8081"
	defaultAgentAddr      = ":8000"
	defaultCanvasAddr     = ":8000"
	defaultModel          = "gpt-4o-mini"
	defaultMaxMessages    = 3
	defaultMaxTokens      = 500
	defaultRequestTimeout = 120
	DefaultEchoPrefix     = "Echo says: You sent: "
)

// Config holds the deployment settings for every mode of the binary.
type Config struct {
	LLM                   *LLMConfig `json:"llm,omitempty"`
	ServerAddr            string     `json:"server_addr,omitempty"`
	AgentAddr             string     `json:"agent_addr,omitempty"`
	AgentURL              string     `json:"agent_url,omitempty"`
	CanvasAddr            string     `json:"canvas_addr,omitempty"`
	CanvasDir             string     `json:"canvas_dir,omitempty"`
	MaxMessages           *int       `json:"max_messages,omitempty"`
	RequestTimeoutSeconds int        `json:"request_timeout_seconds,omitempty"`
	EchoPrefix            *string    `json:"echo_prefix,omitempty"`
}

// LLMConfig describes the hosted model used by the chat API and the CLI.
type LLMConfig struct {
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	APIKey      string   `json:"api_key,omitempty"`
	BaseURL     string   `json:"base_url,omitempty"`
	Project     string   `json:"project,omitempty"`
	Location    string   `json:"location,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ConfigurationError means required deployment configuration is absent or invalid.
// The process must not start when Load or a Require* call returns one.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Load reads .env, the JSON config at path and environment overrides, then applies defaults.
// A missing file is only tolerated at DefaultPath.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, &ConfigurationError{Field: ".env", Reason: err.Error()}
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
		case err != nil:
			return Config{}, &ConfigurationError{Field: "config", Reason: err.Error()}
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, &ConfigurationError{Field: "config", Reason: fmt.Sprintf("parse %s: %v", path, err)}
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrides := map[string]*string{}
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	overrides["LLM_PROVIDER"] = &c.LLM.Provider
	overrides["LLM_MODEL"] = &c.LLM.Model
	overrides["LLM_API_KEY"] = &c.LLM.APIKey
	overrides["LLM_BASE_URL"] = &c.LLM.BaseURL
	overrides["GCP_PROJECT"] = &c.LLM.Project
	overrides["GCP_LOCATION"] = &c.LLM.Location
	overrides["SERVER_ADDR"] = &c.ServerAddr
	overrides["AGENT_ADDR"] = &c.AgentAddr
	overrides["AGENT_URL"] = &c.AgentURL
	overrides["CANVAS_DIR"] = &c.CanvasDir
	for key, dst := range overrides {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("MAX_MESSAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return &ConfigurationError{Field: "MAX_MESSAGES", Reason: fmt.Sprintf("want a non-negative integer, got %q", v)}
		}
		c.MaxMessages = &n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = defaultServerAddr
	}
	if c.AgentAddr == "" {
		c.AgentAddr = defaultAgentAddr
	}
	if c.AgentURL == "" {
		c.AgentURL = "http://localhost" + c.AgentAddr + "/"
	}
	if c.CanvasAddr == "" {
		c.CanvasAddr = defaultCanvasAddr
	}
	if c.CanvasDir == "" {
		c.CanvasDir = "applications"
	}
	if c.MaxMessages == nil {
		n := defaultMaxMessages
		c.MaxMessages = &n
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = defaultRequestTimeout
	}
	if c.EchoPrefix == nil {
		p := DefaultEchoPrefix
		c.EchoPrefix = &p
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	// other providers have no sensible default model; RequireLLM reports it
	if c.LLM.Model == "" && c.LLM.Provider == "openai" {
		c.LLM.Model = defaultModel
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = defaultMaxTokens
	}
	if c.LLM.Temperature == nil {
		// greedy decoding
		t := 0.0
		c.LLM.Temperature = &t
	}
}

// RequestTimeout bounds a whole reflection run.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RequireLLM validates the llm block for modes that call the hosted model.
func (c Config) RequireLLM() error {
	if c.LLM == nil {
		return &ConfigurationError{Field: "llm", Reason: "missing llm block"}
	}
	switch c.LLM.Provider {
	case "mock":
		return nil
	case "openai":
		if c.LLM.APIKey == "" {
			return &ConfigurationError{Field: "llm.api_key", Reason: "required for provider openai (or set LLM_API_KEY)"}
		}
	case "deepseek", "compatible":
		if c.LLM.APIKey == "" {
			return &ConfigurationError{Field: "llm.api_key", Reason: "required for provider " + c.LLM.Provider}
		}
		if c.LLM.BaseURL == "" {
			return &ConfigurationError{Field: "llm.base_url", Reason: "provider " + c.LLM.Provider + " requires an OpenAI-compatible base_url"}
		}
	case "vertex":
		if (c.LLM.Project == "" || c.LLM.Location == "") && c.LLM.APIKey == "" {
			return &ConfigurationError{Field: "llm.project", Reason: "provider vertex requires project and location (or api_key)"}
		}
	default:
		return &ConfigurationError{Field: "llm.provider", Reason: fmt.Sprintf("provider %s not supported", c.LLM.Provider)}
	}
	if c.LLM.Model == "" {
		return &ConfigurationError{Field: "llm.model", Reason: "required for provider " + c.LLM.Provider + " (or set LLM_MODEL)"}
	}
	return nil
}
