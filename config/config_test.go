package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"linkedin_post_generator/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileAndDefaults(t *testing.T) {
	path := writeConfig(t, `{"llm":{"provider":"deepseek","model":"deepseek-chat","api_key":"k","base_url":"https://api.deepseek.com"},"server_addr":":9090"}`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerAddr != ":9090" {
		t.Fatalf("expected server_addr from file, got %q", cfg.ServerAddr)
	}
	if cfg.LLM.Model != "deepseek-chat" {
		t.Fatalf("expected model from file, got %q", cfg.LLM.Model)
	}
	if *cfg.MaxMessages != 3 {
		t.Fatalf("expected default max_messages 3, got %d", *cfg.MaxMessages)
	}
	if *cfg.EchoPrefix != config.DefaultEchoPrefix {
		t.Fatalf("unexpected echo prefix %q", *cfg.EchoPrefix)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != 0 {
		t.Fatalf("expected greedy temperature default")
	}
	if err := cfg.RequireLLM(); err != nil {
		t.Fatalf("RequireLLM: %v", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"llm":{"provider":"openai","model":"from-file","api_key":"file-key"}}`)
	t.Setenv("LLM_MODEL", "from-env")
	t.Setenv("MAX_MESSAGES", "5")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Model != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Fatalf("expected api key from file, got %q", cfg.LLM.APIKey)
	}
	if *cfg.MaxMessages != 5 {
		t.Fatalf("expected max_messages 5, got %d", *cfg.MaxMessages)
	}
}

func TestLoadVertexWithoutModelFailsRequireLLM(t *testing.T) {
	path := writeConfig(t, `{"llm":{"provider":"vertex","project":"p","location":"us-central1"}}`)
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Model != "" {
		t.Fatalf("expected no default model for vertex, got %q", cfg.LLM.Model)
	}
	var cfgErr *config.ConfigurationError
	if err := cfg.RequireLLM(); !errors.As(err, &cfgErr) || cfgErr.Field != "llm.model" {
		t.Fatalf("expected llm.model ConfigurationError, got %v", err)
	}
}

func TestLoadOpenAIDefaultModel(t *testing.T) {
	path := writeConfig(t, `{"llm":{"provider":"openai","api_key":"k"}}`)
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("expected default openai model, got %q", cfg.LLM.Model)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.json"))
	var cfgErr *config.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestLoadBadMaxMessages(t *testing.T) {
	t.Setenv("MAX_MESSAGES", "-1")
	_, err := config.Load("")
	var cfgErr *config.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "MAX_MESSAGES" {
		t.Fatalf("expected MAX_MESSAGES ConfigurationError, got %v", err)
	}
}

func TestRequireLLM(t *testing.T) {
	cases := []struct {
		name    string
		llm     config.LLMConfig
		wantErr bool
	}{
		{"mock", config.LLMConfig{Provider: "mock"}, false},
		{"openai without key", config.LLMConfig{Provider: "openai"}, true},
		{"openai", config.LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"}, false},
		{"openai without model", config.LLMConfig{Provider: "openai", APIKey: "k"}, true},
		{"deepseek without base url", config.LLMConfig{Provider: "deepseek", Model: "deepseek-chat", APIKey: "k"}, true},
		{"deepseek without model", config.LLMConfig{Provider: "deepseek", APIKey: "k", BaseURL: "https://api.deepseek.com"}, true},
		{"vertex project", config.LLMConfig{Provider: "vertex", Model: "gemini-2.5-flash", Project: "p", Location: "us-central1"}, false},
		{"vertex without model", config.LLMConfig{Provider: "vertex", Project: "p", Location: "us-central1"}, true},
		{"vertex nothing", config.LLMConfig{Provider: "vertex"}, true},
		{"unknown", config.LLMConfig{Provider: "watson"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := tc.llm
			err := config.Config{LLM: &llm}.RequireLLM()
			if (err != nil) != tc.wantErr {
				t.Fatalf("RequireLLM() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}
