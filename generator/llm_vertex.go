package generator

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// VertexLLM implements LLMClient on Gemini through google.golang.org/genai.
// With Project/Location it talks to Vertex AI, otherwise to the Gemini API with APIKey.
type VertexLLM struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature *float64
}

func NewVertexLLMFromConfig(ctx context.Context, cfg *LLMSettings) (*VertexLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}

	cc := &genai.ClientConfig{}
	switch {
	case cfg.Project != "" && cfg.Location != "":
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	default:
		return nil, errors.New("vertex provider requires llm.project and llm.location (or llm.api_key for the Gemini API)")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &VertexLLM{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (v *VertexLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	var contents []*genai.Content
	for _, m := range prompt.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant || m.Role == RoleAgent {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	cfg := &genai.GenerateContentConfig{}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	if v.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(v.maxTokens)
	}
	if v.temperature != nil {
		t := float32(*v.temperature)
		cfg.Temperature = &t
	}

	res, err := v.client.Models.GenerateContent(ctx, v.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate content: %w", err)
	}
	// 空文本也照常返回，由调用方追加到历史。
	return res.Text(), nil
}
