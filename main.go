package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"linkedin_post_generator/a2a"
	"linkedin_post_generator/canvas"
	"linkedin_post_generator/config"
	"linkedin_post_generator/generator"
	"linkedin_post_generator/observability"
	"linkedin_post_generator/server"
)

var verbose bool

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	configPath := flag.String("config", config.DefaultPath, "path to config.json")
	serve := flag.Bool("serve", false, "start the chat completions server")
	agentMode := flag.Bool("agent", false, "start the task-exchange agent server")
	agentKind := flag.String("agent-kind", "echo", "task agent: echo or reflect")
	canvasMode := flag.Bool("canvas", false, "host the generated applications directory")
	addr := flag.String("addr", "", "http listen address (overrides the address from config)")
	prompt := flag.String("prompt", "", "post request for a one-shot CLI run")
	asHTML := flag.Bool("html", false, "print the CLI result rendered as HTML")
	flag.BoolVar(&verbose, "v", false, "enable debug logs")
	flag.Parse()

	if verbose {
		observability.SetLevel(slog.LevelDebug)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}

	switch {
	case *serve:
		agent := mustAgent(cfg)
		srv, err := server.New(agent, server.Options{Model: cfg.LLM.Model, Timeout: cfg.RequestTimeout()})
		if err != nil {
			fail(err)
		}
		listenAndServe("[server]", pick(*addr, cfg.ServerAddr), srv.Routes())

	case *agentMode:
		var (
			taskAgent a2a.Agent
			card      a2a.Card
		)
		switch *agentKind {
		case "echo":
			taskAgent = a2a.EchoAgent{Prefix: *cfg.EchoPrefix}
			card = a2a.EchoCard(cfg.AgentURL)
		case "reflect":
			ra, err := a2a.NewReflectAgent(mustAgent(cfg))
			if err != nil {
				fail(err)
			}
			taskAgent = ra
			card = a2a.ReflectCard(cfg.AgentURL)
		default:
			fail(fmt.Errorf("unknown --agent-kind %q (want echo or reflect)", *agentKind))
		}
		listenAndServe("[agent]", pick(*addr, cfg.AgentAddr), a2a.NewRouter(taskAgent, card, cfg.RequestTimeout()))

	case *canvasMode:
		host, err := canvas.New(cfg.CanvasDir)
		if err != nil {
			fail(&config.ConfigurationError{Field: "canvas_dir", Reason: err.Error()})
		}
		listenAndServe("[canvas]", pick(*addr, cfg.CanvasAddr), host)

	default:
		if *prompt == "" {
			fail(fmt.Errorf("--prompt is required unless --serve, --agent or --canvas is set"))
		}
		agent := mustAgent(cfg)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout())
		defer cancel()

		log.Printf("[cli] generating post provider=%s model=%s", cfg.LLM.Provider, cfg.LLM.Model)
		start := time.Now()
		res, err := agent.Run(ctx, generator.NewHistory(generator.Message{Role: generator.RoleUser, Content: *prompt}))
		if err != nil {
			fail(err)
		}
		log.Printf("[cli] done messages=%d elapsed=%s", len(res.History), time.Since(start).Round(time.Millisecond))

		out := res.Content
		if *asHTML {
			if out, err = canvas.RenderMarkdown(res.Content); err != nil {
				fail(err)
			}
		}
		fmt.Println(out)
	}
}

func mustAgent(cfg config.Config) *generator.Agent {
	if err := cfg.RequireLLM(); err != nil {
		fail(err)
	}
	llm, err := buildLLM(cfg)
	if err != nil {
		fail(&config.ConfigurationError{Field: "llm", Reason: err.Error()})
	}
	agent, err := generator.NewAgent(llm, generator.WithMaxMessages(*cfg.MaxMessages))
	if err != nil {
		fail(err)
	}
	return agent
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Project:     cfg.LLM.Project,
		Location:    cfg.LLM.Location,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}
	switch cfg.LLM.Provider {
	case "openai", "deepseek", "compatible":
		// DeepSeek and other gateways expose OpenAI-compatible endpoints through base_url.
		return generator.NewOpenAILLMFromConfig(settings)
	case "vertex":
		return generator.NewVertexLLMFromConfig(context.Background(), settings)
	case "mock":
		log.Println("[llm] using MOCK llm client")
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func listenAndServe(tag, listen string, h http.Handler) {
	log.Printf("%s listening on %s", tag, listen)
	if err := http.ListenAndServe(listen, h); err != nil {
		fail(err)
	}
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
