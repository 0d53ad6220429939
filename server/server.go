package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"linkedin_post_generator/generator"
	"linkedin_post_generator/observability"
)

// ThreadHeader carries a caller supplied thread id.
const ThreadHeader = "X-IBM-THREAD-ID"

const defaultTimeout = 120 * time.Second

type Server struct {
	genAgent *generator.Agent
	model    string
	timeout  time.Duration
	now      func() time.Time
}

// Options tunes a Server. Zero values fall back to defaults.
type Options struct {
	// Model is reported when the request does not name one.
	Model   string
	Timeout time.Duration
}

func New(genAgent *generator.Agent, opts Options) (*Server, error) {
	if genAgent == nil {
		return nil, errors.New("generator agent required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Server{
		genAgent: genAgent,
		model:    opts.Model,
		timeout:  opts.Timeout,
		now:      time.Now,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/chat-old/completions", s.handleLegacyCompletions)
	mux.HandleFunc("/hello-world", s.handleHelloWorld)
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			notFound(w)
			return
		}
		s.handleHelloWorld(w, r)
	})
	return chainMiddlewares(mux, withLogging, withRequestID)
}

// --- DTOs ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatMessageReq keeps Content as a pointer so a missing key can be told apart from "".
type chatMessageReq struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type extraBody struct {
	ThreadID string `json:"thread_id,omitempty"`
}

type chatCompletionReq struct {
	Messages  []chatMessageReq `json:"messages"`
	Model     string           `json:"model,omitempty"`
	Stream    bool             `json:"stream,omitempty"`
	ExtraBody *extraBody       `json:"extra_body,omitempty"`
}

func (r chatCompletionReq) validate() error {
	if len(r.Messages) == 0 {
		return &ValidationError{Field: "messages", Reason: "at least one message is required"}
	}
	for i, m := range r.Messages {
		if strings.TrimSpace(m.Role) == "" {
			return &ValidationError{Field: "messages", Reason: "message " + strconv.Itoa(i) + " has no role"}
		}
		if m.Content == nil {
			return &ValidationError{Field: "messages", Reason: "message " + strconv.Itoa(i) + " has no content"}
		}
	}
	return nil
}

func (r chatCompletionReq) bodyThreadID() string {
	if r.ExtraBody == nil {
		return ""
	}
	return r.ExtraBody.ThreadID
}

type completionChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatCompletionResp struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []completionChoice `json:"choices"`
}

type deltaChoice struct {
	Delta chatMessage `json:"delta"`
}

type messageDeltaEvent struct {
	ID       string        `json:"id"`
	Object   string        `json:"object"`
	ThreadID string        `json:"thread_id"`
	Model    string        `json:"model"`
	Created  int64         `json:"created"`
	Choices  []deltaChoice `json:"choices"`
}

type legacyReq struct {
	Prompt string `json:"prompt"`
}

type legacyResp struct {
	Response string `json:"response"`
}

// --- Handlers ---

func (s *Server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req chatCompletionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		badRequest(w, err.Error())
		return
	}

	threadID := ResolveThreadID(r.Header.Get(ThreadHeader), req.bodyThreadID())
	model := req.Model
	if model == "" {
		model = s.model
	}
	log := observability.LoggerFromContext(r.Context()).With("thread_id", threadID, "model", model, "stream", req.Stream)
	log.Info("chat completion received", "messages", len(req.Messages))

	// 只取最后一条消息作为本次请求的初始历史。
	last := req.Messages[len(req.Messages)-1]
	res, err := s.reflect(r, *last.Content)
	if err != nil {
		log.Error("chat completion failed", "error", err)
		writeRunError(w, err)
		return
	}

	if req.Stream {
		event := messageDeltaEvent{
			ID:       "run-" + uuid.NewString()[:6],
			Object:   "thread.message.delta",
			ThreadID: threadID,
			Model:    model,
			Created:  s.now().Unix(),
			Choices: []deltaChoice{{
				Delta: chatMessage{Role: string(generator.RoleAssistant), Content: res.Content},
			}},
		}
		if err := writeSingleEvent(w, "thread.message.delta", event); err != nil {
			log.Error("write stream event", "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, chatCompletionResp{
		ID:      uuid.NewString(),
		Object:  "chat.completion",
		Created: s.now().Unix(),
		Model:   model,
		Choices: []completionChoice{{
			Index:        0,
			Message:      chatMessage{Role: string(generator.RoleAssistant), Content: res.Content},
			FinishReason: "stop",
		}},
	})
}

func (s *Server) handleLegacyCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req legacyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		badRequest(w, (&ValidationError{Field: "prompt", Reason: "is required"}).Error())
		return
	}
	res, err := s.reflect(r, req.Prompt)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("legacy completion failed", "error", err)
		writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, legacyResp{Response: res.Content})
}

func (s *Server) handleHelloWorld(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		badRequest(w, "Error processing request. Expected request with name parameter")
		return
	}
	writeJSON(w, http.StatusOK, legacyResp{Response: "hello world: " + name})
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// reflect runs one bounded reflection loop for a single request.
func (s *Server) reflect(r *http.Request, text string) (generator.Result, error) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	history := generator.NewHistory(generator.Message{Role: generator.RoleUser, Content: text})
	return await(ctx, func(ctx context.Context) (generator.Result, error) {
		return s.genAgent.Run(ctx, history)
	})
}

// --- Helpers ---

func writeRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, generator.ErrEmptyHistory):
		badRequest(w, err.Error())
	case errors.Is(err, generator.ErrUpstreamGeneration):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "UpstreamGenerationFailure: " + err.Error()})
	default:
		internalError(w)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}
