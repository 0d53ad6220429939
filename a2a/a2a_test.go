package a2a_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"linkedin_post_generator/a2a"
	"linkedin_post_generator/generator"
)

const prefix = "Echo says: You sent: "

func init() {
	gin.SetMode(gin.TestMode)
}

func sendTask(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/tasks/send", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func taskBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "tasks/send",
		"params": map[string]any{
			"id":        "task-1",
			"sessionId": "session-9",
			"message": map[string]any{
				"role":  "user",
				"parts": []map[string]string{{"type": "text", "text": text}},
			},
		},
	})
	return string(b)
}

func TestEchoAgentHandle(t *testing.T) {
	for _, text := range []string{"hello", "", "multi\nline ✨ text", "  spaced  "} {
		in := a2a.TaskEnvelope{ID: "1", SessionID: "s", Message: a2a.NewTextMessage(a2a.RoleUser, text)}
		res, err := a2a.EchoAgent{Prefix: prefix}.Handle(context.Background(), in)
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if got := res.Status.Message.Text(); got != prefix+text {
			t.Fatalf("expected %q, got %q", prefix+text, got)
		}
		if res.Status.State != a2a.TaskStateCompleted {
			t.Fatalf("expected completed, got %s", res.Status.State)
		}
		if len(res.History) != 2 || res.History[0].Text() != text || res.History[1].Text() != prefix+text {
			t.Fatalf("unexpected history %+v", res.History)
		}
		if res.History[1].Role != a2a.RoleAgent {
			t.Fatalf("expected agent reply, got role %q", res.History[1].Role)
		}
	}
}

func TestSendTaskEcho(t *testing.T) {
	r := a2a.NewRouter(a2a.EchoAgent{Prefix: prefix}, a2a.EchoCard("http://localhost:8000/"), 0)

	w := sendTask(t, r, taskBody("hi there"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var res struct {
		ID        string `json:"id"`
		SessionID string `json:"sessionId"`
		Status    struct {
			State   string      `json:"state"`
			Message a2a.Message `json:"message"`
		} `json:"status"`
		History []a2a.Message `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.ID != "task-1" || res.SessionID != "session-9" {
		t.Fatalf("ids not echoed: %+v", res)
	}
	if res.Status.State != "completed" || res.Status.Message.Text() != prefix+"hi there" {
		t.Fatalf("unexpected status %+v", res.Status)
	}
	if len(res.History) != 2 || res.History[0].Role != "user" || res.History[1].Role != "agent" {
		t.Fatalf("unexpected history %+v", res.History)
	}
}

func TestSendTaskValidation(t *testing.T) {
	r := a2a.NewRouter(a2a.EchoAgent{Prefix: prefix}, a2a.EchoCard("u"), 0)

	cases := map[string]string{
		"bad json":          `{`,
		"wrong method":      `{"jsonrpc":"2.0","method":"tasks/get","params":{"id":"1","sessionId":"s","message":{"role":"user","parts":[{"type":"text","text":"x"}]}}}`,
		"missing id":        `{"jsonrpc":"2.0","method":"tasks/send","params":{"sessionId":"s","message":{"role":"user","parts":[{"type":"text","text":"x"}]}}}`,
		"missing sess":      `{"jsonrpc":"2.0","method":"tasks/send","params":{"id":"1","message":{"role":"user","parts":[{"type":"text","text":"x"}]}}}`,
		"bad role":          `{"jsonrpc":"2.0","method":"tasks/send","params":{"id":"1","sessionId":"s","message":{"role":"system","parts":[{"type":"text","text":"x"}]}}}`,
		"no parts":          `{"jsonrpc":"2.0","method":"tasks/send","params":{"id":"1","sessionId":"s","message":{"role":"user","parts":[]}}}`,
		"non text part":     `{"jsonrpc":"2.0","method":"tasks/send","params":{"id":"1","sessionId":"s","message":{"role":"user","parts":[{"type":"file","text":"x"}]}}}`,
		"part without text": `{"jsonrpc":"2.0","method":"tasks/send","params":{"id":"1","sessionId":"s","message":{"role":"user","parts":[{"type":"text"}]}}}`,
		"empty part":        `{"jsonrpc":"2.0","method":"tasks/send","params":{"id":"1","sessionId":"s","message":{"role":"user","parts":[{}]}}}`,
		"null text":         `{"jsonrpc":"2.0","method":"tasks/send","params":{"id":"1","sessionId":"s","message":{"role":"user","parts":[{"type":"text","text":null}]}}}`,
		"bad rpc version":   `{"jsonrpc":"1.0","method":"tasks/send","params":{"id":"1","sessionId":"s","message":{"role":"user","parts":[{"type":"text","text":"x"}]}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if w := sendTask(t, r, body); w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d, body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestSendTaskEmptyTextIsEchoed(t *testing.T) {
	r := a2a.NewRouter(a2a.EchoAgent{Prefix: prefix}, a2a.EchoCard("u"), 0)

	w := sendTask(t, r, `{"jsonrpc":"2.0","method":"tasks/send","params":{"id":"1","sessionId":"s","message":{"role":"user","parts":[{"text":""}]}}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for an explicit empty text, got %d, body=%s", w.Code, w.Body.String())
	}
	var res a2a.TaskResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := res.Status.Message.Text(); got != prefix {
		t.Fatalf("expected bare prefix, got %q", got)
	}
}

func TestAgentCard(t *testing.T) {
	r := a2a.NewRouter(a2a.EchoAgent{Prefix: prefix}, a2a.EchoCard("http://example.test/"), 0)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var card a2a.Card
	if err := json.Unmarshal(w.Body.Bytes(), &card); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if card.URL != "http://example.test/" || card.Version != "1.0.0" {
		t.Fatalf("unexpected card %+v", card)
	}
	if len(card.Skills) != 1 || card.Skills[0].ID != "echo_message" {
		t.Fatalf("unexpected skills %+v", card.Skills)
	}
	if len(card.DefaultInputModes) != 1 || card.DefaultInputModes[0] != "text" {
		t.Fatalf("unexpected input modes %+v", card.DefaultInputModes)
	}
}

type failingLLM struct{}

func (failingLLM) Complete(context.Context, generator.Prompt) (string, error) {
	return "", errors.New("model unavailable")
}

func TestSendTaskReflect(t *testing.T) {
	genAgent, err := generator.NewAgent(generator.MockLLM{})
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	agent, err := a2a.NewReflectAgent(genAgent)
	if err != nil {
		t.Fatalf("NewReflectAgent: %v", err)
	}
	r := a2a.NewRouter(agent, a2a.ReflectCard("u"), 0)

	w := sendTask(t, r, taskBody("Go interfaces"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var res a2a.TaskResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.History) != 2 || res.Status.Message.Text() == "" {
		t.Fatalf("unexpected result %+v", res)
	}

	failing, _ := generator.NewAgent(failingLLM{})
	agent, _ = a2a.NewReflectAgent(failing)
	r = a2a.NewRouter(agent, a2a.ReflectCard("u"), 0)
	if w := sendTask(t, r, taskBody("x")); w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}
