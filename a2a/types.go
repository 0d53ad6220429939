package a2a

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MethodSendTask is the only JSON-RPC method the agent understands.
const MethodSendTask = "tasks/send"

type TaskState string

const (
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
	TaskStateRunning   TaskState = "running"
	TaskStateCancelled TaskState = "cancelled"
)

const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

type TextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`

	// hasText is false when a decoded part carried no text key (or a null one).
	hasText bool
}

func (p *TextPart) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type string  `json:"type"`
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Type = raw.Type
	p.Text = ""
	p.hasText = raw.Text != nil
	if raw.Text != nil {
		p.Text = *raw.Text
	}
	return nil
}

type Message struct {
	Role  string     `json:"role" binding:"required,oneof=user agent"`
	Parts []TextPart `json:"parts" binding:"required,min=1"`
}

// NewTextMessage builds a single-part text message.
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Parts: []TextPart{{Type: "text", Text: text, hasText: true}}}
}

// Text returns the text of the first part.
func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return ""
	}
	return m.Parts[0].Text
}

// TaskEnvelope is the params object of a tasks/send call.
type TaskEnvelope struct {
	ID        string  `json:"id" binding:"required"`
	SessionID string  `json:"sessionId" binding:"required"`
	Message   Message `json:"message"`
}

type TaskStatus struct {
	State   TaskState `json:"state"`
	Message Message   `json:"message"`
}

type TaskResult struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId"`
	Status    TaskStatus `json:"status"`
	History   []Message  `json:"history"`
}

type SendTaskRequest struct {
	JSONRPC string       `json:"jsonrpc"`
	Method  string       `json:"method" binding:"required"`
	Params  TaskEnvelope `json:"params"`
}

var errInvalidTask = errors.New("invalid task request")

// Validate checks what the binding tags cannot express. Parts without a type are text parts.
func (r *SendTaskRequest) Validate() error {
	if r.JSONRPC != "" && r.JSONRPC != "2.0" {
		return fmt.Errorf("%w: unsupported jsonrpc version %q", errInvalidTask, r.JSONRPC)
	}
	if r.Method != MethodSendTask {
		return fmt.Errorf("%w: unsupported method %q", errInvalidTask, r.Method)
	}
	for i := range r.Params.Message.Parts {
		p := &r.Params.Message.Parts[i]
		if p.Type == "" {
			p.Type = "text"
		}
		if p.Type != "text" {
			return fmt.Errorf("%w: part %d has unsupported type %q", errInvalidTask, i, p.Type)
		}
		// "" is a valid text, a missing one is not.
		if !p.hasText {
			return fmt.Errorf("%w: part %d has no text", errInvalidTask, i)
		}
	}
	return nil
}
