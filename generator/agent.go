package generator

import (
	"context"
	"errors"
	"strings"

	"linkedin_post_generator/observability"
)

// DefaultMaxMessages 是历史条数上限，超过后循环在下一次生成后结束。
const DefaultMaxMessages = 3

// Agent 在生成模板和点评模板之间交替调用 LLM，直到历史超过上限。
type Agent struct {
	llm         LLMClient
	generate    Template
	critique    Template
	maxMessages int
}

type Option func(*Agent)

// WithMaxMessages overrides DefaultMaxMessages. Negative values are ignored.
func WithMaxMessages(n int) Option {
	return func(a *Agent) {
		if n >= 0 {
			a.maxMessages = n
		}
	}
}

func NewAgent(llm LLMClient, opts ...Option) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{
		llm:         llm,
		generate:    GenerationTemplate,
		critique:    CritiqueTemplate,
		maxMessages: DefaultMaxMessages,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Result 是一次完整运行的产出。
type Result struct {
	Content string
	History History
}

// Run 从 history 开始执行循环，返回最后一条（生成的）消息。
// 任何上游错误都会立即中止，返回 *UpstreamError，不返回部分结果。
func (a *Agent) Run(ctx context.Context, history History) (Result, error) {
	if len(history) == 0 {
		return Result{}, ErrEmptyHistory
	}
	log := observability.LoggerFromContext(ctx)

	state := StateGenerating
	for state != StateDone {
		if err := ctx.Err(); err != nil {
			return Result{}, &UpstreamError{Step: state, History: history, Err: err}
		}

		var (
			tmpl Template
			role Role
		)
		switch state {
		case StateGenerating:
			tmpl, role = a.generate, RoleAssistant
		case StateCritiquing:
			tmpl, role = a.critique, RoleUser
		}

		text, err := a.llm.Complete(ctx, tmpl.Render(history))
		if err != nil {
			log.Error("reflection step failed", "step", tmpl.Name, "messages", len(history), "error", err)
			return Result{}, &UpstreamError{Step: state, History: history, Err: err}
		}
		history = history.Append(Message{Role: role, Content: text})
		log.Debug("reflection step done", "step", tmpl.Name, "messages", len(history), "preview", preview(text, 40))

		state = Next(state, len(history), a.maxMessages)
	}

	last, _ := history.Last()
	return Result{Content: last.Content, History: history}, nil
}

func preview(text string, limit int) string {
	joined := strings.Join(strings.Fields(text), " ")
	r := []rune(joined)
	if len(r) <= limit {
		return joined
	}
	return string(r[:limit])
}
