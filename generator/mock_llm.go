package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// critique 模板返回固定点评，其余情况把最近的用户消息拼成一篇草稿。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if prompt.System == CritiqueTemplate.System {
		return "Critique: add a stronger hook, trim it to five short paragraphs and finish with a question.", nil
	}

	var request string
	for i := len(prompt.History) - 1; i >= 0 && request == ""; i-- {
		if prompt.History[i].Role == RoleUser {
			request = prompt.History[i].Content
		}
	}

	var sb strings.Builder
	sb.WriteString("🚀 Draft post\n\n")
	sb.WriteString(fmt.Sprintf("Here is what I learned about: %s\n\n", strings.TrimSpace(request)))
	sb.WriteString("What do you think? 👇")
	return sb.String(), nil
}
