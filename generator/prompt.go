package generator

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System  string
	History []Message
}

// Template 固定 system 指令，历史部分在 Render 时填入。
type Template struct {
	Name   string
	System string
}

// Render 生成提示词，历史按原顺序原样传入。
func (t Template) Render(h History) Prompt {
	msgs := make([]Message, len(h))
	copy(msgs, h)
	return Prompt{
		System:  t.System,
		History: msgs,
	}
}

// GenerationTemplate writes (or rewrites, once critique is present) the post.
var GenerationTemplate = Template{
	Name: "generate",
	System: "You are a linkedin techie influencer assistant tasked with writing excellent LinkedIn posts." +
		" Generate the best and attention grabbing LinkedIn post possible for the user's request. Add emoji's where ever it needed." +
		" If the user provides critique, respond with a revised version of your previous attempts.",
}

// CritiqueTemplate grades the latest draft.
var CritiqueTemplate = Template{
	Name: "reflect",
	System: "You are a technical LinkedIn influencer grading a post, Your Job is to just grade the post and give the feedback." +
		" Generate critique and recommendations for the user's LinkedIn post." +
		" Always provide detailed recommendations, including requests for length, virality, style, tone, reach etc",
}
