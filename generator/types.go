package generator

// Role 表示消息的作者。
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleAgent is the task-exchange name for the replying side.
	RoleAgent Role = "agent"
)

// Message 是历史中的一条消息，创建后不再修改。
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History 按时间顺序保存一次请求内的消息（最早的在前），只追加、不删除、不重排。
type History []Message

// NewHistory 以单条初始消息创建历史。
func NewHistory(first Message) History {
	return History{first}
}

// Append returns a new History with m at the end. h itself is left untouched.
func (h History) Append(m Message) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, m)
}

func (h History) Last() (Message, bool) {
	if len(h) == 0 {
		return Message{}, false
	}
	return h[len(h)-1], true
}
