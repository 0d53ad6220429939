package a2a

import (
	"context"
	"errors"

	"linkedin_post_generator/generator"
)

// Agent turns an inbound task into a finished task.
type Agent interface {
	Handle(ctx context.Context, task TaskEnvelope) (TaskResult, error)
}

// EchoAgent replies with Prefix followed by the inbound text. It never fails.
type EchoAgent struct {
	Prefix string
}

func (e EchoAgent) Handle(_ context.Context, task TaskEnvelope) (TaskResult, error) {
	reply := NewTextMessage(RoleAgent, e.Prefix+task.Message.Text())
	return completed(task, reply), nil
}

// ReflectAgent answers a task with the post produced by the generate/critique loop.
type ReflectAgent struct {
	agent *generator.Agent
}

func NewReflectAgent(agent *generator.Agent) (*ReflectAgent, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	return &ReflectAgent{agent: agent}, nil
}

func (a *ReflectAgent) Handle(ctx context.Context, task TaskEnvelope) (TaskResult, error) {
	history := generator.NewHistory(generator.Message{Role: generator.RoleUser, Content: task.Message.Text()})
	res, err := a.agent.Run(ctx, history)
	if err != nil {
		return TaskResult{}, err
	}
	return completed(task, NewTextMessage(RoleAgent, res.Content)), nil
}

func completed(task TaskEnvelope, reply Message) TaskResult {
	return TaskResult{
		ID:        task.ID,
		SessionID: task.SessionID,
		Status: TaskStatus{
			State:   TaskStateCompleted,
			Message: reply,
		},
		History: []Message{task.Message, reply},
	}
}
