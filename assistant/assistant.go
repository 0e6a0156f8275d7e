// Package assistant relays a chat conversation to OpenAI and streams the reply back.
package assistant

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"go-relieflink/config"
	"go-relieflink/metrics"
	"go-relieflink/types"
)

const systemPrompt = "You are a helpful assistant for ReliefLink, a disaster relief platform. " +
	"Answer the user's questions about the platform, disaster relief, or how to get help. " +
	"Be concise and friendly."

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of the conversation so far.
type Turn struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Fragment is a piece of the reply. Err is set on the last fragment if the
// stream broke off early.
type Fragment struct {
	Text string
	Err  error
}

type Assistant struct {
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

func New(client *openai.Client, model string, log *zap.Logger) *Assistant {
	log = log.Named("assistant")
	return &Assistant{
		client:  client,
		model:   model,
		breaker: config.NewCircuitBreaker(config.BreakerOpenAI, log),
		log:     log,
	}
}

// Stream starts a completion for history and returns its fragments in order.
// The channel is closed when the reply ends or ctx is cancelled.
func (a *Assistant) Stream(ctx context.Context, history []Turn) (<-chan Fragment, error) {
	messages, err := buildMessages(history)
	if err != nil {
		return nil, err
	}

	out, err := a.breaker.Execute(func() (interface{}, error) {
		return a.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: messages,
			Stream:   true,
		})
	})
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("assistant_stream").Inc()
		a.log.Error("failed to start completion stream", zap.Error(err))
		return nil, &types.RemoteOperationError{Op: "assistant stream", Err: err}
	}
	stream := out.(*openai.ChatCompletionStream)

	fragments := make(chan Fragment)
	go func() {
		defer close(fragments)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() == nil {
					a.log.Warn("completion stream broke off", zap.Error(err))
					send(ctx, fragments, Fragment{Err: &types.RemoteOperationError{Op: "assistant stream", Err: err}})
				}
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			if !send(ctx, fragments, Fragment{Text: resp.Choices[0].Delta.Content}) {
				return
			}
		}
	}()
	return fragments, nil
}

func send(ctx context.Context, ch chan<- Fragment, f Fragment) bool {
	select {
	case ch <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

// buildMessages checks the history and prepends the system prompt.
func buildMessages(history []Turn) ([]openai.ChatCompletionMessage, error) {
	if len(history) == 0 {
		return nil, types.NewValidationError("history", "history must not be empty")
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	for i, turn := range history {
		var role string
		switch turn.Role {
		case RoleUser:
			role = openai.ChatMessageRoleUser
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		default:
			return nil, types.NewValidationError("history", "turn %d has unknown role %q", i, turn.Role)
		}
		if strings.TrimSpace(turn.Content) == "" {
			return nil, types.NewValidationError("history", "turn %d is empty", i)
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	if history[len(history)-1].Role != RoleUser {
		return nil, types.NewValidationError("history", "last turn must come from the user")
	}
	return messages, nil
}
