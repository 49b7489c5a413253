package llm

import (
	"context"
	"errors"
	"sync"
)

// ScriptedMockProvider is a mock provider that returns a pre-defined
// sequence of responses, tool calls included. Useful for testing
// multi-turn tool loops without a live model.
type ScriptedMockProvider struct {
	mu        sync.Mutex
	Responses []ChatResponse
	Err       error
	// CallCount tracks how many times Chat has been called
	CallCount int
	// Requests records every request seen, in order
	Requests []ChatRequest
}

// NewScriptedMockProvider creates a new ScriptedMockProvider.
func NewScriptedMockProvider(responses ...ChatResponse) *ScriptedMockProvider {
	return &ScriptedMockProvider{
		Responses: responses,
	}
}

// Chat pops the next scripted response or returns the configured error.
func (s *ScriptedMockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CallCount++
	s.Requests = append(s.Requests, req)

	if s.Err != nil {
		return nil, s.Err
	}

	if len(s.Responses) == 0 {
		return nil, errors.New("scripted mock: no more responses available")
	}

	// Pop the first response
	response := s.Responses[0]
	s.Responses = s.Responses[1:]

	if response.Usage == (Usage{}) {
		response.Usage = Usage{
			PromptTokens:     10,
			CompletionTokens: 10,
			TotalTokens:      20,
		}
	}
	return &response, nil
}

// AddResponse appends a response to the queue.
func (s *ScriptedMockProvider) AddResponse(response ChatResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Responses = append(s.Responses, response)
}

// TextResponse builds a plain text assistant turn.
func TextResponse(content string) ChatResponse {
	return ChatResponse{Content: content}
}

// ToolCallResponse builds an assistant turn requesting one tool call.
func ToolCallResponse(id, name, arguments string) ChatResponse {
	return ChatResponse{
		ToolCalls: []ToolCall{{
			ID:   id,
			Type: ToolTypeFunction,
			Function: FunctionCall{
				Name:      name,
				Arguments: arguments,
			},
		}},
	}
}
