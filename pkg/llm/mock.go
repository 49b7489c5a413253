// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"errors"
)

// MockProvider answers every Chat with a fixed response, a fixed
// error, or whatever ChatFunc returns. It stands in for a live model
// where a single canned turn is enough; multi-turn tool loops use
// ScriptedMockProvider instead.
type MockProvider struct {
	Response string
	Err      error
	// ChatFunc, when set, overrides Response and Err entirely.
	ChatFunc func(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Chat implements Provider.
func (m *MockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	resp := TextResponse(m.Response)
	resp.Usage = Usage{
		PromptTokens:     10,
		CompletionTokens: 10,
		TotalTokens:      20,
	}
	return &resp, nil
}

// FailingMockProvider fails every Chat, for provider-error paths.
type FailingMockProvider struct {
	Err error
}

// Chat implements Provider.
func (f *FailingMockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if f.Err == nil {
		return nil, errors.New("provider unavailable")
	}
	return nil, f.Err
}
