package llm

import (
	"context"
	"testing"
)

func TestMockProvider(t *testing.T) {
	mock := &MockProvider{Response: "hello"}
	resp, err := mock.Chat(context.Background(), ChatRequest{})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if resp.Content != "hello" {
		t.Errorf("expected 'hello', got %q", resp.Content)
	}
}

func TestMockProvider_ChatFuncOverrides(t *testing.T) {
	mock := &MockProvider{
		Response: "ignored",
		ChatFunc: func(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
			return &ChatResponse{Content: "from func"}, nil
		},
	}
	resp, err := mock.Chat(context.Background(), ChatRequest{})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if resp.Content != "from func" {
		t.Errorf("ChatFunc must take precedence, got %q", resp.Content)
	}
}

func TestFailingMockProvider(t *testing.T) {
	if _, err := (&FailingMockProvider{}).Chat(context.Background(), ChatRequest{}); err == nil {
		t.Errorf("expected default error")
	}
	want := context.DeadlineExceeded
	if _, err := (&FailingMockProvider{Err: want}).Chat(context.Background(), ChatRequest{}); err != want {
		t.Errorf("expected configured error, got %v", err)
	}
}

func TestScriptedMockProvider(t *testing.T) {
	mock := NewScriptedMockProvider(
		ToolCallResponse("call-1", "uap_discover", `{"base_url":"http://svc"}`),
		TextResponse("done"),
	)

	first, err := mock.Chat(context.Background(), ChatRequest{})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if len(first.ToolCalls) != 1 || first.ToolCalls[0].Function.Name != "uap_discover" {
		t.Fatalf("expected scripted tool call, got %+v", first)
	}

	second, err := mock.Chat(context.Background(), ChatRequest{})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if second.Content != "done" {
		t.Errorf("expected final text, got %q", second.Content)
	}

	if _, err := mock.Chat(context.Background(), ChatRequest{}); err == nil {
		t.Errorf("expected error when script is exhausted")
	}
	if mock.CallCount != 3 {
		t.Errorf("expected 3 calls recorded, got %d", mock.CallCount)
	}
}
