// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package mcpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jllopis/uap/pkg/invoker"
	"github.com/jllopis/uap/pkg/tools"
	"github.com/jllopis/uap/pkg/uap"
)

func newRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	registry, err := tools.NewDefaultRegistry(uap.NewClient(), invoker.New(), tools.NewGateTracker())
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}
	return registry
}

func TestNew(t *testing.T) {
	if _, err := New("uap", "0.1.0", nil); err == nil {
		t.Fatalf("expected error for nil registry")
	}
	if _, err := New("uap", "0.1.0", newRegistry(t)); err != nil {
		t.Fatalf("New error: %v", err)
	}
}

func TestToolHandler_Discover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != uap.WellKnownPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Example Hotel","modules":[]}`))
	}))
	defer server.Close()

	handler := toolHandler(newRegistry(t), tools.DiscoverToolName)

	var req mcp.CallToolRequest
	req.Params.Name = tools.DiscoverToolName
	req.Params.Arguments = map[string]interface{}{"base_url": server.URL}

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %+v", result)
	}
	if !strings.Contains(resultText(t, result), "Example Hotel") {
		t.Errorf("root document missing from result: %+v", result)
	}
}

func TestToolHandler_ErrorResult(t *testing.T) {
	handler := toolHandler(newRegistry(t), tools.DiscoverToolName)

	var req mcp.CallToolRequest
	req.Params.Name = tools.DiscoverToolName
	req.Params.Arguments = map[string]interface{}{}

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("tool failures must be error results, got: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected error result for missing base_url")
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var sb strings.Builder
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	if sb.Len() == 0 {
		t.Fatalf("no text content in result: %+v", result)
	}
	return sb.String()
}
