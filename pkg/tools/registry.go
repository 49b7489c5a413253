// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package tools models callable capabilities as a fixed set of named
// descriptors registered into an explicit registry that is handed to
// the LLM collaborator. No reflection, no dynamic decoration: a tool is
// a name, a description, a JSON Schema, and a handler.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	uaperrors "github.com/jllopis/uap/pkg/errors"
	"github.com/jllopis/uap/pkg/llm"
)

// Handler executes a tool call with decoded JSON arguments.
type Handler func(ctx context.Context, args map[string]interface{}) (string, error)

// Definition describes one callable capability.
type Definition struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Handler     Handler
}

// Registry holds tool definitions in registration order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	defs  map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a tool definition. Names are unique.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return uaperrors.New(uaperrors.CodeInvalidInput, "tool name is required", nil)
	}
	if def.Handler == nil {
		return uaperrors.New(uaperrors.CodeInvalidInput,
			fmt.Sprintf("tool %q has no handler", def.Name), nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[def.Name]; ok {
		return uaperrors.New(uaperrors.CodeInvalidInput,
			fmt.Sprintf("tool %q is already registered", def.Name), nil)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Get returns a tool definition by name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Definitions returns the registered tools as LLM function definitions,
// in registration order.
func (r *Registry) Definitions() []llm.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		def := r.defs[name]
		params := def.InputSchema
		if params == nil {
			params = map[string]interface{}{"type": "object"}
		}
		out = append(out, llm.Tool{
			Type: llm.ToolTypeFunction,
			Function: llm.FunctionDef{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

// Call runs a tool by name with the given arguments. An unknown name is
// a recoverable lookup miss carrying the registered names.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	def, ok := r.Get(name)
	if !ok {
		return "", uaperrors.New(uaperrors.CodeNotFound,
			fmt.Sprintf("unknown tool %q", name), nil).
			WithContext("available_tools", r.Names()).
			WithRecoverable(true)
	}
	return def.Handler(ctx, args)
}

// CallJSON runs a tool with JSON string arguments, the form tool calls
// arrive in from LLM providers.
func (r *Registry) CallJSON(ctx context.Context, name, argsJSON string) (string, error) {
	args := map[string]interface{}{}
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return "", uaperrors.New(uaperrors.CodeInvalidInput, "invalid JSON arguments", err).
				WithContext("tool", name)
		}
	}
	return r.Call(ctx, name, args)
}
