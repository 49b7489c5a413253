// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"reflect"
	"testing"

	uaperrors "github.com/jllopis/uap/pkg/errors"
)

func echoDefinition(name string) Definition {
	return Definition{
		Name:        name,
		Description: "echo",
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			s, _ := args["message"].(string)
			return s, nil
		},
	}
}

func TestRegistryRegisterAndCall(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(echoDefinition("echo")); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	out, err := registry.Call(context.Background(), "echo", map[string]interface{}{"message": "hi"})
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if out != "hi" {
		t.Errorf("expected 'hi', got %q", out)
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(echoDefinition("echo")); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := registry.Register(echoDefinition("echo")); err == nil {
		t.Errorf("expected error for duplicate registration")
	}
}

func TestRegistryValidation(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{Name: ""}); err == nil {
		t.Errorf("expected error for empty name")
	}
	if err := registry.Register(Definition{Name: "no-handler"}); err == nil {
		t.Errorf("expected error for nil handler")
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(echoDefinition("echo")); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err := registry.Call(context.Background(), "missing", nil)
	ue := uaperrors.AsUAPError(err)
	if ue == nil || ue.Code != uaperrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
	if names, _ := ue.Context["available_tools"].([]string); !reflect.DeepEqual(names, []string{"echo"}) {
		t.Errorf("expected registered names in error context, got %v", ue.Context["available_tools"])
	}
}

func TestRegistryDefinitionsOrder(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"b", "a", "c"} {
		if err := registry.Register(echoDefinition(name)); err != nil {
			t.Fatalf("Register error: %v", err)
		}
	}
	defs := registry.Definitions()
	got := make([]string, len(defs))
	for i, def := range defs {
		got[i] = def.Function.Name
	}
	if !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("expected registration order preserved, got %v", got)
	}
	if defs[0].Function.Parameters == nil {
		t.Errorf("expected default object schema for schemaless tool")
	}
}

func TestRegistryCallJSON(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(echoDefinition("echo")); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	out, err := registry.CallJSON(context.Background(), "echo", `{"message":"from json"}`)
	if err != nil {
		t.Fatalf("CallJSON error: %v", err)
	}
	if out != "from json" {
		t.Errorf("expected decoded arguments, got %q", out)
	}

	if _, err := registry.CallJSON(context.Background(), "echo", "{not json"); uaperrors.CodeOf(err) != uaperrors.CodeInvalidInput {
		t.Errorf("expected CodeInvalidInput for malformed arguments, got %v", err)
	}
}
