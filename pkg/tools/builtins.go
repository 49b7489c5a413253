// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	uaperrors "github.com/jllopis/uap/pkg/errors"
	"github.com/jllopis/uap/pkg/invoker"
	"github.com/jllopis/uap/pkg/uap"
)

// The two core tools are registered under fixed names so any
// collaborator prompt can reference them.
const (
	DiscoverToolName = "uap_discover"
	HTTPToolName     = "uap_http"
)

// DiscoverToolDescription tells the collaborator what uap_discover does.
const DiscoverToolDescription = "Fetches the UAP discovery document at /.well-known/uap for a service. " +
	"Pass the base URL, and optionally a module_id to fetch a module's document. " +
	"Use the returned actions and OpenAPI URL to understand what endpoints exist."

// HTTPToolDescription tells the collaborator what uap_http does.
const HTTPToolDescription = "Simple HTTP tool for UAP actions. Provide method, url, and optional json_body/params. " +
	"Use only URLs discovered via UAP or OpenAPI. Returns response JSON or text."

// NewDiscoverTool builds the uap_discover definition. Every module
// document that passes through is observed by the tracker so the
// caller's confirmation gate stays current.
func NewDiscoverTool(client *uap.Client, tracker *GateTracker) Definition {
	return Definition{
		Name:        DiscoverToolName,
		Description: DiscoverToolDescription,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"base_url": map[string]interface{}{
					"type":        "string",
					"description": "Base URL of the service to discover",
				},
				"module_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional module id to fetch the module document for",
				},
			},
			"required": []string{"base_url"},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			baseURL := stringArg(args, "base_url")
			moduleID := stringArg(args, "module_id")

			result, err := client.Discover(ctx, baseURL, moduleID)
			if err != nil {
				return "", err
			}

			if result.MissingModule != "" {
				return fmt.Sprintf("Module %q not found. Available modules: %v.",
					result.MissingModule, result.AvailableModules), nil
			}

			if !result.ModuleFound() {
				return renderJSON(result.Root)
			}

			tracker.Observe(result.Module)
			return renderJSON(map[string]interface{}{
				"uap":    result.Root,
				"module": result.Module,
			})
		},
	}
}

// NewHTTPTool builds the uap_http definition. Href placeholders are
// expanded from params before dispatch; params not consumed by the
// template travel as query parameters.
func NewHTTPTool(inv *invoker.Invoker) Definition {
	return Definition{
		Name:        HTTPToolName,
		Description: HTTPToolDescription,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"method": map[string]interface{}{
					"type":        "string",
					"description": "HTTP method of the action",
				},
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Action URL, exactly as discovered",
				},
				"json_body": map[string]interface{}{
					"type":        "object",
					"description": "Optional JSON request body",
				},
				"params": map[string]interface{}{
					"type":        "object",
					"description": "Optional path placeholder values and query parameters",
				},
			},
			"required": []string{"method", "url"},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (string, error) {
			method := stringArg(args, "method")
			rawURL := stringArg(args, "url")
			params := stringMapArg(args, "params")

			target, leftover, err := invoker.ExpandHref(rawURL, params)
			if err != nil {
				return "", err
			}

			resp, err := inv.Invoke(ctx, invoker.Request{
				Method:   method,
				URL:      target,
				JSONBody: objectArg(args, "json_body"),
				Params:   leftover,
			})
			if err != nil {
				return "", err
			}
			return resp.Render(), nil
		},
	}
}

// NewDefaultRegistry wires the two core tools into a fresh registry.
func NewDefaultRegistry(client *uap.Client, inv *invoker.Invoker, tracker *GateTracker) (*Registry, error) {
	registry := NewRegistry()
	if err := registry.Register(NewDiscoverTool(client, tracker)); err != nil {
		return nil, err
	}
	if err := registry.Register(NewHTTPTool(inv)); err != nil {
		return nil, err
	}
	return registry, nil
}

func renderJSON(value interface{}) (string, error) {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", uaperrors.New(uaperrors.CodeInternal, "failed to render document", err)
	}
	return string(out), nil
}

func stringArg(args map[string]interface{}, key string) string {
	value, ok := args[key]
	if !ok || value == nil {
		return ""
	}
	s, _ := value.(string)
	return s
}

func objectArg(args map[string]interface{}, key string) map[string]interface{} {
	value, ok := args[key]
	if !ok || value == nil {
		return nil
	}
	obj, _ := value.(map[string]interface{})
	return obj
}

func stringMapArg(args map[string]interface{}, key string) map[string]string {
	obj := objectArg(args, key)
	if obj == nil {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
