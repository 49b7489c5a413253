// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcpserver exposes the UAP tool registry over the Model
// Context Protocol, so any MCP host can discover and invoke UAP
// services through the same uap_discover and uap_http tools the agent
// uses. The confirmation gate stays with the orchestrating host; this
// server only publishes the tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jllopis/uap/pkg/tools"
)

// Server wraps the mcp-go server around a UAP tool registry.
type Server struct {
	mcpServer *server.MCPServer
}

// New creates an MCP server publishing every tool in the registry.
func New(name, version string, registry *tools.Registry) (*Server, error) {
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}
	s := &Server{mcpServer: server.NewMCPServer(name, version)}

	for _, def := range registry.Definitions() {
		fn := def.Function
		schema, err := json.Marshal(fn.Parameters)
		if err != nil {
			return nil, err
		}
		tool := mcp.NewToolWithRawSchema(fn.Name, fn.Description, schema)
		s.mcpServer.AddTool(tool, toolHandler(registry, fn.Name))
	}
	return s, nil
}

// toolHandler bridges one registry tool into an MCP handler. Tool
// failures become error results, not protocol errors, so the host's
// model sees them and can correct its arguments.
func toolHandler(registry *tools.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		output, err := registry.Call(ctx, name, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(output), nil
	}
}

// ServeStdio starts the server on Stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
