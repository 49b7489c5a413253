// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package openapi derives discovery documents from OpenAPI 3.x
// descriptions. Services that already publish an OpenAPI document can
// generate their module document from it instead of maintaining the
// action list by hand. The x-uap-confirm extension marks operations
// that must not be invoked without explicit user confirmation.
package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	uaperrors "github.com/jllopis/uap/pkg/errors"
	"github.com/jllopis/uap/pkg/uap"
)

// Document is the subset of an OpenAPI 3.x description needed to
// derive a module document.
type Document struct {
	OpenAPI string              `json:"openapi" yaml:"openapi"`
	Info    Info                `json:"info" yaml:"info"`
	Servers []Server            `json:"servers" yaml:"servers"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`
}

// Info contains API metadata.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version" yaml:"version"`
}

// Server represents a server endpoint.
type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}

// PathItem holds the operations on a path.
type PathItem struct {
	Get    *Operation `json:"get" yaml:"get"`
	Post   *Operation `json:"post" yaml:"post"`
	Put    *Operation `json:"put" yaml:"put"`
	Delete *Operation `json:"delete" yaml:"delete"`
	Patch  *Operation `json:"patch" yaml:"patch"`
}

// Operation represents an API operation. Confirm carries the
// x-uap-confirm extension value, "user" being the only defined level.
type Operation struct {
	OperationID string `json:"operationId" yaml:"operationId"`
	Summary     string `json:"summary" yaml:"summary"`
	Description string `json:"description" yaml:"description"`
	Confirm     string `json:"x-uap-confirm" yaml:"x-uap-confirm"`
}

// Parse decodes an OpenAPI document from raw bytes, accepting JSON or
// YAML.
func Parse(data []byte) (*Document, error) {
	var doc Document

	// Try JSON first, then YAML
	if err := json.Unmarshal(data, &doc); err != nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, uaperrors.New(uaperrors.CodeProtocol,
				"failed to parse OpenAPI document (tried JSON and YAML)", err)
		}
	}

	if len(doc.Paths) == 0 {
		return nil, uaperrors.New(uaperrors.CodeProtocol,
			"OpenAPI document has no paths", nil)
	}
	return &doc, nil
}

// LoadFile reads and parses an OpenAPI document from a file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Fetch retrieves and parses an OpenAPI document from a URL. A nil
// client uses http.DefaultClient.
func Fetch(ctx context.Context, docURL string, client *http.Client) (*Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, uaperrors.New(uaperrors.CodeInvalidInput, "invalid document url", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, uaperrors.New(uaperrors.CodeNetwork, "failed to fetch document", err).
			WithRecoverable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, uaperrors.New(uaperrors.CodeHTTP,
			fmt.Sprintf("document fetch returned status %d", resp.StatusCode), nil).
			WithStatusCode(resp.StatusCode).
			WithContext("url", docURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, uaperrors.New(uaperrors.CodeNetwork, "failed to read document body", err)
	}
	return Parse(data)
}

// ModuleDocument derives a module document from the description.
// baseURL overrides the first server entry; action hrefs keep their
// {placeholder} segments so clients substitute them at invocation time.
func (d *Document) ModuleDocument(baseURL string) (*uap.ModuleDocument, error) {
	base := strings.TrimRight(baseURL, "/")
	if base == "" && len(d.Servers) > 0 {
		base = strings.TrimRight(d.Servers[0].URL, "/")
	}
	if base == "" {
		return nil, uaperrors.New(uaperrors.CodeInvalidInput,
			"no base url: document has no servers and none was given", nil)
	}

	paths := make([]string, 0, len(d.Paths))
	for path := range d.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	module := &uap.ModuleDocument{Name: d.Info.Title}
	for _, path := range paths {
		item := d.Paths[path]
		for _, entry := range []struct {
			method string
			op     *Operation
		}{
			{http.MethodGet, item.Get},
			{http.MethodPost, item.Post},
			{http.MethodPut, item.Put},
			{http.MethodPatch, item.Patch},
			{http.MethodDelete, item.Delete},
		} {
			if entry.op == nil {
				continue
			}
			module.Actions = append(module.Actions, toAction(base, path, entry.method, entry.op))
		}
	}

	if err := module.Validate(); err != nil {
		return nil, err
	}
	return module, nil
}

func toAction(base, path, method string, op *Operation) uap.Action {
	id := op.OperationID
	if id == "" {
		id = fmt.Sprintf("%s_%s", strings.ToLower(method), strings.ReplaceAll(path, "/", "_"))
		id = strings.Trim(id, "_")
	}

	desc := op.Summary
	if desc == "" {
		desc = op.Description
	}

	action := uap.Action{
		ID:          id,
		Method:      method,
		Href:        base + path,
		Description: desc,
	}
	if strings.EqualFold(strings.TrimSpace(op.Confirm), string(uap.ConfirmUser)) {
		action.Confirm = uap.ConfirmUser
	}
	return action
}
