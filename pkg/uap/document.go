// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package uap implements the Universal Agent Protocol discovery
// documents and the client that resolves them. A service publishes a
// root document at /.well-known/uap describing its capability modules;
// each module document lists invocable actions. A generic client can go
// from a base URL to a concrete method+URL pair without hardcoded
// endpoint knowledge.
package uap

import (
	"fmt"

	uaperrors "github.com/jllopis/uap/pkg/errors"
)

// WellKnownPath is the standardized location for UAP root documents.
const WellKnownPath = "/.well-known/uap"

// Confirm marks whether an action needs an explicit user go-ahead.
type Confirm string

const (
	// ConfirmNone means the action may be invoked without confirmation.
	ConfirmNone Confirm = ""

	// ConfirmUser is a hard gate: no caller may invoke the action
	// without an explicit affirmative signal from the initiating human.
	ConfirmUser Confirm = "user"
)

// RootDocument is the well-known document describing a service and its
// capability modules. Module ids are unique within the document.
type RootDocument struct {
	Name    string      `json:"name"`
	Modules []ModuleRef `json:"modules"`
}

// ModuleRef points at a module document. Href may be absolute or
// relative to the base URL that produced the root document.
type ModuleRef struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Href        string `json:"href"`
}

// ModuleDocument describes the actions a module exposes. Action ids are
// unique within the document. OpenAPI optionally points at a machine
// readable API description for the same endpoints.
type ModuleDocument struct {
	Name    string   `json:"name"`
	OpenAPI string   `json:"openapi,omitempty"`
	Actions []Action `json:"actions"`
}

// Action is an invocable capability. Href may contain RFC 6570 style
// placeholders (e.g. {booking_id}) that the caller substitutes before
// invocation.
type Action struct {
	ID          string  `json:"id"`
	Description string  `json:"description,omitempty"`
	Method      string  `json:"method"`
	Href        string  `json:"href"`
	Confirm     Confirm `json:"confirm,omitempty"`
}

// RequiresConfirmation reports whether the action is gated on explicit
// user confirmation. True iff confirm is "user"; absent or any other
// value is ungated. How the confirmation is obtained (prompt, dialog,
// CLI) is the orchestrating caller's responsibility; the contract is
// that no gated action is invoked without it.
func (a Action) RequiresConfirmation() bool {
	return a.Confirm == ConfirmUser
}

// Validate checks the root document invariants: a non-empty name and
// module entries with unique, non-empty ids and hrefs.
func (d *RootDocument) Validate() error {
	if d.Name == "" {
		return uaperrors.New(uaperrors.CodeProtocol, "root document has no name", nil)
	}
	seen := make(map[string]struct{}, len(d.Modules))
	for _, mod := range d.Modules {
		if mod.ID == "" {
			return uaperrors.New(uaperrors.CodeProtocol, "module entry has no id", nil)
		}
		if mod.Href == "" {
			return uaperrors.New(uaperrors.CodeProtocol,
				fmt.Sprintf("module %q has no href", mod.ID), nil)
		}
		if _, ok := seen[mod.ID]; ok {
			return uaperrors.New(uaperrors.CodeProtocol,
				fmt.Sprintf("duplicate module id %q", mod.ID), nil)
		}
		seen[mod.ID] = struct{}{}
	}
	return nil
}

// ModuleIDs returns the module ids in document order.
func (d *RootDocument) ModuleIDs() []string {
	ids := make([]string, 0, len(d.Modules))
	for _, mod := range d.Modules {
		ids = append(ids, mod.ID)
	}
	return ids
}

// FindModule looks a module up by exact id match.
func (d *RootDocument) FindModule(id string) (ModuleRef, bool) {
	for _, mod := range d.Modules {
		if mod.ID == id {
			return mod, true
		}
	}
	return ModuleRef{}, false
}

// Validate checks the module document invariants: a non-empty name and
// actions with unique ids and a method+href pair each.
func (d *ModuleDocument) Validate() error {
	if d.Name == "" {
		return uaperrors.New(uaperrors.CodeProtocol, "module document has no name", nil)
	}
	seen := make(map[string]struct{}, len(d.Actions))
	for _, action := range d.Actions {
		if action.ID == "" {
			return uaperrors.New(uaperrors.CodeProtocol, "action entry has no id", nil)
		}
		if action.Method == "" || action.Href == "" {
			return uaperrors.New(uaperrors.CodeProtocol,
				fmt.Sprintf("action %q is missing method or href", action.ID), nil)
		}
		if _, ok := seen[action.ID]; ok {
			return uaperrors.New(uaperrors.CodeProtocol,
				fmt.Sprintf("duplicate action id %q", action.ID), nil)
		}
		seen[action.ID] = struct{}{}
	}
	return nil
}

// ActionIDs returns the action ids in document order.
func (d *ModuleDocument) ActionIDs() []string {
	ids := make([]string, 0, len(d.Actions))
	for _, action := range d.Actions {
		ids = append(ids, action.ID)
	}
	return ids
}

// FindAction looks an action up by exact id match. An absent id is a
// caller error, not a transport error: the typed NOT_FOUND error
// carries the valid alternatives so an interactive caller can retry.
func (d *ModuleDocument) FindAction(id string) (Action, error) {
	for _, action := range d.Actions {
		if action.ID == id {
			return action, nil
		}
	}
	return Action{}, uaperrors.New(uaperrors.CodeNotFound,
		fmt.Sprintf("action %q not found", id), nil).
		WithContext("available_actions", d.ActionIDs()).
		WithRecoverable(true)
}
