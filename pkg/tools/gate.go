// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"strings"
	"sync"

	"github.com/yosida95/uritemplate/v3"

	"github.com/jllopis/uap/pkg/uap"
)

// GateTracker remembers which discovered actions carry the confirm
// "user" gate, keyed by method and href. The discover tool feeds it;
// the orchestrating caller consults it before invoking, matching the
// requested URL against the advertised href, placeholders included.
// Both sides are canonicalized first (query, fragment, and trailing
// slash stripped), so a model cannot slip past the gate by decorating
// the advertised URL. Documents are re-observed on every discovery, so
// a changed confirm flag is never served stale.
type GateTracker struct {
	mu    sync.RWMutex
	gated []gatedAction
}

type gatedAction struct {
	action   uap.Action
	method   string
	href     string
	template *uritemplate.Template
}

// NewGateTracker creates an empty tracker.
func NewGateTracker() *GateTracker {
	return &GateTracker{}
}

// Observe records the gated actions of a module document, replacing any
// earlier observation of actions with the same method and href.
func (g *GateTracker) Observe(module *uap.ModuleDocument) {
	if g == nil || module == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, action := range module.Actions {
		method := strings.ToUpper(strings.TrimSpace(action.Method))
		href := canonicalURL(action.Href)
		g.remove(method, href)
		if !action.RequiresConfirmation() {
			continue
		}
		entry := gatedAction{action: action, method: method, href: href}
		if strings.Contains(href, "{") {
			if tmpl, err := uritemplate.New(href); err == nil {
				entry.template = tmpl
			}
		}
		g.gated = append(g.gated, entry)
	}
}

// Gated reports whether an invocation of method+url targets a gated
// action, returning the action when it does.
func (g *GateTracker) Gated(method, invokeURL string) (uap.Action, bool) {
	if g == nil {
		return uap.Action{}, false
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	invokeURL = canonicalURL(invokeURL)
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, entry := range g.gated {
		if entry.method != method {
			continue
		}
		if entry.href == invokeURL {
			return entry.action, true
		}
		if entry.template != nil && entry.template.Match(invokeURL) != nil {
			return entry.action, true
		}
	}
	return uap.Action{}, false
}

func (g *GateTracker) remove(method, href string) {
	kept := g.gated[:0]
	for _, entry := range g.gated {
		if entry.method == method && entry.href == href {
			continue
		}
		kept = append(kept, entry)
	}
	g.gated = kept
}

// canonicalURL strips the query, fragment, and trailing slashes so a
// decorated invocation URL still matches the advertised href. Query
// parameters never identify an action: the uap_http contract carries
// them separately in params. String surgery, not url.Parse, because a
// parse round-trip would percent-encode {placeholder} braces in
// templated hrefs.
func canonicalURL(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimRight(raw, "/")
}
