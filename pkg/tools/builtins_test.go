// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uaperrors "github.com/jllopis/uap/pkg/errors"
	"github.com/jllopis/uap/pkg/invoker"
	"github.com/jllopis/uap/pkg/uap"
)

// newServiceFixture serves discovery documents plus a cancellable
// booking endpoint.
func newServiceFixture(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc(uap.WellKnownPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Example Hotel","modules":[{"id":"booking","href":"` + server.URL + `/.well-known/booking.json"}]}`))
	})
	mux.HandleFunc("/.well-known/booking.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Booking","actions":[
			{"id":"rooms.list","method":"GET","href":"` + server.URL + `/rooms"},
			{"id":"booking.cancel","method":"POST","href":"` + server.URL + `/bookings/{booking_id}/cancel","confirm":"user"}
		]}`))
	})
	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"room-101"}]`))
	})
	mux.HandleFunc("/bookings/b-42/cancel", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"b-42","status":"canceled"}`))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDiscoverTool_RootDocument(t *testing.T) {
	server := newServiceFixture(t)
	tracker := NewGateTracker()
	registry, err := NewDefaultRegistry(uap.NewClient(), invoker.New(), tracker)
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}

	out, err := registry.Call(context.Background(), DiscoverToolName, map[string]interface{}{
		"base_url": server.URL,
	})
	if err != nil {
		t.Fatalf("discover error: %v", err)
	}
	var doc uap.RootDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("discover output is not a document: %v", err)
	}
	if doc.Name != "Example Hotel" {
		t.Errorf("expected root document, got %q", doc.Name)
	}
}

func TestDiscoverTool_ModuleObservesGate(t *testing.T) {
	server := newServiceFixture(t)
	tracker := NewGateTracker()
	registry, err := NewDefaultRegistry(uap.NewClient(), invoker.New(), tracker)
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}

	out, err := registry.Call(context.Background(), DiscoverToolName, map[string]interface{}{
		"base_url":  server.URL + "/",
		"module_id": "booking",
	})
	if err != nil {
		t.Fatalf("discover error: %v", err)
	}
	var combined struct {
		UAP    uap.RootDocument   `json:"uap"`
		Module uap.ModuleDocument `json:"module"`
	}
	if err := json.Unmarshal([]byte(out), &combined); err != nil {
		t.Fatalf("discover output shape: %v", err)
	}
	if combined.Module.Name != "Booking" {
		t.Errorf("expected module document, got %q", combined.Module.Name)
	}

	if _, gated := tracker.Gated("POST", server.URL+"/bookings/b-42/cancel"); !gated {
		t.Errorf("expected cancel action to be tracked as gated after discovery")
	}
	if _, gated := tracker.Gated("GET", server.URL+"/rooms"); gated {
		t.Errorf("rooms.list must not be gated")
	}
}

func TestDiscoverTool_ModuleNotFound(t *testing.T) {
	server := newServiceFixture(t)
	registry, err := NewDefaultRegistry(uap.NewClient(), invoker.New(), NewGateTracker())
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}

	out, err := registry.Call(context.Background(), DiscoverToolName, map[string]interface{}{
		"base_url":  server.URL,
		"module_id": "spa",
	})
	if err != nil {
		t.Fatalf("a module miss must not error: %v", err)
	}
	if !strings.Contains(out, `Module "spa" not found`) || !strings.Contains(out, "booking") {
		t.Errorf("expected miss message with available ids, got %q", out)
	}
}

func TestDiscoverTool_MissingBaseURL(t *testing.T) {
	registry, err := NewDefaultRegistry(uap.NewClient(), invoker.New(), NewGateTracker())
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}
	_, err = registry.Call(context.Background(), DiscoverToolName, map[string]interface{}{})
	if uaperrors.CodeOf(err) != uaperrors.CodeInvalidInput {
		t.Errorf("expected CodeInvalidInput, got %v", err)
	}
}

func TestHTTPTool_PlaceholderExpansion(t *testing.T) {
	server := newServiceFixture(t)
	registry, err := NewDefaultRegistry(uap.NewClient(), invoker.New(), NewGateTracker())
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}

	out, err := registry.Call(context.Background(), HTTPToolName, map[string]interface{}{
		"method": "post",
		"url":    server.URL + "/bookings/{booking_id}/cancel",
		"params": map[string]interface{}{"booking_id": "b-42"},
	})
	if err != nil {
		t.Fatalf("uap_http error: %v", err)
	}
	if !strings.Contains(out, `"canceled"`) {
		t.Errorf("expected canceled booking in output, got %q", out)
	}
}

func TestHTTPTool_UnresolvedPlaceholder(t *testing.T) {
	registry, err := NewDefaultRegistry(uap.NewClient(), invoker.New(), NewGateTracker())
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}
	_, err = registry.Call(context.Background(), HTTPToolName, map[string]interface{}{
		"method": "POST",
		"url":    "http://svc/bookings/{booking_id}/cancel",
	})
	if uaperrors.CodeOf(err) != uaperrors.CodeInvalidInput {
		t.Errorf("expected CodeInvalidInput, got %v", err)
	}
}

func TestGateTracker_Reobservation(t *testing.T) {
	tracker := NewGateTracker()
	gatedDoc := &uap.ModuleDocument{
		Name: "Booking",
		Actions: []uap.Action{
			{ID: "booking.create", Method: "POST", Href: "http://svc/bookings", Confirm: uap.ConfirmUser},
		},
	}
	tracker.Observe(gatedDoc)
	if _, gated := tracker.Gated("post", "http://svc/bookings"); !gated {
		t.Fatalf("expected gated action")
	}

	// The service drops the gate; a fresh discovery must not serve the
	// stale flag.
	ungatedDoc := &uap.ModuleDocument{
		Name: "Booking",
		Actions: []uap.Action{
			{ID: "booking.create", Method: "POST", Href: "http://svc/bookings"},
		},
	}
	tracker.Observe(ungatedDoc)
	if _, gated := tracker.Gated("POST", "http://svc/bookings"); gated {
		t.Errorf("expected gate cleared after re-observation")
	}
}
