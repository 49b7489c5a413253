// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	uaperrors "github.com/jllopis/uap/pkg/errors"
)

const hotelSpecJSON = `{
	"openapi": "3.0.3",
	"info": {"title": "Booking", "version": "1.0.0"},
	"servers": [{"url": "https://hotel.example.com"}],
	"paths": {
		"/rooms": {
			"get": {"operationId": "rooms.list", "summary": "List all rooms"}
		},
		"/bookings": {
			"post": {
				"operationId": "booking.create",
				"summary": "Create a booking",
				"x-uap-confirm": "user"
			}
		},
		"/bookings/{booking_id}/cancel": {
			"post": {
				"operationId": "booking.cancel",
				"x-uap-confirm": "user"
			}
		}
	}
}`

const hotelSpecYAML = `openapi: "3.0.3"
info:
  title: Booking
  version: "1.0.0"
paths:
  /rooms:
    get:
      operationId: rooms.list
      summary: List all rooms
  /bookings/{booking_id}/cancel:
    post:
      operationId: booking.cancel
      x-uap-confirm: user
`

func TestParse_JSON(t *testing.T) {
	doc, err := Parse([]byte(hotelSpecJSON))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.Info.Title != "Booking" {
		t.Errorf("title = %q", doc.Info.Title)
	}
	if len(doc.Paths) != 3 {
		t.Errorf("expected 3 paths, got %d", len(doc.Paths))
	}
}

func TestParse_YAML(t *testing.T) {
	doc, err := Parse([]byte(hotelSpecYAML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	op := doc.Paths["/bookings/{booking_id}/cancel"].Post
	if op == nil || op.Confirm != "user" {
		t.Fatalf("x-uap-confirm not parsed from YAML: %+v", op)
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := Parse([]byte(": not a doc :")); uaperrors.CodeOf(err) != uaperrors.CodeProtocol {
		t.Fatalf("expected CodeProtocol, got %v", err)
	}
	if _, err := Parse([]byte(`{"openapi":"3.0.3"}`)); uaperrors.CodeOf(err) != uaperrors.CodeProtocol {
		t.Fatalf("expected CodeProtocol for empty paths, got %v", err)
	}
}

func TestModuleDocument(t *testing.T) {
	doc, err := Parse([]byte(hotelSpecJSON))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	module, err := doc.ModuleDocument("")
	if err != nil {
		t.Fatalf("ModuleDocument error: %v", err)
	}
	if module.Name != "Booking" {
		t.Errorf("module name = %q", module.Name)
	}
	if len(module.Actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(module.Actions))
	}

	cancel, err := module.FindAction("booking.cancel")
	if err != nil {
		t.Fatalf("FindAction error: %v", err)
	}
	if cancel.Href != "https://hotel.example.com/bookings/{booking_id}/cancel" {
		t.Errorf("placeholder href lost: %q", cancel.Href)
	}
	if cancel.Method != http.MethodPost {
		t.Errorf("method = %q", cancel.Method)
	}
	if !cancel.RequiresConfirmation() {
		t.Errorf("x-uap-confirm user must gate the action")
	}

	list, err := module.FindAction("rooms.list")
	if err != nil {
		t.Fatalf("FindAction error: %v", err)
	}
	if list.RequiresConfirmation() {
		t.Errorf("rooms.list must be ungated")
	}
	if list.Description != "List all rooms" {
		t.Errorf("summary not carried over: %q", list.Description)
	}
}

func TestModuleDocument_BaseURLOverride(t *testing.T) {
	doc, err := Parse([]byte(hotelSpecJSON))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	module, err := doc.ModuleDocument("http://localhost:8080/")
	if err != nil {
		t.Fatalf("ModuleDocument error: %v", err)
	}
	list, err := module.FindAction("rooms.list")
	if err != nil {
		t.Fatalf("FindAction error: %v", err)
	}
	if list.Href != "http://localhost:8080/rooms" {
		t.Errorf("href = %q", list.Href)
	}
}

func TestModuleDocument_NoBaseURL(t *testing.T) {
	doc, err := Parse([]byte(hotelSpecYAML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, err := doc.ModuleDocument(""); uaperrors.CodeOf(err) != uaperrors.CodeInvalidInput {
		t.Fatalf("expected CodeInvalidInput, got %v", err)
	}
}

func TestModuleDocument_DerivedIDs(t *testing.T) {
	doc, err := Parse([]byte(`{
		"openapi": "3.0.3",
		"info": {"title": "Anon", "version": "1"},
		"paths": {"/things": {"get": {"summary": "List"}}}
	}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	module, err := doc.ModuleDocument("http://localhost")
	if err != nil {
		t.Fatalf("ModuleDocument error: %v", err)
	}
	if _, err := module.FindAction("get_things"); err != nil {
		t.Errorf("derived id missing: %v", err)
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(hotelSpecJSON))
	}))
	defer server.Close()

	doc, err := Fetch(context.Background(), server.URL+"/openapi.json", nil)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if doc.Info.Title != "Booking" {
		t.Errorf("title = %q", doc.Info.Title)
	}
}

func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.URL+"/openapi.json", nil)
	uapErr := uaperrors.AsUAPError(err)
	if uapErr == nil || uapErr.Code != uaperrors.CodeHTTP {
		t.Fatalf("expected CodeHTTP, got %v", err)
	}
	if uapErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", uapErr.StatusCode)
	}
}
