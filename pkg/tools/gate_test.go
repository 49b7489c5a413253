// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"testing"

	"github.com/jllopis/uap/pkg/uap"
)

func gatedBookingModule() *uap.ModuleDocument {
	return &uap.ModuleDocument{
		Name: "Booking",
		Actions: []uap.Action{
			{ID: "rooms.list", Method: "GET", Href: "http://svc/rooms"},
			{ID: "booking.create", Method: "POST", Href: "http://svc/bookings", Confirm: uap.ConfirmUser},
			{ID: "booking.cancel", Method: "POST", Href: "http://svc/bookings/{booking_id}/cancel", Confirm: uap.ConfirmUser},
		},
	}
}

func TestGated_ExactAndTemplated(t *testing.T) {
	tracker := NewGateTracker()
	tracker.Observe(gatedBookingModule())

	if _, gated := tracker.Gated("POST", "http://svc/bookings"); !gated {
		t.Errorf("advertised href must be gated")
	}
	if action, gated := tracker.Gated("post", "http://svc/bookings/b-42/cancel"); !gated || action.ID != "booking.cancel" {
		t.Errorf("expanded templated href must be gated, got %v %v", action.ID, gated)
	}
	if _, gated := tracker.Gated("GET", "http://svc/rooms"); gated {
		t.Errorf("ungated action must not be gated")
	}
	if _, gated := tracker.Gated("GET", "http://svc/bookings"); gated {
		t.Errorf("gate is keyed by method, GET must not match POST")
	}
}

// A decorated URL still targets the same action; query strings,
// fragments, and trailing slashes must not open the gate.
func TestGated_URLVariants(t *testing.T) {
	tracker := NewGateTracker()
	tracker.Observe(gatedBookingModule())

	variants := []string{
		"http://svc/bookings?src=agent",
		"http://svc/bookings/",
		"http://svc/bookings/?src=agent",
		"http://svc/bookings#frag",
		"http://svc/bookings/b-42/cancel?force=1",
		"http://svc/bookings/b-42/cancel/",
	}
	for _, variant := range variants {
		if _, gated := tracker.Gated("POST", variant); !gated {
			t.Errorf("variant %q bypassed the gate", variant)
		}
	}
}

// Advertised hrefs get the same canonicalization as invocation URLs.
func TestGated_CanonicalizedHref(t *testing.T) {
	tracker := NewGateTracker()
	tracker.Observe(&uap.ModuleDocument{
		Name: "Booking",
		Actions: []uap.Action{
			{ID: "booking.create", Method: "POST", Href: "http://svc/bookings/", Confirm: uap.ConfirmUser},
		},
	})

	if _, gated := tracker.Gated("POST", "http://svc/bookings"); !gated {
		t.Errorf("trailing slash in the advertised href must not matter")
	}
}
