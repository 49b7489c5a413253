// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

// Package hotel is a reference UAP service: a small hotel booking API
// that publishes its capabilities under /.well-known/uap. It exists so
// agents and clients have a real endpoint to discover and invoke, and
// doubles as the integration surface for the client packages.
package hotel

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	uaperrors "github.com/jllopis/uap/pkg/errors"
)

// Room is an inventory entry.
type Room struct {
	ID       string   `json:"id"`
	RoomType string   `json:"room_type"`
	Price    int      `json:"price"`
	Features []string `json:"features"`
}

// BookingRequest is the payload for booking.create.
type BookingRequest struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`  // YYYY-MM-DD
	CheckOut  string `json:"check_out"` // YYYY-MM-DD
	GuestName string `json:"guest_name"`
}

// Validate checks the required booking fields.
func (r BookingRequest) Validate() error {
	if r.RoomID == "" {
		return uaperrors.New(uaperrors.CodeInvalidInput, "room_id is required", nil)
	}
	if r.CheckIn == "" || r.CheckOut == "" {
		return uaperrors.New(uaperrors.CodeInvalidInput, "check_in and check_out are required", nil)
	}
	if r.GuestName == "" {
		return uaperrors.New(uaperrors.CodeInvalidInput, "guest_name is required", nil)
	}
	return nil
}

// Booking states.
const (
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
)

// Booking is a stored reservation.
type Booking struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	GuestName string `json:"guest_name"`
	Status    string `json:"status"`
}

// BookingStore persists reservations. Implementations are safe for
// concurrent use.
type BookingStore interface {
	Create(ctx context.Context, req BookingRequest) (Booking, error)
	Get(ctx context.Context, id string) (Booking, error)
	Cancel(ctx context.Context, id string) (Booking, error)
	List(ctx context.Context) ([]Booking, error)
}

func notFound(id string) error {
	return uaperrors.New(uaperrors.CodeNotFound,
		fmt.Sprintf("booking %q not found", id), nil)
}

// MemoryStore keeps bookings in process memory. Suitable for demos and
// tests; restarts lose everything.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings map[string]Booking
	order    []string
}

// NewMemoryStore creates an empty in-memory booking store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bookings: make(map[string]Booking)}
}

// Create persists a new confirmed booking.
func (s *MemoryStore) Create(ctx context.Context, req BookingRequest) (Booking, error) {
	if err := req.Validate(); err != nil {
		return Booking{}, err
	}
	booking := Booking{
		ID:        uuid.NewString(),
		RoomID:    req.RoomID,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		GuestName: req.GuestName,
		Status:    StatusConfirmed,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[booking.ID] = booking
	s.order = append(s.order, booking.ID)
	return booking, nil
}

// Get returns a booking by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	booking, ok := s.bookings[id]
	if !ok {
		return Booking{}, notFound(id)
	}
	return booking, nil
}

// Cancel marks a booking canceled. Canceling twice is a no-op.
func (s *MemoryStore) Cancel(ctx context.Context, id string) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return Booking{}, notFound(id)
	}
	booking.Status = StatusCanceled
	s.bookings[id] = booking
	return booking, nil
}

// List returns all bookings in creation order.
func (s *MemoryStore) List(ctx context.Context) ([]Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Booking, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.bookings[id])
	}
	return out, nil
}
