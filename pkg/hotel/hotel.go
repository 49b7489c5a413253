// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package hotel

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	uaperrors "github.com/jllopis/uap/pkg/errors"
	"github.com/jllopis/uap/pkg/openapi"
	"github.com/jllopis/uap/pkg/uap"
)

// DefaultName is the service name advertised in the root document.
const DefaultName = "Example Hotel"

// bookingModulePath is where the booking module document is published.
const bookingModulePath = "/.well-known/booking.json"

var defaultRooms = []Room{
	{ID: "room-101", RoomType: "queen", Price: 129, Features: []string{"wifi", "breakfast"}},
	{ID: "room-202", RoomType: "king", Price: 159, Features: []string{"wifi", "ocean_view"}},
	{ID: "room-303", RoomType: "suite", Price: 219, Features: []string{"wifi", "breakfast", "balcony"}},
}

// Service is the hotel HTTP API plus its discovery documents. Document
// hrefs are absolute, built from each request's host, so the service
// works unchanged behind any port or hostname.
type Service struct {
	name  string
	rooms []Room
	store BookingStore
	log   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithName overrides the advertised service name.
func WithName(name string) ServiceOption {
	return func(s *Service) { s.name = name }
}

// WithRooms replaces the default room inventory.
func WithRooms(rooms []Room) ServiceOption {
	return func(s *Service) { s.rooms = rooms }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService creates the hotel service backed by the given store.
func NewService(store BookingStore, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("booking store is required")
	}
	s := &Service{
		name:  DefaultName,
		rooms: defaultRooms,
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the service's HTTP handler.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET "+uap.WellKnownPath, s.handleRootDocument)
	mux.HandleFunc("GET "+bookingModulePath, s.handleModuleDocument)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	mux.HandleFunc("GET /rooms", s.handleListRooms)
	mux.HandleFunc("GET /rooms/search", s.handleSearchRooms)
	mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	mux.HandleFunc("POST /bookings/{booking_id}/cancel", s.handleCancelBooking)
	return mux
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (s *Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": s.name,
		"uap":     uap.WellKnownPath,
	})
}

func (s *Service) handleRootDocument(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	writeJSON(w, http.StatusOK, uap.RootDocument{
		Name: s.name,
		Modules: []uap.ModuleRef{
			{
				ID:          "booking",
				Description: "Room availability and booking",
				Href:        base + bookingModulePath,
			},
		},
	})
}

func (s *Service) handleModuleDocument(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	writeJSON(w, http.StatusOK, uap.ModuleDocument{
		Name:    "Booking",
		OpenAPI: base + "/openapi.json",
		Actions: []uap.Action{
			{
				ID:          "rooms.list",
				Description: "List all rooms",
				Method:      http.MethodGet,
				Href:        base + "/rooms",
			},
			{
				ID:          "rooms.search",
				Description: "Search available rooms",
				Method:      http.MethodGet,
				Href:        base + "/rooms/search",
			},
			{
				ID:          "booking.create",
				Description: "Create a booking",
				Method:      http.MethodPost,
				Href:        base + "/bookings",
				Confirm:     uap.ConfirmUser,
			},
			{
				ID:          "booking.cancel",
				Description: "Cancel a booking",
				Method:      http.MethodPost,
				Href:        base + "/bookings/{booking_id}/cancel",
				Confirm:     uap.ConfirmUser,
			},
		},
	})
}

// handleOpenAPI publishes the machine readable API description the
// module document links to. The x-uap-confirm extension mirrors the
// confirm flags so both documents tell the same story.
func (s *Service) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc := openapi.Document{
		OpenAPI: "3.0.3",
		Info: openapi.Info{
			Title:   "Booking",
			Version: "1.0.0",
		},
		Servers: []openapi.Server{{URL: baseURL(r)}},
		Paths: map[string]openapi.PathItem{
			"/rooms": {
				Get: &openapi.Operation{OperationID: "rooms.list", Summary: "List all rooms"},
			},
			"/rooms/search": {
				Get: &openapi.Operation{OperationID: "rooms.search", Summary: "Search available rooms"},
			},
			"/bookings": {
				Post: &openapi.Operation{
					OperationID: "booking.create",
					Summary:     "Create a booking",
					Confirm:     string(uap.ConfirmUser),
				},
			},
			"/bookings/{booking_id}/cancel": {
				Post: &openapi.Operation{
					OperationID: "booking.cancel",
					Summary:     "Cancel a booking",
					Confirm:     string(uap.ConfirmUser),
				},
			},
		},
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Service) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.rooms)
}

// handleSearchRooms validates the search parameters but returns the
// full inventory: the demo has no availability calendar.
func (s *Service) handleSearchRooms(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("guests"); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil || guests < 1 {
			s.writeError(w, r, uaperrors.New(uaperrors.CodeInvalidInput,
				"guests must be a positive integer", err))
			return
		}
	}
	writeJSON(w, http.StatusOK, s.rooms)
}

func (s *Service) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, uaperrors.New(uaperrors.CodeInvalidInput, "invalid booking payload", err))
		return
	}
	if _, ok := s.findRoom(req.RoomID); !ok {
		s.writeError(w, r, uaperrors.New(uaperrors.CodeNotFound, "Room not found", nil).
			WithContext("room_id", req.RoomID))
		return
	}
	booking, err := s.store.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("hotel.booking.created",
		slog.String("booking_id", booking.ID),
		slog.String("room_id", booking.RoomID),
	)
	writeJSON(w, http.StatusOK, booking)
}

func (s *Service) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("booking_id")
	booking, err := s.store.Cancel(r.Context(), id)
	if err != nil {
		if uaperrors.CodeOf(err) == uaperrors.CodeNotFound {
			s.writeError(w, r, uaperrors.New(uaperrors.CodeNotFound, "Booking not found", nil).
				WithContext("booking_id", id))
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.log.Info("hotel.booking.canceled", slog.String("booking_id", booking.ID))
	writeJSON(w, http.StatusOK, booking)
}

func (s *Service) findRoom(id string) (Room, bool) {
	for _, room := range s.rooms {
		if room.ID == id {
			return room, true
		}
	}
	return Room{}, false
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	uapErr := uaperrors.AsUAPError(err)
	status := uapErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		s.log.Error("hotel.request.failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	writeJSON(w, status, map[string]string{"detail": uapErr.Message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
