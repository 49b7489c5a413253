// Copyright 2026 © The UAP Authors
// SPDX-License-Identifier: Apache-2.0

package hotel

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const bookingTable = "hotel_bookings"

// SQLiteStore persists bookings in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed booking store and ensures schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if err := ensureBookingSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func ensureBookingSchema(db *sql.DB) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL,
			check_in TEXT NOT NULL,
			check_out TEXT NOT NULL,
			guest_name TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`, bookingTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_room ON %s(room_id);`, bookingTable, bookingTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_status ON %s(status);`, bookingTable, bookingTable),
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Create persists a new confirmed booking.
func (s *SQLiteStore) Create(ctx context.Context, req BookingRequest) (Booking, error) {
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
	now := time.Now().UTC().UnixMilli()
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, room_id, check_in, check_out, guest_name, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)", bookingTable),
		booking.ID, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.GuestName, booking.Status, now)
	if err != nil {
		return Booking{}, err
	}
	return booking, nil
}

// Get returns a booking by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Booking, error) {
	var booking Booking
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, room_id, check_in, check_out, guest_name, status FROM %s WHERE id = ?", bookingTable),
		id).Scan(&booking.ID, &booking.RoomID, &booking.CheckIn, &booking.CheckOut, &booking.GuestName, &booking.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return Booking{}, notFound(id)
		}
		return Booking{}, err
	}
	return booking, nil
}

// Cancel marks a booking canceled. Canceling twice is a no-op.
func (s *SQLiteStore) Cancel(ctx context.Context, id string) (Booking, error) {
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET status = ? WHERE id = ?", bookingTable),
		StatusCanceled, id)
	if err != nil {
		return Booking{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Booking{}, err
	}
	if affected == 0 {
		return Booking{}, notFound(id)
	}
	return s.Get(ctx, id)
}

// List returns all bookings in creation order.
func (s *SQLiteStore) List(ctx context.Context) ([]Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, room_id, check_in, check_out, guest_name, status FROM %s ORDER BY created_at ASC, id ASC", bookingTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var booking Booking
		if err := rows.Scan(&booking.ID, &booking.RoomID, &booking.CheckIn, &booking.CheckOut, &booking.GuestName, &booking.Status); err != nil {
			return nil, err
		}
		out = append(out, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
