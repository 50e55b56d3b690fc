package domain

import (
	"fmt"
	"strings"
	"time"
)

type EventStatus string

const (
	EventActive   EventStatus = "active"
	EventArchived EventStatus = "archived"
)

type Event struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	Venue       string      `json:"venue"`
	Price       int64       `json:"price"` // rupees
	Deadline    time.Time   `json:"registration_deadline"`
	Status      EventStatus `json:"status"`
	OrganizerID int64       `json:"organizer_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// RegistrationOpen is a point-in-time deadline check; the deadline is only
// enforced at order creation, never re-checked afterwards.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return !now.After(e.Deadline)
}

type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	Price       int64     `json:"price"`
	Deadline    time.Time `json:"registration_deadline"`
}

func (r *EventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Venue = strings.TrimSpace(r.Venue)
}

func (r *EventRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Venue == "" {
		return fmt.Errorf("venue is required")
	}
	if r.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if r.Date.IsZero() || r.Deadline.IsZero() {
		return fmt.Errorf("date and registration deadline are required")
	}
	if r.Deadline.After(r.Date) {
		return fmt.Errorf("registration deadline must not be after the event date")
	}
	return nil
}

type EventPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	Price       *int64     `json:"price,omitempty"`
	Deadline    *time.Time `json:"registration_deadline,omitempty"`
}

// EventSummary is one row of the organizer dashboard.
type EventSummary struct {
	EventID       int64     `json:"event_id"`
	Title         string    `json:"title"`
	Date          time.Time `json:"date"`
	Venue         string    `json:"venue"`
	Registrations int64     `json:"registrations"`
	PaidUsers     int64     `json:"paid_users"`
	CheckedIn     int64     `json:"checked_in"`
	Revenue       int64     `json:"revenue"`
}
