package domain

import "time"

type RegistrationStatus string

// Registration status is monotonic: registered -> paid -> checked_in.
// checked_in is terminal.
const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationPaid       RegistrationStatus = "paid"
	RegistrationCheckedIn  RegistrationStatus = "checked_in"
)

// Registration is the durable record of a user's relationship to an event.
// At most one row exists per (user, event); the table enforces this with a
// unique constraint.
type Registration struct {
	ID          int64              `json:"id"`
	UserID      int64              `json:"user_id"`
	EventID     int64              `json:"event_id"`
	PaymentID   *int64             `json:"payment_id,omitempty"`
	Status      RegistrationStatus `json:"status"`
	QRToken     string             `json:"-"`
	CheckedInAt *time.Time         `json:"checked_in_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// RegistrationDetail joins the registration with its user and event for
// organizer attendee lists and the student "my registrations" view.
type RegistrationDetail struct {
	Registration
	UserName   string    `json:"user_name"`
	UserEmail  string    `json:"user_email"`
	UserPhone  string    `json:"user_phone"`
	UserRollNo string    `json:"user_roll_no"`
	EventTitle string    `json:"event_title"`
	EventVenue string    `json:"event_venue"`
	EventDate  time.Time `json:"event_date"`
}

// ScanResult is shown on the organizer's device after a successful check-in.
type ScanResult struct {
	Success bool        `json:"success"`
	Student ScanStudent `json:"student"`
	Event   string      `json:"event"`
}

type ScanStudent struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ScanRequest struct {
	QRToken string `json:"qrToken"`
}

type RegistrationStatusResponse struct {
	Registered bool               `json:"registered"`
	Status     RegistrationStatus `json:"status,omitempty"`
}
