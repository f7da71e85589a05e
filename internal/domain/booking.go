package domain

import "time"

// Booking reserves one spot on a session for an attendee.
// Bookings are identified to attendees by a cancel code rather than an
// account, since the public schedule has no login.
type Booking struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	FestivalID string    `json:"festival_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CancelCode string    `json:"cancel_code,omitempty"` // returned once at creation
	CreatedAt  time.Time `json:"created_at"`
}
