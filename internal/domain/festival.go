// Package domain defines the core entities for the Flow Grid server.
package domain

import "time"

// Festival is the top-level record an organizer builds a schedule under.
// Sessions, bookings, and teacher photos all hang off a festival.
type Festival struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"` // URL-safe identifier for the public schedule page
	Description string    `json:"description,omitempty"` // Markdown, rendered on the public page
	StartDate   string    `json:"start_date"`            // ISO date (2006-01-02)
	EndDate     string    `json:"end_date"`              // ISO date, inclusive
	Timezone    string    `json:"timezone,omitempty"`    // IANA name, display only
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPublic reports whether the festival's schedule is visible to attendees.
func (f *Festival) IsPublic() bool {
	return f.Published
}
