package domain

import "time"

// CardType selects how a session is rendered on the public schedule.
type CardType string

const (
	CardTypeMinimal  CardType = "minimal"
	CardTypePhoto    CardType = "photo"
	CardTypeDetailed CardType = "detailed"
)

// DefaultCardType is used when an imported row carries no usable card type.
const DefaultCardType = CardTypeDetailed

// ParseCardType validates a raw card type value.
// Returns the parsed type and true, or DefaultCardType and false for
// anything outside the fixed set (including empty).
func ParseCardType(s string) (CardType, bool) {
	switch CardType(s) {
	case CardTypeMinimal, CardTypePhoto, CardTypeDetailed:
		return CardType(s), true
	default:
		return DefaultCardType, false
	}
}

// Session is a single schedulable slot in a festival: a class, workshop,
// or performance. Sessions are created manually or by the import engine.
type Session struct {
	ID         string `json:"id"`
	FestivalID string `json:"festival_id"`

	Title         string   `json:"title"`
	Day           string   `json:"day"`        // weekday name or ISO date, as the organizer entered it
	StartTime     string   `json:"start_time"` // HH:MM, 24h
	EndTime       string   `json:"end_time"`   // HH:MM, 24h
	Level         string   `json:"level,omitempty"`
	Capacity      *int     `json:"capacity,omitempty"` // nil = unlimited
	Types         []string `json:"types,omitempty"`    // tags, e.g. "acro", "workshop"
	CardType      CardType `json:"card_type"`
	Teachers      []string `json:"teachers,omitempty"`
	Location      string   `json:"location,omitempty"`
	Description   string   `json:"description,omitempty"`
	Prerequisites string   `json:"prerequisites,omitempty"`

	// DisplayOrder orders parallel sessions within the same timeslot.
	// Changed only by the drag-reorder endpoint, never by import.
	DisplayOrder int `json:"display_order"`

	// Booking state. BookingCount is derived from the bookings table and
	// is the import engine's delete guard: an occupied session is never
	// removed by reconciliation.
	BookingEnabled  bool `json:"booking_enabled"`
	BookingCapacity *int `json:"booking_capacity,omitempty"` // nil = use Capacity
	BookingCount    int  `json:"booking_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasBookings reports whether any attendee holds a spot on this session.
func (s *Session) HasBookings() bool {
	return s.BookingCount > 0
}

// EffectiveBookingCapacity resolves the capacity bookings are checked
// against: BookingCapacity when set, otherwise Capacity. Zero or nil
// means unlimited.
func (s *Session) EffectiveBookingCapacity() int {
	if s.BookingCapacity != nil {
		return *s.BookingCapacity
	}
	if s.Capacity != nil {
		return *s.Capacity
	}
	return 0
}

// IsFull reports whether the session has no bookable spots left.
// Sessions with unlimited capacity are never full.
func (s *Session) IsFull() bool {
	capacity := s.EffectiveBookingCapacity()
	return capacity > 0 && s.BookingCount >= capacity
}
