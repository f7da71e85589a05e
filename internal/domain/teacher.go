package domain

import "time"

// Teacher is a festival instructor shown on session cards.
// The photo is stored on disk; PhotoHash is a content hash for cache
// validation and BlurHash is the low-resolution placeholder string.
type Teacher struct {
	ID         string    `json:"id"`
	FestivalID string    `json:"festival_id"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio,omitempty"`
	PhotoHash  string    `json:"photo_hash,omitempty"`
	BlurHash   string    `json:"blur_hash,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasPhoto reports whether a photo has been uploaded for this teacher.
func (t *Teacher) HasPhoto() bool {
	return t.PhotoHash != ""
}
