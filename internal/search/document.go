// Package search provides full-text search over festival sessions
// using Bleve. The public schedule uses it for instant filtering by
// text, teacher, level and session type.
package search

import (
	"strings"

	"github.com/flowgrid/flowgrid-server/internal/domain"
)

// SessionDocument is the document structure for the Bleve index.
//
// Teacher names are denormalized into each session document so a
// single query covers "find everything Alice teaches" without a join.
type SessionDocument struct {
	ID         string `json:"id"`
	FestivalID string `json:"festival_id"`

	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Prerequisites string `json:"prerequisites,omitempty"`
	Teachers      string `json:"teachers,omitempty"` // Space-joined for full-text search
	Location      string `json:"location,omitempty"`

	// Keyword fields for exact filtering.
	Day   string   `json:"day"`
	Level string   `json:"level,omitempty"`
	Types []string `json:"types,omitempty"`

	StartTime    string `json:"start_time"`
	DisplayOrder int    `json:"display_order"`
}

// DocumentFromSession builds the index document for a session.
func DocumentFromSession(s *domain.Session) *SessionDocument {
	return &SessionDocument{
		ID:            s.ID,
		FestivalID:    s.FestivalID,
		Title:         s.Title,
		Description:   s.Description,
		Prerequisites: s.Prerequisites,
		Teachers:      strings.Join(s.Teachers, " "),
		Location:      s.Location,
		Day:           strings.ToLower(strings.TrimSpace(s.Day)),
		Level:         strings.ToLower(strings.TrimSpace(s.Level)),
		Types:         s.Types,
		StartTime:     s.StartTime,
		DisplayOrder:  s.DisplayOrder,
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve defaults to Go struct field names, which are capitalized; the
// index mapping uses lowercase, so conversion is explicit.
func (d *SessionDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":            d.ID,
		"festival_id":   d.FestivalID,
		"title":         d.Title,
		"day":           d.Day,
		"start_time":    d.StartTime,
		"display_order": d.DisplayOrder,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Prerequisites != "" {
		m["prerequisites"] = d.Prerequisites
	}
	if d.Teachers != "" {
		m["teachers"] = d.Teachers
	}
	if d.Location != "" {
		m["location"] = d.Location
	}
	if d.Level != "" {
		m["level"] = d.Level
	}
	if len(d.Types) > 0 {
		m["types"] = d.Types
	}
	return m
}
