package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowgrid/flowgrid-server/internal/domain"
)

// fieldDiffs compares every field between an incoming row and a stored
// session, identity fields included. Exact matches pair on normalized
// keys, so a case-only title change or a day alias still surfaces as a
// diff and the pair lands in the changed bucket for the raw text to be
// confirmed; for suggested matches the identity diffs show what the
// rule relaxed.
func fieldDiffs(row IncomingRow, s *domain.Session) []string {
	var diffs []string

	add := func(field, old, new string) {
		if old != new {
			diffs = append(diffs, fmt.Sprintf("%s: '%s' → '%s'", field, old, new))
		}
	}

	add("title", s.Title, row.Title)
	add("day", s.Day, row.Day)
	add("startTime", s.StartTime, row.StartTime)
	add("endTime", s.EndTime, row.EndTime)
	add("level", s.Level, row.Level)
	add("capacity", formatCapacity(s.Capacity), formatCapacity(row.Capacity))
	add("types", strings.Join(s.Types, ", "), strings.Join(row.Types, ", "))
	add("cardType", string(s.CardType), row.CardType)
	add("teachers", strings.Join(s.Teachers, ", "), strings.Join(row.Teachers, ", "))
	add("location", s.Location, row.Location)
	add("description", s.Description, row.Description)
	add("prerequisites", s.Prerequisites, row.Prerequisites)

	return diffs
}

func formatCapacity(c *int) string {
	if c == nil {
		return ""
	}
	return strconv.Itoa(*c)
}
