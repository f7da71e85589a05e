package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/ingest"
	"github.com/flowgrid/flowgrid-server/internal/normalize"
)

// requiredFields is the one hard validation gate. A row missing any of
// these is rejected and excluded from the plan; everything else is
// optional or defaulted.
var requiredFields = []string{
	ingest.ColTitle,
	ingest.ColDay,
	ingest.ColStartTime,
	ingest.ColEndTime,
}

// NormalizeRows converts parsed import rows into canonical incoming
// rows. Rows failing required-field validation land in the rejected
// list; soft problems (unknown card type, malformed times) become
// warnings and the row proceeds with a fallback value.
func NormalizeRows(rows []ingest.Row) ([]IncomingRow, []RejectedRow, []Warning) {
	var (
		incoming []IncomingRow
		rejected []RejectedRow
		warnings []Warning
	)

	for _, raw := range rows {
		row, reject, warns := normalizeRow(raw)
		warnings = append(warnings, warns...)
		if reject != nil {
			rejected = append(rejected, *reject)
			continue
		}
		incoming = append(incoming, row)
	}

	return incoming, rejected, warnings
}

func normalizeRow(raw ingest.Row) (IncomingRow, *RejectedRow, []Warning) {
	for _, field := range requiredFields {
		if raw.Get(field) == "" {
			return IncomingRow{}, &RejectedRow{
				Index:   raw.Index,
				Field:   field,
				Message: fmt.Sprintf("row %d: missing field %s", raw.Index, field),
			}, nil
		}
	}

	var warnings []Warning

	row := IncomingRow{
		Index:         raw.Index,
		Title:         raw.Get(ingest.ColTitle),
		Day:           raw.Get(ingest.ColDay),
		Level:         raw.Get(ingest.ColLevel),
		Types:         normalize.List(raw.Get(ingest.ColTypes)),
		Teachers:      normalize.List(raw.Get(ingest.ColTeachers)),
		Location:      raw.Get(ingest.ColLocation),
		Description:   raw.Get(ingest.ColDescription),
		Prerequisites: raw.Get(ingest.ColPrerequisites),
	}

	row.StartTime, warnings = normalizeClock(raw, ingest.ColStartTime, warnings)
	row.EndTime, warnings = normalizeClock(raw, ingest.ColEndTime, warnings)

	// Non-numeric or absent capacity means unlimited.
	if rawCap := raw.Get(ingest.ColCapacity); rawCap != "" {
		if n, err := strconv.Atoi(rawCap); err == nil && n >= 0 {
			row.Capacity = &n
		} else {
			warnings = append(warnings, Warning{
				Index:   raw.Index,
				Message: fmt.Sprintf("row %d: capacity %q is not a number, treating as unlimited", raw.Index, rawCap),
			})
		}
	}

	rawCard := strings.ToLower(raw.Get(ingest.ColCardType))
	if card, ok := domain.ParseCardType(rawCard); ok {
		row.CardType = string(card)
	} else {
		row.CardType = string(domain.DefaultCardType)
		if rawCard != "" {
			warnings = append(warnings, Warning{
				Index:   raw.Index,
				Message: fmt.Sprintf("row %d: unknown card type %q, using %q", raw.Index, rawCard, domain.DefaultCardType),
			})
		}
	}

	row.NormTitle = normalize.Title(row.Title)
	row.NormDay = normalize.Day(row.Day)

	return row, nil, warnings
}

// normalizeClock canonicalizes an HH:MM value. A value that does not
// parse is kept verbatim with a warning so matching still compares it
// consistently on both sides.
func normalizeClock(raw ingest.Row, col string, warnings []Warning) (string, []Warning) {
	value := raw.Get(col)
	clock, err := normalize.Clock(value)
	if err != nil {
		return value, append(warnings, Warning{
			Index:   raw.Index,
			Message: fmt.Sprintf("row %d: %s %q is not a valid HH:MM time", raw.Index, col, value),
		})
	}
	return clock, warnings
}

// keyFor builds the exact-match key for an incoming row.
func keyFor(row IncomingRow) MatchKey {
	return MatchKey{Day: row.NormDay, StartTime: row.StartTime, Title: row.NormTitle}
}

// keyForSession builds the exact-match key for a stored session.
func keyForSession(s *domain.Session) MatchKey {
	return MatchKey{
		Day:       normalize.Day(s.Day),
		StartTime: s.StartTime,
		Title:     normalize.Title(s.Title),
	}
}
