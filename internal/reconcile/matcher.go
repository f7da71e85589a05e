package reconcile

import (
	"log/slog"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/normalize"
)

// Matcher pairs incoming rows with stored sessions. It is built once
// per reconciliation run over the festival's current sessions and is
// not safe for concurrent use.
type Matcher struct {
	logger *slog.Logger

	// pool holds the stored sessions not yet claimed by any row.
	// A session claimed by an exact or suggested match leaves the
	// pool so it cannot be paired twice.
	pool  []*poolEntry
	byKey map[MatchKey]*poolEntry
}

type poolEntry struct {
	session  *domain.Session
	normDay  string
	normName string
	claimed  bool
}

// NewMatcher builds the match pool and key index for a festival's
// stored sessions.
func NewMatcher(logger *slog.Logger, sessions []*domain.Session) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Matcher{
		logger: logger,
		byKey:  make(map[MatchKey]*poolEntry, len(sessions)),
	}

	for _, s := range sessions {
		entry := &poolEntry{
			session:  s,
			normDay:  normalize.Day(s.Day),
			normName: normalize.Title(s.Title),
		}
		m.pool = append(m.pool, entry)

		// First session wins a contested key. Duplicate keys only
		// happen when the store already holds duplicate sessions.
		key := keyForSession(s)
		if _, exists := m.byKey[key]; !exists {
			m.byKey[key] = entry
		}
	}

	return m
}

// MatchExact looks up the row's key against unclaimed stored sessions.
// A hit claims the session and returns it with its field diffs; no hit
// returns nil and the row proceeds to fuzzy matching.
func (m *Matcher) MatchExact(row IncomingRow) (*domain.Session, []string) {
	entry, ok := m.byKey[keyFor(row)]
	if !ok || entry.claimed {
		return nil, nil
	}

	entry.claimed = true
	return entry.session, fieldDiffs(row, entry.session)
}

// MatchSuggested searches unclaimed sessions for a plausible renamed,
// retimed or rescheduled counterpart of the row. Rules run in priority
// order and the first session satisfying a rule wins; a hit claims the
// session. Returns nil when no rule fires.
func (m *Matcher) MatchSuggested(row IncomingRow) *SuggestedPair {
	type rule struct {
		reason  string
		matches func(*poolEntry) bool
	}

	rules := []rule{
		{
			// Likely a rename.
			reason: "same time, different title",
			matches: func(e *poolEntry) bool {
				return e.normDay == row.NormDay &&
					e.session.StartTime == row.StartTime &&
					e.normName != row.NormTitle
			},
		},
		{
			// Likely a time shift within the same day.
			reason: "same title, different time",
			matches: func(e *poolEntry) bool {
				return e.normDay == row.NormDay &&
					e.normName == row.NormTitle &&
					e.session.StartTime != row.StartTime
			},
		},
		{
			// Likely a full reschedule to another day.
			reason: "same title and teachers, different day",
			matches: func(e *poolEntry) bool {
				return e.normName == row.NormTitle &&
					e.normDay != row.NormDay &&
					normalize.NamesOverlap(e.session.Teachers, row.Teachers)
			},
		},
	}

	for _, r := range rules {
		for _, entry := range m.pool {
			if entry.claimed || !r.matches(entry) {
				continue
			}

			entry.claimed = true

			m.logger.Debug("suggested match",
				"row_index", row.Index,
				"session_id", entry.session.ID,
				"reason", r.reason,
			)

			return &SuggestedPair{
				Row:         row,
				Session:     *entry.session,
				MatchReason: r.reason,
				Diffs:       fieldDiffs(row, entry.session),
			}
		}
	}

	return nil
}

// Unclaimed returns the stored sessions no row has claimed, in their
// original order.
func (m *Matcher) Unclaimed() []*domain.Session {
	var out []*domain.Session
	for _, entry := range m.pool {
		if !entry.claimed {
			out = append(out, entry.session)
		}
	}
	return out
}
