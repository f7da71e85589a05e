package reconcile

import (
	"log/slog"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/ingest"
)

// Planner computes merge plans for a festival.
type Planner struct {
	logger *slog.Logger
}

// NewPlanner creates a planner.
func NewPlanner(logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{logger: logger}
}

// Plan reconciles parsed import rows against the festival's stored
// sessions. Every valid row and every stored session lands in exactly
// one bucket; nothing is silently dropped.
func (p *Planner) Plan(festivalID string, mode Mode, rows []ingest.Row, stored []*domain.Session) *MergePlan {
	incoming, rejected, warnings := NormalizeRows(rows)

	plan := &MergePlan{
		FestivalID: festivalID,
		Mode:       mode,
		Rejected:   rejected,
		Warnings:   warnings,
	}

	matcher := NewMatcher(p.logger, stored)

	// Exact matches claim first so a session paired by key can never
	// also surface as a fuzzy suggestion for a later row.
	var unmatched []IncomingRow
	for _, row := range incoming {
		session, diffs := matcher.MatchExact(row)
		if session == nil {
			unmatched = append(unmatched, row)
			continue
		}
		if len(diffs) == 0 {
			plan.ExactMatchesUnchanged = append(plan.ExactMatchesUnchanged, UnchangedPair{Row: row, Session: *session})
		} else {
			plan.ExactMatchesWithChanges = append(plan.ExactMatchesWithChanges, ChangedPair{Row: row, Session: *session, Diffs: diffs})
		}
	}

	for _, row := range unmatched {
		if pair := matcher.MatchSuggested(row); pair != nil {
			plan.SuggestedMatches = append(plan.SuggestedMatches, *pair)
			continue
		}
		plan.ToCreate = append(plan.ToCreate, row)
	}

	// Sessions nobody claimed: bookings always protect a session from
	// deletion, and merge mode never deletes at all.
	for _, s := range matcher.Unclaimed() {
		switch {
		case s.HasBookings():
			plan.ToKeep = append(plan.ToKeep, *s)
		case mode == ModeReplace:
			plan.ToDelete = append(plan.ToDelete, *s)
		default:
			plan.ToKeep = append(plan.ToKeep, *s)
		}
	}

	plan.Summary = Summary{
		Unchanged: len(plan.ExactMatchesUnchanged),
		Changed:   len(plan.ExactMatchesWithChanges),
		Suggested: len(plan.SuggestedMatches),
		ToCreate:  len(plan.ToCreate),
		ToKeep:    len(plan.ToKeep),
		ToDelete:  len(plan.ToDelete),
		Rejected:  len(plan.Rejected),
	}

	p.logger.Info("merge plan computed",
		"festival_id", festivalID,
		"mode", mode,
		"unchanged", plan.Summary.Unchanged,
		"changed", plan.Summary.Changed,
		"suggested", plan.Summary.Suggested,
		"to_create", plan.Summary.ToCreate,
		"to_keep", plan.Summary.ToKeep,
		"to_delete", plan.Summary.ToDelete,
		"rejected", plan.Summary.Rejected,
	)

	return plan
}
