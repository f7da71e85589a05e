package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/id"
)

// SessionWriter is the slice of the session store the executor needs.
type SessionWriter interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
	// BookingCount reads the live booking count for a session. Deletes
	// re-check it at apply time rather than trusting the preview.
	BookingCount(ctx context.Context, sessionID string) (int, error)
}

// Executor applies a confirmed merge plan against the session store.
type Executor struct {
	store  SessionWriter
	logger *slog.Logger
	newID  func() string
}

// NewExecutor creates an executor.
func NewExecutor(store SessionWriter, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		store:  store,
		logger: logger,
		newID:  func() string { return id.MustGenerate(id.PrefixSession) },
	}
}

// operation is one pending write. Deletes carry the session so the
// booking guard can identify what it spared.
type operation struct {
	kind    string // "create", "update", "delete"
	session domain.Session
}

// Apply executes the plan under the given decisions. It refuses to
// start while any changed or suggested entry lacks a decision. Writes
// run sequentially with no transaction; the first failure aborts the
// rest of the batch and the result reports how far apply got.
func (e *Executor) Apply(ctx context.Context, plan *MergePlan, decisions map[string]Decision) (ApplyResult, error) {
	if pending := plan.PendingDecisions(decisions); len(pending) > 0 {
		return ApplyResult{State: StateAwaitingDecisions}, &ErrDecisionIncomplete{Pending: pending}
	}

	result := ApplyResult{State: StateApplying}

	ops, skipped := e.collectOperations(plan, decisions)
	result.Total = len(ops)
	result.Skipped = skipped
	result.Kept = len(plan.ToKeep)

	for _, op := range ops {
		if err := e.execute(ctx, op, &result); err != nil {
			result.State = StateFailed
			result.Error = fmt.Sprintf("%d of %d operations completed", result.Completed, result.Total)
			e.logger.Error("apply aborted",
				"festival_id", plan.FestivalID,
				"completed", result.Completed,
				"total", result.Total,
				"error", err,
			)
			return result, fmt.Errorf("apply %s: %w", op.kind, err)
		}
		result.Completed++
	}

	result.State = StateApplied

	e.logger.Info("merge plan applied",
		"festival_id", plan.FestivalID,
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"kept", result.Kept,
		"skipped", result.Skipped,
	)

	return result, nil
}

// collectOperations flattens the plan and decisions into an ordered
// write list. Updates run before creates so a rename decided as
// "create" can never collide with its own stored counterpart's slot;
// deletes run last.
func (e *Executor) collectOperations(plan *MergePlan, decisions map[string]Decision) ([]operation, int) {
	var updates, creates, deletes []operation
	skipped := 0

	nextOrder := maxDisplayOrder(plan) + 1
	create := func(row IncomingRow) {
		session := e.sessionFromRow(plan.FestivalID, row)
		session.DisplayOrder = nextOrder
		nextOrder++
		creates = append(creates, operation{kind: "create", session: session})
	}

	for _, pair := range plan.ExactMatchesWithChanges {
		switch decisions[pair.DecisionKey()] {
		case DecisionUpdate:
			updates = append(updates, operation{kind: "update", session: mergeRowInto(pair.Row, pair.Session)})
		case DecisionCreate:
			create(pair.Row)
		case DecisionSkip:
			skipped++
		}
	}

	for _, pair := range plan.SuggestedMatches {
		switch decisions[pair.DecisionKey()] {
		case DecisionUpdate:
			updates = append(updates, operation{kind: "update", session: mergeRowInto(pair.Row, pair.Session)})
		case DecisionCreate:
			create(pair.Row)
		case DecisionSkip:
			skipped++
		}
	}

	for _, row := range plan.ToCreate {
		create(row)
	}

	for _, session := range plan.ToDelete {
		deletes = append(deletes, operation{kind: "delete", session: session})
	}

	ops := make([]operation, 0, len(updates)+len(creates)+len(deletes))
	ops = append(ops, updates...)
	ops = append(ops, creates...)
	ops = append(ops, deletes...)
	return ops, skipped
}

func (e *Executor) execute(ctx context.Context, op operation, result *ApplyResult) error {
	switch op.kind {
	case "create":
		if err := e.store.CreateSession(ctx, &op.session); err != nil {
			return err
		}
		result.Created++

	case "update":
		if err := e.store.UpdateSession(ctx, &op.session); err != nil {
			return err
		}
		result.Updated++

	case "delete":
		// The preview's booking count is stale by apply time. A
		// booking that arrived in between turns the delete into a
		// no-op; the session survives and the anomaly is logged.
		count, err := e.store.BookingCount(ctx, op.session.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			e.logger.Warn("booking guard: refusing to delete session with bookings",
				"session_id", op.session.ID,
				"title", op.session.Title,
				"booking_count", count,
			)
			result.Kept++
			return nil
		}
		if err := e.store.DeleteSession(ctx, op.session.ID); err != nil {
			return err
		}
		result.Deleted++
	}

	return nil
}

// sessionFromRow builds a brand-new session from an incoming row.
func (e *Executor) sessionFromRow(festivalID string, row IncomingRow) domain.Session {
	card, ok := domain.ParseCardType(row.CardType)
	if !ok {
		card = domain.DefaultCardType
	}
	return domain.Session{
		ID:            e.newID(),
		FestivalID:    festivalID,
		Title:         row.Title,
		Day:           row.Day,
		StartTime:     row.StartTime,
		EndTime:       row.EndTime,
		Level:         row.Level,
		Capacity:      row.Capacity,
		Types:         row.Types,
		CardType:      card,
		Teachers:      row.Teachers,
		Location:      row.Location,
		Description:   row.Description,
		Prerequisites: row.Prerequisites,
	}
}

// mergeRowInto overwrites a stored session's content fields with the
// row's while preserving identity, ordering and booking state.
func mergeRowInto(row IncomingRow, stored domain.Session) domain.Session {
	card, ok := domain.ParseCardType(row.CardType)
	if !ok {
		card = domain.DefaultCardType
	}

	merged := stored
	merged.Title = row.Title
	merged.Day = row.Day
	merged.StartTime = row.StartTime
	merged.EndTime = row.EndTime
	merged.Level = row.Level
	merged.Capacity = row.Capacity
	merged.Types = row.Types
	merged.CardType = card
	merged.Teachers = row.Teachers
	merged.Location = row.Location
	merged.Description = row.Description
	merged.Prerequisites = row.Prerequisites
	return merged
}

func maxDisplayOrder(plan *MergePlan) int {
	max := 0
	consider := func(s domain.Session) {
		if s.DisplayOrder > max {
			max = s.DisplayOrder
		}
	}
	for _, p := range plan.ExactMatchesUnchanged {
		consider(p.Session)
	}
	for _, p := range plan.ExactMatchesWithChanges {
		consider(p.Session)
	}
	for _, p := range plan.SuggestedMatches {
		consider(p.Session)
	}
	for _, s := range plan.ToKeep {
		consider(s)
	}
	for _, s := range plan.ToDelete {
		consider(s)
	}
	return max
}
