package reconcile

import (
	"fmt"

	"github.com/flowgrid/flowgrid-server/internal/domain"
)

// Mode selects how unmatched stored sessions are treated.
type Mode string

const (
	// ModeMerge is additive. Unmatched stored sessions are left alone.
	ModeMerge Mode = "merge"
	// ModeReplace deletes unmatched stored sessions without bookings.
	ModeReplace Mode = "replace"
)

// ParseMode validates a mode string, defaulting to merge when empty.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMerge, ModeReplace:
		return Mode(s), nil
	case "":
		return ModeMerge, nil
	default:
		return "", fmt.Errorf("unknown import mode %q", s)
	}
}

// Decision is the human resolution for a changed or suggested pair.
type Decision string

const (
	// DecisionUpdate overwrites the stored session with the incoming
	// fields, keeping its ID and booking state.
	DecisionUpdate Decision = "update"
	// DecisionCreate inserts the incoming row as a brand-new session
	// and leaves the stored session alone.
	DecisionCreate Decision = "create"
	// DecisionSkip leaves the stored session untouched and drops the
	// incoming row.
	DecisionSkip Decision = "skip"
)

// Valid reports whether d is one of the three known decisions.
func (d Decision) Valid() bool {
	return d == DecisionUpdate || d == DecisionCreate || d == DecisionSkip
}

// State tracks a reconciliation run from preview through apply.
type State string

const (
	StatePreviewed         State = "previewed"
	StateAwaitingDecisions State = "awaiting_decisions"
	StateConfirmed         State = "confirmed"
	StateApplying          State = "applying"
	StateApplied           State = "applied"
	StateFailed            State = "failed"
)

// IncomingRow is one canonicalized row from an import source. The
// normalized title and day are computed once at normalization time so
// matching never re-derives them.
type IncomingRow struct {
	Index         int      `json:"index"`
	Title         string   `json:"title"`
	Day           string   `json:"day"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	Level         string   `json:"level,omitempty"`
	Capacity      *int     `json:"capacity,omitempty"`
	Types         []string `json:"types,omitempty"`
	CardType      string   `json:"cardType"`
	Teachers      []string `json:"teachers,omitempty"`
	Location      string   `json:"location,omitempty"`
	Description   string   `json:"description,omitempty"`
	Prerequisites string   `json:"prerequisites,omitempty"`

	NormTitle string `json:"normTitle"`
	NormDay   string `json:"normDay"`
}

// RejectedRow records an incoming row that failed required-field
// validation and was excluded from the plan.
type RejectedRow struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Warning is a non-fatal normalization note, surfaced alongside the
// plan but never blocking it.
type Warning struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// MatchKey identifies an exact-match candidate: two records with equal
// keys describe the same timeslot and title.
type MatchKey struct {
	Day       string
	StartTime string
	Title     string
}

// UnchangedPair is an incoming row that exactly matches a stored
// session with no field differences.
type UnchangedPair struct {
	Row     IncomingRow    `json:"row"`
	Session domain.Session `json:"session"`
}

// ChangedPair is an exact match with at least one differing field.
// Diffs are human-readable, one entry per field.
type ChangedPair struct {
	Row     IncomingRow    `json:"row"`
	Session domain.Session `json:"session"`
	Diffs   []string       `json:"diffs"`
}

// DecisionKey returns the stable identifier this pair's decision is
// keyed by in the decision map.
func (p ChangedPair) DecisionKey() string { return p.Session.ID }

// SuggestedPair is a lower-confidence pairing found by relaxing one of
// the exact-match fields. It is never auto-applied.
type SuggestedPair struct {
	Row         IncomingRow    `json:"row"`
	Session     domain.Session `json:"session"`
	MatchReason string         `json:"matchReason"`
	Diffs       []string       `json:"diffs"`
}

// DecisionKey is prefixed so suggested decisions cannot collide with
// exact-changed decisions for the same stored session.
func (p SuggestedPair) DecisionKey() string { return "suggest:" + p.Session.ID }

// Summary holds the bucket counts shown to the user before apply.
type Summary struct {
	Unchanged int `json:"unchanged"`
	Changed   int `json:"changed"`
	Suggested int `json:"suggested"`
	ToCreate  int `json:"toCreate"`
	ToKeep    int `json:"toKeep"`
	ToDelete  int `json:"toDelete"`
	Rejected  int `json:"rejected"`
}

// MergePlan is the full reconciliation output. Every valid incoming row
// and every stored session lands in exactly one bucket or pairing; the
// plan is fully serializable so preview and apply can round-trip it
// through the caller without server-side state.
type MergePlan struct {
	// RunID correlates the preview and apply log lines of one import.
	RunID      string `json:"runId,omitempty"`
	FestivalID string `json:"festivalId"`
	Mode       Mode   `json:"mode"`

	ExactMatchesUnchanged   []UnchangedPair  `json:"exactMatchesUnchanged"`
	ExactMatchesWithChanges []ChangedPair    `json:"exactMatchesWithChanges"`
	SuggestedMatches        []SuggestedPair  `json:"suggestedMatches"`
	ToCreate                []IncomingRow    `json:"toCreate"`
	ToKeep                  []domain.Session `json:"toKeep"`
	ToDelete                []domain.Session `json:"toDelete"`

	Rejected []RejectedRow `json:"rejected,omitempty"`
	Warnings []Warning     `json:"warnings,omitempty"`
	Summary  Summary       `json:"summary"`
}

// PendingDecisions lists the decision keys that still lack a valid
// decision. An empty result means the plan is ready to apply.
func (p *MergePlan) PendingDecisions(decisions map[string]Decision) []string {
	var pending []string
	for _, pair := range p.ExactMatchesWithChanges {
		if !decisions[pair.DecisionKey()].Valid() {
			pending = append(pending, pair.DecisionKey())
		}
	}
	for _, pair := range p.SuggestedMatches {
		if !decisions[pair.DecisionKey()].Valid() {
			pending = append(pending, pair.DecisionKey())
		}
	}
	return pending
}

// StateFor reports where a run sits given the current decision map.
func (p *MergePlan) StateFor(decisions map[string]Decision) State {
	if len(p.PendingDecisions(decisions)) > 0 {
		return StateAwaitingDecisions
	}
	if len(p.ExactMatchesWithChanges) == 0 && len(p.SuggestedMatches) == 0 && len(decisions) == 0 {
		return StatePreviewed
	}
	return StateConfirmed
}

// ApplyResult summarizes what apply actually performed.
type ApplyResult struct {
	State     State  `json:"state"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Deleted   int    `json:"deleted"`
	Kept      int    `json:"kept"`
	Skipped   int    `json:"skipped"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Error     string `json:"error,omitempty"`
}

// ErrDecisionIncomplete is returned when apply is attempted while
// changed or suggested entries still lack decisions.
type ErrDecisionIncomplete struct {
	Pending []string
}

func (e *ErrDecisionIncomplete) Error() string {
	return fmt.Sprintf("%d entries are awaiting a decision", len(e.Pending))
}
