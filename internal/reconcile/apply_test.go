package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/ingest"
)

// fakeStore records writes in order and can be told to fail the Nth
// write or to report live booking counts.
type fakeStore struct {
	sessions      map[string]*domain.Session
	bookingCounts map[string]int
	writes        []string
	failAtWrite   int // 1-based; 0 disables
}

func newFakeStore(sessions ...*domain.Session) *fakeStore {
	s := &fakeStore{
		sessions:      make(map[string]*domain.Session),
		bookingCounts: make(map[string]int),
	}
	for _, sess := range sessions {
		s.sessions[sess.ID] = sess
		s.bookingCounts[sess.ID] = sess.BookingCount
	}
	return s
}

func (s *fakeStore) write(op string) error {
	s.writes = append(s.writes, op)
	if s.failAtWrite > 0 && len(s.writes) == s.failAtWrite {
		return errors.New("store unavailable")
	}
	return nil
}

func (s *fakeStore) CreateSession(ctx context.Context, session *domain.Session) error {
	if err := s.write("create " + session.Title); err != nil {
		return err
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeStore) UpdateSession(ctx context.Context, session *domain.Session) error {
	if err := s.write("update " + session.ID); err != nil {
		return err
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.write("delete " + sessionID); err != nil {
		return err
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *fakeStore) BookingCount(ctx context.Context, sessionID string) (int, error) {
	return s.bookingCounts[sessionID], nil
}

func testExecutor(store *fakeStore) *Executor {
	e := NewExecutor(store, slog.New(slog.DiscardHandler))
	n := 0
	e.newID = func() string {
		n++
		return fmt.Sprintf("sess_new_%d", n)
	}
	return e
}

func planFor(t *testing.T, mode Mode, rows []ingest.Row, stored []*domain.Session) *MergePlan {
	t.Helper()
	return testPlanner().Plan("fest_1", mode, rows, stored)
}

func TestApply_DecisionIncomplete(t *testing.T) {
	stored := storedSession("sess_1", "Yoga", "Monday", "09:00")
	stored.Location = "Hall B"
	row := importRow(1, "Yoga", "Monday", "09:00")
	row.Fields[ingest.ColLocation] = "Hall A"

	store := newFakeStore(stored)
	plan := planFor(t, ModeMerge, []ingest.Row{row}, []*domain.Session{stored})

	result, err := testExecutor(store).Apply(context.Background(), plan, nil)

	var incomplete *ErrDecisionIncomplete
	if !errors.As(err, &incomplete) {
		t.Fatalf("want ErrDecisionIncomplete, got %v", err)
	}
	if len(incomplete.Pending) != 1 || incomplete.Pending[0] != "sess_1" {
		t.Errorf("pending = %v", incomplete.Pending)
	}
	if result.State != StateAwaitingDecisions {
		t.Errorf("state = %q", result.State)
	}
	if len(store.writes) != 0 {
		t.Errorf("no writes should happen, got %v", store.writes)
	}
}

func TestApply_UpdatePreservesIdentityAndBookingState(t *testing.T) {
	cap := 15
	stored := storedSession("sess_1", "Yoga", "Monday", "09:00")
	stored.Location = "Hall B"
	stored.DisplayOrder = 4
	stored.BookingEnabled = true
	stored.BookingCapacity = &cap
	stored.BookingCount = 3

	row := importRow(1, "Yoga", "Monday", "09:00")
	row.Fields[ingest.ColLocation] = "Hall A"
	row.Fields[ingest.ColTeachers] = "Alice"

	store := newFakeStore(stored)
	store.bookingCounts["sess_1"] = 3
	plan := planFor(t, ModeMerge, []ingest.Row{row}, []*domain.Session{stored})

	result, err := testExecutor(store).Apply(context.Background(), plan,
		map[string]Decision{"sess_1": DecisionUpdate})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if result.State != StateApplied || result.Updated != 1 {
		t.Errorf("result = %+v", result)
	}

	got := store.sessions["sess_1"]
	if got.Location != "Hall A" {
		t.Errorf("location not updated: %q", got.Location)
	}
	if len(got.Teachers) != 1 || got.Teachers[0] != "Alice" {
		t.Errorf("teachers not updated: %v", got.Teachers)
	}
	if got.ID != "sess_1" || got.DisplayOrder != 4 || !got.BookingEnabled ||
		got.BookingCapacity == nil || *got.BookingCapacity != 15 || got.BookingCount != 3 {
		t.Errorf("identity or booking state not preserved: %+v", got)
	}
}

func TestApply_SkipLeavesSessionUntouched(t *testing.T) {
	stored := storedSession("sess_1", "Yoga", "Monday", "09:00")
	stored.Location = "Hall B"
	row := importRow(1, "Yoga", "Monday", "09:00")
	row.Fields[ingest.ColLocation] = "Hall A"

	store := newFakeStore(stored)
	plan := planFor(t, ModeMerge, []ingest.Row{row}, []*domain.Session{stored})

	result, err := testExecutor(store).Apply(context.Background(), plan,
		map[string]Decision{"sess_1": DecisionSkip})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if result.Skipped != 1 || result.Updated != 0 {
		t.Errorf("result = %+v", result)
	}
	if len(store.writes) != 0 {
		t.Errorf("skip must not write, got %v", store.writes)
	}
	if store.sessions["sess_1"].Location != "Hall B" {
		t.Error("stored session was modified")
	}
}

func TestApply_SuggestedCreateLeavesTargetAlone(t *testing.T) {
	stored := storedSession("sess_1", "Yoga", "Monday", "09:00")
	row := importRow(1, "Yoga Flow", "Monday", "09:00")

	store := newFakeStore(stored)
	plan := planFor(t, ModeMerge, []ingest.Row{row}, []*domain.Session{stored})
	if len(plan.SuggestedMatches) != 1 {
		t.Fatalf("expected one suggestion, got %+v", plan.Summary)
	}

	result, err := testExecutor(store).Apply(context.Background(), plan,
		map[string]Decision{"suggest:sess_1": DecisionCreate})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if result.Created != 1 {
		t.Errorf("result = %+v", result)
	}
	if _, ok := store.sessions["sess_1"]; !ok {
		t.Error("suggested target must survive a create decision")
	}
	if len(store.sessions) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(store.sessions))
	}
}

func TestApply_ScenarioD_PartialFailure(t *testing.T) {
	rows := make([]ingest.Row, 5)
	for i := range rows {
		rows[i] = importRow(i+1, fmt.Sprintf("Class %d", i+1), "Monday", fmt.Sprintf("%02d:00", 9+i))
	}

	store := newFakeStore()
	store.failAtWrite = 3
	plan := planFor(t, ModeMerge, rows, nil)

	result, err := testExecutor(store).Apply(context.Background(), plan, nil)
	if err == nil {
		t.Fatal("expected write failure")
	}
	if result.State != StateFailed {
		t.Errorf("state = %q", result.State)
	}
	if result.Error != "2 of 5 operations completed" {
		t.Errorf("error report = %q", result.Error)
	}
	if result.Created != 2 {
		t.Errorf("created = %d, want 2", result.Created)
	}
	if len(store.writes) != 3 {
		t.Errorf("operations 4 and 5 must not be attempted, writes = %v", store.writes)
	}
}

func TestApply_DeleteRecheckedBookingGuard(t *testing.T) {
	stored := storedSession("sess_1", "Balboa", "Friday", "21:00")

	store := newFakeStore(stored)
	plan := planFor(t, ModeReplace, nil, []*domain.Session{stored})
	if len(plan.ToDelete) != 1 {
		t.Fatalf("expected session in toDelete, got %+v", plan.Summary)
	}

	// A booking arrives between preview and apply.
	store.bookingCounts["sess_1"] = 1

	result, err := testExecutor(store).Apply(context.Background(), plan, nil)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if result.Deleted != 0 {
		t.Errorf("deleted = %d, want 0", result.Deleted)
	}
	if result.Kept != 1 {
		t.Errorf("kept = %d, want 1", result.Kept)
	}
	if _, ok := store.sessions["sess_1"]; !ok {
		t.Error("booked session was deleted")
	}
	if result.State != StateApplied {
		t.Errorf("guarded delete is not a failure, state = %q", result.State)
	}
}

func TestApply_DeleteWithoutBookings(t *testing.T) {
	stored := storedSession("sess_1", "Balboa", "Friday", "21:00")

	store := newFakeStore(stored)
	plan := planFor(t, ModeReplace, nil, []*domain.Session{stored})

	result, err := testExecutor(store).Apply(context.Background(), plan, nil)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if result.Deleted != 1 {
		t.Errorf("deleted = %d, want 1", result.Deleted)
	}
	if _, ok := store.sessions["sess_1"]; ok {
		t.Error("session should be gone")
	}
}

func TestApply_CreatesGetFreshOrderAfterExisting(t *testing.T) {
	stored := storedSession("sess_1", "Yoga", "Monday", "09:00")
	stored.DisplayOrder = 7

	rows := []ingest.Row{
		importRow(1, "Yoga", "Monday", "09:00"),
		importRow(2, "Blues", "Friday", "22:00"),
	}

	store := newFakeStore(stored)
	plan := planFor(t, ModeMerge, rows, []*domain.Session{stored})

	if _, err := testExecutor(store).Apply(context.Background(), plan, nil); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	created := store.sessions["sess_new_1"]
	if created == nil {
		t.Fatal("created session missing")
	}
	if created.DisplayOrder != 8 {
		t.Errorf("displayOrder = %d, want 8", created.DisplayOrder)
	}
	if created.FestivalID != "fest_1" {
		t.Errorf("festivalID = %q", created.FestivalID)
	}
}

func TestApply_IdempotentAfterApply(t *testing.T) {
	// Applying, then re-planning the same rows against the applied
	// store yields nothing further to do.
	stored := storedSession("sess_1", "Yoga", "Monday", "09:00")
	stored.Location = "Hall B"

	row := importRow(1, "Yoga", "Monday", "09:00")
	row.Fields[ingest.ColLocation] = "Hall A"
	rows := []ingest.Row{row, importRow(2, "Blues", "Friday", "22:00")}

	store := newFakeStore(stored)
	plan := planFor(t, ModeReplace, rows, []*domain.Session{stored})

	if _, err := testExecutor(store).Apply(context.Background(), plan,
		map[string]Decision{"sess_1": DecisionUpdate}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	var after []*domain.Session
	for _, s := range store.sessions {
		after = append(after, s)
	}
	replan := planFor(t, ModeReplace, rows, after)

	if replan.Summary.Changed != 0 || replan.Summary.Suggested != 0 ||
		replan.Summary.ToCreate != 0 || replan.Summary.ToDelete != 0 {
		t.Errorf("replan should be a no-op, summary = %+v", replan.Summary)
	}
}
