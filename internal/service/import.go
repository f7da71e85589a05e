package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flowgrid/flowgrid-server/internal/config"
	domainerrors "github.com/flowgrid/flowgrid-server/internal/errors"
	"github.com/flowgrid/flowgrid-server/internal/ingest"
	"github.com/flowgrid/flowgrid-server/internal/reconcile"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

// ImportService drives the schedule import flow: parse an uploaded CSV
// or a shared Google Sheet, reconcile the rows against the stored
// schedule into a merge plan, then apply the plan once every flagged
// entry carries a decision.
//
// The plan itself is stateless on the server. Preview returns the full
// plan to the caller, and Apply receives it back together with the
// decisions, so a browser refresh between the two costs nothing.
type ImportService struct {
	store    store.Store
	fetcher  *ingest.SheetFetcher
	planner  *reconcile.Planner
	executor *reconcile.Executor
	cfg      config.ImportConfig
	logger   *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(st store.Store, cfg config.ImportConfig, logger *slog.Logger) *ImportService {
	return &ImportService{
		store:    st,
		fetcher:  ingest.NewSheetFetcher(logger, cfg.SheetFetchTimeout, cfg.MaxRows),
		planner:  reconcile.NewPlanner(logger),
		executor: reconcile.NewExecutor(st, logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// PreviewCSV parses an uploaded CSV file and computes a merge plan
// against the festival's stored sessions. Nothing is written.
func (s *ImportService) PreviewCSV(ctx context.Context, festivalID string, mode string, data []byte) (*reconcile.MergePlan, error) {
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, domainerrors.Validationf("upload exceeds the %d byte limit", s.cfg.MaxUploadBytes)
	}

	rows, err := ingest.ParseCSV(bytes.NewReader(data), s.cfg.MaxRows)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	return s.preview(ctx, festivalID, mode, rows)
}

// PreviewSheet fetches a shared Google Sheet as CSV and computes a
// merge plan against the festival's stored sessions.
func (s *ImportService) PreviewSheet(ctx context.Context, festivalID string, mode string, sheetURL string) (*reconcile.MergePlan, error) {
	ref, err := ingest.ParseSheetURL(sheetURL)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	rows, err := s.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	return s.preview(ctx, festivalID, mode, rows)
}

func (s *ImportService) preview(ctx context.Context, festivalID string, mode string, rows []ingest.Row) (*reconcile.MergePlan, error) {
	parsedMode, err := reconcile.ParseMode(mode)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	if _, err := s.store.GetFestivalByID(ctx, festivalID); err != nil {
		return nil, err
	}

	stored, err := s.store.ListSessionsByFestival(ctx, festivalID)
	if err != nil {
		return nil, err
	}

	plan := s.planner.Plan(festivalID, parsedMode, rows, stored)
	plan.RunID = uuid.New().String()
	s.logger.Info("Import previewed",
		"run_id", plan.RunID,
		"festival_id", festivalID,
		"mode", string(parsedMode),
		"rows", len(rows))
	return plan, nil
}

// Apply carries out a previewed merge plan. Every changed or suggested
// match must carry a decision; otherwise the call reports which entries
// are still pending and writes nothing.
func (s *ImportService) Apply(ctx context.Context, plan *reconcile.MergePlan, decisions map[string]reconcile.Decision) (reconcile.ApplyResult, error) {
	if plan == nil {
		return reconcile.ApplyResult{}, domainerrors.Validation("merge plan is required")
	}
	if _, err := s.store.GetFestivalByID(ctx, plan.FestivalID); err != nil {
		return reconcile.ApplyResult{}, err
	}

	for key, d := range decisions {
		if !d.Valid() {
			return reconcile.ApplyResult{}, domainerrors.Validationf("unknown decision %q for entry %s", string(d), key)
		}
	}

	result, err := s.executor.Apply(ctx, plan, decisions)
	if err != nil {
		var incomplete *reconcile.ErrDecisionIncomplete
		if errors.As(err, &incomplete) {
			return result, domainerrors.ValidationWithDetails("import has entries awaiting a decision", map[string]any{
				"pending": incomplete.Pending,
			})
		}
		if result.State == reconcile.StateFailed {
			// A write failed mid-batch. The caller needs to know how far
			// apply got, not just that it stopped.
			return result, domainerrors.Wrap(err, domainerrors.CodeInternal, result.Error).WithDetails(map[string]any{
				"state":     result.State,
				"completed": result.Completed,
				"total":     result.Total,
				"created":   result.Created,
				"updated":   result.Updated,
				"deleted":   result.Deleted,
			})
		}
		return result, err
	}

	s.logger.Info("Import applied",
		"run_id", plan.RunID,
		"festival_id", plan.FestivalID,
		"updated", result.Updated,
		"created", result.Created,
		"deleted", result.Deleted)
	return result, nil
}
