package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowgrid/flowgrid-server/internal/reconcile"
)

func (s *Server) registerImportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "previewImport",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals/{festivalID}/import/preview",
		Summary:     "Preview import",
		Description: "Parses a CSV upload or shared Google Sheet and returns the merge plan without writing anything",
		Tags:        []string{"Import"},
	}, s.handlePreviewImport)

	huma.Register(s.api, huma.Operation{
		OperationID: "applyImport",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals/{festivalID}/import/apply",
		Summary:     "Apply import",
		Description: "Carries out a previewed merge plan once every flagged entry has a decision",
		Tags:        []string{"Import"},
	}, s.handleApplyImport)
}

// === DTOs ===

// PreviewImportRequest is the request body for an import preview.
// Exactly one of csv_data and sheet_url must be set.
type PreviewImportRequest struct {
	Mode     string `json:"mode,omitempty" validate:"omitempty,oneof=merge replace" doc:"Import mode, defaults to merge"`
	CSVData  string `json:"csv_data,omitempty" doc:"Raw CSV file contents"`
	SheetURL string `json:"sheet_url,omitempty" validate:"omitempty,url" doc:"Google Sheets URL shared with link access"`
}

// PreviewImportInput wraps the preview request for Huma.
type PreviewImportInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
	Body       PreviewImportRequest
}

// PreviewImportOutput wraps the merge plan for Huma.
type PreviewImportOutput struct {
	Body struct {
		Plan  *reconcile.MergePlan `json:"plan" doc:"Computed merge plan"`
		State reconcile.State      `json:"state" doc:"Plan state after preview"`
	}
}

// ApplyImportRequest carries the plan back with the user's decisions.
type ApplyImportRequest struct {
	Plan      *reconcile.MergePlan          `json:"plan" doc:"The previewed merge plan, returned verbatim"`
	Decisions map[string]reconcile.Decision `json:"decisions,omitempty" doc:"Decision per flagged entry: update, create, or skip"`
}

// ApplyImportInput wraps the apply request for Huma.
type ApplyImportInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
	Body       ApplyImportRequest
}

// ApplyImportOutput wraps the apply result for Huma.
type ApplyImportOutput struct {
	Body reconcile.ApplyResult
}

// === Handlers ===

func (s *Server) handlePreviewImport(ctx context.Context, input *PreviewImportInput) (*PreviewImportOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	hasCSV := input.Body.CSVData != ""
	hasSheet := input.Body.SheetURL != ""
	if hasCSV == hasSheet {
		return nil, huma.Error400BadRequest("provide either csv_data or sheet_url")
	}

	var plan *reconcile.MergePlan
	var err error
	if hasCSV {
		plan, err = s.services.Import.PreviewCSV(ctx, input.FestivalID, input.Body.Mode, []byte(input.Body.CSVData))
	} else {
		plan, err = s.services.Import.PreviewSheet(ctx, input.FestivalID, input.Body.Mode, input.Body.SheetURL)
	}
	if err != nil {
		return nil, err
	}

	out := &PreviewImportOutput{}
	out.Body.Plan = plan
	out.Body.State = plan.StateFor(nil)
	return out, nil
}

func (s *Server) handleApplyImport(ctx context.Context, input *ApplyImportInput) (*ApplyImportOutput, error) {
	if input.Body.Plan == nil {
		return nil, huma.Error400BadRequest("plan is required")
	}
	if input.Body.Plan.FestivalID != input.FestivalID {
		return nil, huma.Error400BadRequest("plan belongs to a different festival")
	}

	result, err := s.services.Import.Apply(ctx, input.Body.Plan, input.Body.Decisions)
	if err != nil {
		return nil, err
	}

	return &ApplyImportOutput{Body: result}, nil
}
