package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/flowgrid/flowgrid-server/internal/http/response"
	"github.com/flowgrid/flowgrid-server/internal/search"
	"github.com/flowgrid/flowgrid-server/internal/service"
)

func (s *Server) registerScheduleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSchedule",
		Method:      http.MethodGet,
		Path:        "/api/v1/schedule/{slug}",
		Summary:     "Get public schedule",
		Description: "Returns a published festival's schedule grouped by day",
		Tags:        []string{"Public"},
	}, s.handleGetSchedule)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchSchedule",
		Method:      http.MethodGet,
		Path:        "/api/v1/schedule/{slug}/search",
		Summary:     "Search public schedule",
		Description: "Full-text search over a published festival's sessions",
		Tags:        []string{"Public"},
	}, s.handleSearchSchedule)
}

// === DTOs ===

// GetScheduleInput contains parameters for the public schedule.
type GetScheduleInput struct {
	Slug string `path:"slug" doc:"Festival slug"`
}

// ScheduleOutput wraps the public schedule for Huma.
type ScheduleOutput struct {
	Body service.Schedule
}

// SearchScheduleInput contains public search parameters.
type SearchScheduleInput struct {
	Slug    string   `path:"slug" doc:"Festival slug"`
	Query   string   `query:"q" doc:"Search terms"`
	Day     string   `query:"day" doc:"Filter by day"`
	Level   string   `query:"level" doc:"Filter by level"`
	Types   []string `query:"type" doc:"Filter by session type"`
	Teacher string   `query:"teacher" doc:"Filter by teacher name"`
	Limit   int      `query:"limit" minimum:"1" maximum:"200" doc:"Maximum hits to return"`
	Offset  int      `query:"offset" minimum:"0" doc:"Hits to skip for paging"`
}

// SearchScheduleOutput wraps search results for Huma.
type SearchScheduleOutput struct {
	Body search.SearchResult
}

// === Handlers ===

func (s *Server) handleGetSchedule(ctx context.Context, input *GetScheduleInput) (*ScheduleOutput, error) {
	schedule, err := s.services.Schedule.Get(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &ScheduleOutput{Body: *schedule}, nil
}

func (s *Server) handleSearchSchedule(ctx context.Context, input *SearchScheduleInput) (*SearchScheduleOutput, error) {
	params := search.SearchParams{
		Query:   input.Query,
		Day:     input.Day,
		Level:   input.Level,
		Types:   input.Types,
		Teacher: input.Teacher,
		Limit:   input.Limit,
		Offset:  input.Offset,
	}

	result, err := s.services.Schedule.Search(ctx, input.Slug, params)
	if err != nil {
		return nil, err
	}
	return &SearchScheduleOutput{Body: *result}, nil
}

// handleExportScheduleCSV streams the schedule as a CSV download.
func (s *Server) handleExportScheduleCSV(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		response.Error(w, http.StatusBadRequest, "Festival slug is required", s.logger)
		return
	}

	data, filename, err := s.services.Schedule.ExportCSV(r.Context(), slug)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}
