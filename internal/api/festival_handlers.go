package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/service"
)

func (s *Server) registerFestivalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createFestival",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals",
		Summary:     "Create festival",
		Description: "Creates a new festival",
		Tags:        []string{"Festivals"},
	}, s.handleCreateFestival)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFestivals",
		Method:      http.MethodGet,
		Path:        "/api/v1/festivals",
		Summary:     "List festivals",
		Description: "Returns all festivals, newest first",
		Tags:        []string{"Festivals"},
	}, s.handleListFestivals)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFestival",
		Method:      http.MethodGet,
		Path:        "/api/v1/festivals/{id}",
		Summary:     "Get festival",
		Description: "Returns a festival by ID",
		Tags:        []string{"Festivals"},
	}, s.handleGetFestival)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateFestival",
		Method:      http.MethodPut,
		Path:        "/api/v1/festivals/{id}",
		Summary:     "Update festival",
		Description: "Overwrites a festival's fields",
		Tags:        []string{"Festivals"},
	}, s.handleUpdateFestival)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteFestival",
		Method:      http.MethodDelete,
		Path:        "/api/v1/festivals/{id}",
		Summary:     "Delete festival",
		Description: "Deletes a festival and everything under it",
		Tags:        []string{"Festivals"},
	}, s.handleDeleteFestival)
}

// === DTOs ===

// FestivalRequest is the request body for creating or updating a festival.
type FestivalRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200" doc:"Festival name"`
	Slug        string `json:"slug" validate:"required,slug,max=100" doc:"URL-safe identifier for the public schedule"`
	Description string `json:"description,omitempty" validate:"max=20000" doc:"Markdown description"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02" doc:"First day (ISO date)"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02" doc:"Last day, inclusive (ISO date)"`
	Timezone    string `json:"timezone,omitempty" validate:"max=64" doc:"IANA timezone name"`
	Published   bool   `json:"published" required:"false" doc:"Whether the public schedule is visible"`
}

// FestivalResponse contains festival data in API responses.
type FestivalResponse struct {
	ID          string    `json:"id" doc:"Festival ID"`
	Name        string    `json:"name" doc:"Festival name"`
	Slug        string    `json:"slug" doc:"URL-safe identifier"`
	Description string    `json:"description,omitempty" doc:"Markdown description"`
	StartDate   string    `json:"start_date" doc:"First day (ISO date)"`
	EndDate     string    `json:"end_date" doc:"Last day, inclusive"`
	Timezone    string    `json:"timezone,omitempty" doc:"IANA timezone name"`
	Published   bool      `json:"published" doc:"Whether the public schedule is visible"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// CreateFestivalInput wraps the create festival request for Huma.
type CreateFestivalInput struct {
	Body FestivalRequest
}

// FestivalOutput wraps a single festival response for Huma.
type FestivalOutput struct {
	Body FestivalResponse
}

// ListFestivalsOutput wraps the festival list response for Huma.
type ListFestivalsOutput struct {
	Body struct {
		Festivals []FestivalResponse `json:"festivals" doc:"All festivals"`
	}
}

// GetFestivalInput contains parameters for getting a festival.
type GetFestivalInput struct {
	ID string `path:"id" doc:"Festival ID"`
}

// UpdateFestivalInput wraps the update festival request for Huma.
type UpdateFestivalInput struct {
	ID   string `path:"id" doc:"Festival ID"`
	Body FestivalRequest
}

// DeleteFestivalInput contains parameters for deleting a festival.
type DeleteFestivalInput struct {
	ID string `path:"id" doc:"Festival ID"`
}

// DeleteOutput is the empty response for delete operations.
type DeleteOutput struct{}

func festivalResponse(f *domain.Festival) FestivalResponse {
	return FestivalResponse{
		ID:          f.ID,
		Name:        f.Name,
		Slug:        f.Slug,
		Description: f.Description,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		Timezone:    f.Timezone,
		Published:   f.Published,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func festivalInput(req FestivalRequest) service.FestivalInput {
	return service.FestivalInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Timezone:    req.Timezone,
		Published:   req.Published,
	}
}

// === Handlers ===

func (s *Server) handleCreateFestival(ctx context.Context, input *CreateFestivalInput) (*FestivalOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	f, err := s.services.Festival.Create(ctx, festivalInput(input.Body))
	if err != nil {
		return nil, err
	}

	return &FestivalOutput{Body: festivalResponse(f)}, nil
}

func (s *Server) handleListFestivals(ctx context.Context, _ *struct{}) (*ListFestivalsOutput, error) {
	festivals, err := s.services.Festival.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &ListFestivalsOutput{}
	out.Body.Festivals = make([]FestivalResponse, len(festivals))
	for i, f := range festivals {
		out.Body.Festivals[i] = festivalResponse(f)
	}
	return out, nil
}

func (s *Server) handleGetFestival(ctx context.Context, input *GetFestivalInput) (*FestivalOutput, error) {
	f, err := s.services.Festival.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &FestivalOutput{Body: festivalResponse(f)}, nil
}

func (s *Server) handleUpdateFestival(ctx context.Context, input *UpdateFestivalInput) (*FestivalOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	f, err := s.services.Festival.Update(ctx, input.ID, festivalInput(input.Body))
	if err != nil {
		return nil, err
	}
	return &FestivalOutput{Body: festivalResponse(f)}, nil
}

func (s *Server) handleDeleteFestival(ctx context.Context, input *DeleteFestivalInput) (*DeleteOutput, error) {
	if err := s.services.Festival.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}
