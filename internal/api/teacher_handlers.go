package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	"github.com/flowgrid/flowgrid-server/internal/http/response"
	"github.com/flowgrid/flowgrid-server/internal/service"
)

func (s *Server) registerTeacherRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createTeacher",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals/{festivalID}/teachers",
		Summary:     "Create teacher",
		Description: "Adds a teacher to a festival",
		Tags:        []string{"Teachers"},
	}, s.handleCreateTeacher)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTeachers",
		Method:      http.MethodGet,
		Path:        "/api/v1/festivals/{festivalID}/teachers",
		Summary:     "List teachers",
		Description: "Returns a festival's teachers",
		Tags:        []string{"Teachers"},
	}, s.handleListTeachers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTeacher",
		Method:      http.MethodGet,
		Path:        "/api/v1/teachers/{id}",
		Summary:     "Get teacher",
		Description: "Returns a teacher by ID",
		Tags:        []string{"Teachers"},
	}, s.handleGetTeacher)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTeacher",
		Method:      http.MethodPut,
		Path:        "/api/v1/teachers/{id}",
		Summary:     "Update teacher",
		Description: "Overwrites a teacher's name and bio",
		Tags:        []string{"Teachers"},
	}, s.handleUpdateTeacher)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTeacher",
		Method:      http.MethodDelete,
		Path:        "/api/v1/teachers/{id}",
		Summary:     "Delete teacher",
		Description: "Removes a teacher and their photo",
		Tags:        []string{"Teachers"},
	}, s.handleDeleteTeacher)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadTeacherPhoto",
		Method:      http.MethodPut,
		Path:        "/api/v1/teachers/{id}/photo",
		Summary:     "Upload teacher photo",
		Description: "Processes and stores a teacher photo (JPEG, PNG, GIF, or WebP)",
		Tags:        []string{"Teachers"},
	}, s.handleUploadTeacherPhoto)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTeacherPhoto",
		Method:      http.MethodDelete,
		Path:        "/api/v1/teachers/{id}/photo",
		Summary:     "Delete teacher photo",
		Description: "Removes a teacher's photo",
		Tags:        []string{"Teachers"},
	}, s.handleDeleteTeacherPhoto)
}

// === DTOs ===

// TeacherRequest is the request body for creating or updating a teacher.
type TeacherRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200" doc:"Teacher name"`
	Bio  string `json:"bio,omitempty" validate:"max=20000" doc:"Teacher bio"`
}

// TeacherResponse contains teacher data in API responses.
type TeacherResponse struct {
	ID         string    `json:"id" doc:"Teacher ID"`
	FestivalID string    `json:"festival_id" doc:"Owning festival ID"`
	Name       string    `json:"name" doc:"Teacher name"`
	Bio        string    `json:"bio,omitempty" doc:"Teacher bio"`
	PhotoHash  string    `json:"photo_hash,omitempty" doc:"Photo content hash for cache validation"`
	BlurHash   string    `json:"blur_hash,omitempty" doc:"Low-resolution photo placeholder"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

// CreateTeacherInput wraps the create teacher request for Huma.
type CreateTeacherInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
	Body       TeacherRequest
}

// TeacherOutput wraps a single teacher response for Huma.
type TeacherOutput struct {
	Body TeacherResponse
}

// ListTeachersInput contains parameters for listing teachers.
type ListTeachersInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
}

// ListTeachersOutput wraps the teacher list response for Huma.
type ListTeachersOutput struct {
	Body struct {
		Teachers []TeacherResponse `json:"teachers" doc:"Festival teachers"`
	}
}

// TeacherIDInput contains parameters for single-teacher operations.
type TeacherIDInput struct {
	ID string `path:"id" doc:"Teacher ID"`
}

// UpdateTeacherInput wraps the update teacher request for Huma.
type UpdateTeacherInput struct {
	ID   string `path:"id" doc:"Teacher ID"`
	Body TeacherRequest
}

// UploadTeacherPhotoInput wraps the photo upload request for Huma.
// The image travels base64-encoded inside the JSON body.
type UploadTeacherPhotoInput struct {
	ID   string `path:"id" doc:"Teacher ID"`
	Body struct {
		Photo string `json:"photo" validate:"required" doc:"Base64-encoded image data"`
	}
}

func teacherResponse(t *domain.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:         t.ID,
		FestivalID: t.FestivalID,
		Name:       t.Name,
		Bio:        t.Bio,
		PhotoHash:  t.PhotoHash,
		BlurHash:   t.BlurHash,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleCreateTeacher(ctx context.Context, input *CreateTeacherInput) (*TeacherOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	t, err := s.services.Teacher.Create(ctx, input.FestivalID, service.TeacherInput{
		Name: input.Body.Name,
		Bio:  input.Body.Bio,
	})
	if err != nil {
		return nil, err
	}
	return &TeacherOutput{Body: teacherResponse(t)}, nil
}

func (s *Server) handleListTeachers(ctx context.Context, input *ListTeachersInput) (*ListTeachersOutput, error) {
	teachers, err := s.services.Teacher.ListByFestival(ctx, input.FestivalID)
	if err != nil {
		return nil, err
	}

	out := &ListTeachersOutput{}
	out.Body.Teachers = make([]TeacherResponse, len(teachers))
	for i, t := range teachers {
		out.Body.Teachers[i] = teacherResponse(t)
	}
	return out, nil
}

func (s *Server) handleGetTeacher(ctx context.Context, input *TeacherIDInput) (*TeacherOutput, error) {
	t, err := s.services.Teacher.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TeacherOutput{Body: teacherResponse(t)}, nil
}

func (s *Server) handleUpdateTeacher(ctx context.Context, input *UpdateTeacherInput) (*TeacherOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	t, err := s.services.Teacher.Update(ctx, input.ID, service.TeacherInput{
		Name: input.Body.Name,
		Bio:  input.Body.Bio,
	})
	if err != nil {
		return nil, err
	}
	return &TeacherOutput{Body: teacherResponse(t)}, nil
}

func (s *Server) handleDeleteTeacher(ctx context.Context, input *TeacherIDInput) (*DeleteOutput, error) {
	if err := s.services.Teacher.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &DeleteOutput{}, nil
}

func (s *Server) handleUploadTeacherPhoto(ctx context.Context, input *UploadTeacherPhotoInput) (*TeacherOutput, error) {
	data, err := base64.StdEncoding.DecodeString(input.Body.Photo)
	if err != nil {
		return nil, huma.Error400BadRequest("photo must be valid base64 image data")
	}

	t, err := s.services.Teacher.UploadPhoto(ctx, input.ID, data)
	if err != nil {
		return nil, err
	}
	return &TeacherOutput{Body: teacherResponse(t)}, nil
}

func (s *Server) handleDeleteTeacherPhoto(ctx context.Context, input *TeacherIDInput) (*TeacherOutput, error) {
	t, err := s.services.Teacher.DeletePhoto(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TeacherOutput{Body: teacherResponse(t)}, nil
}

// handleGetTeacherPhoto serves the processed JPEG bytes directly.
func (s *Server) handleGetTeacherPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.Error(w, http.StatusBadRequest, "Teacher ID is required", s.logger)
		return
	}

	photo, err := s.services.Teacher.Photo(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(photo)
}
