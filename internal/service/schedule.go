package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/flowgrid/flowgrid-server/internal/domain"
	domainerrors "github.com/flowgrid/flowgrid-server/internal/errors"
	"github.com/flowgrid/flowgrid-server/internal/search"
	"github.com/flowgrid/flowgrid-server/internal/store"
)

// dayOrder ranks weekday names so a festival's days come out in
// calendar order regardless of insertion order. ISO dates sort
// lexicographically and need no ranking.
var dayOrder = map[string]int{
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sunday":    7,
}

// ScheduleService assembles the public, read-only schedule view.
// Unpublished festivals are invisible here; the organizer endpoints
// use FestivalService instead.
type ScheduleService struct {
	store    store.Store
	index    *search.SearchIndex
	markdown goldmark.Markdown
	logger   *slog.Logger
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(store store.Store, index *search.SearchIndex, logger *slog.Logger) *ScheduleService {
	return &ScheduleService{
		store: store,
		index: index,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		logger: logger,
	}
}

// ScheduleDay groups the sessions running on one day.
type ScheduleDay struct {
	Day      string            `json:"day"`
	Sessions []*domain.Session `json:"sessions"`
}

// Schedule is the public view of a festival.
type Schedule struct {
	Festival        *domain.Festival           `json:"festival"`
	DescriptionHTML string                     `json:"description_html,omitempty"`
	Days            []ScheduleDay              `json:"days"`
	Teachers        map[string]*domain.Teacher `json:"teachers,omitempty"`
}

// Get returns the published schedule for a festival slug, with
// sessions grouped by day. Unpublished festivals report not found so
// their existence leaks nothing.
func (s *ScheduleService) Get(ctx context.Context, slug string) (*Schedule, error) {
	festival, err := s.publicFestival(ctx, slug)
	if err != nil {
		return nil, err
	}

	sessions, err := s.store.ListSessionsByFestival(ctx, festival.ID)
	if err != nil {
		return nil, err
	}

	return &Schedule{
		Festival:        festival,
		DescriptionHTML: s.renderMarkdown(festival.Description),
		Days:            groupByDay(sessions),
		Teachers:        s.resolveTeachers(ctx, festival.ID, sessions),
	}, nil
}

// resolveTeachers maps the teacher names appearing on sessions to their
// teacher records, so clients can render photos and blurhash
// placeholders next to the cards. Names without a record are omitted;
// imported schedules often list teachers before their profiles exist.
func (s *ScheduleService) resolveTeachers(ctx context.Context, festivalID string, sessions []*domain.Session) map[string]*domain.Teacher {
	resolved := make(map[string]*domain.Teacher)
	for _, sess := range sessions {
		for _, name := range sess.Teachers {
			if _, seen := resolved[name]; seen {
				continue
			}
			teacher, err := s.store.GetTeacherByName(ctx, festivalID, name)
			if err != nil {
				if err != store.ErrNotFound {
					s.logger.Warn("teacher lookup failed", "name", name, "error", err)
				}
				continue
			}
			resolved[name] = teacher
		}
	}
	if len(resolved) == 0 {
		return nil
	}
	return resolved
}

// Search runs a full-text query over a published festival's sessions.
func (s *ScheduleService) Search(ctx context.Context, slug string, params search.SearchParams) (*search.SearchResult, error) {
	festival, err := s.publicFestival(ctx, slug)
	if err != nil {
		return nil, err
	}

	params.FestivalID = festival.ID
	return s.index.Search(ctx, params)
}

// ExportCSV renders a published festival's schedule as a CSV download,
// one row per session, in the same column layout the importer accepts.
func (s *ScheduleService) ExportCSV(ctx context.Context, slug string) ([]byte, string, error) {
	festival, err := s.publicFestival(ctx, slug)
	if err != nil {
		return nil, "", err
	}

	sessions, err := s.store.ListSessionsByFestival(ctx, festival.ID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"title", "day", "start_time", "end_time", "level", "capacity", "types", "card_type", "teachers", "location", "description", "prerequisites"}
	if err := w.Write(header); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, sess := range sessions {
		capacity := ""
		if sess.Capacity != nil {
			capacity = fmt.Sprintf("%d", *sess.Capacity)
		}
		record := []string{
			sess.Title,
			sess.Day,
			sess.StartTime,
			sess.EndTime,
			sess.Level,
			capacity,
			strings.Join(sess.Types, ", "),
			string(sess.CardType),
			strings.Join(sess.Teachers, ", "),
			sess.Location,
			sess.Description,
			sess.Prerequisites,
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	filename := fmt.Sprintf("%s-schedule.csv", festival.Slug)
	return buf.Bytes(), filename, nil
}

// publicFestival resolves a slug to a published festival.
func (s *ScheduleService) publicFestival(ctx context.Context, slug string) (*domain.Festival, error) {
	festival, err := s.store.GetFestivalBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !festival.IsPublic() {
		return nil, domainerrors.NotFound("festival not found")
	}
	return festival, nil
}

// renderMarkdown converts organizer-authored Markdown to HTML.
// Render failures fall back to the raw text rather than hiding the
// description.
func (s *ScheduleService) renderMarkdown(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		s.logger.Warn("markdown render failed", "error", err)
		return src
	}
	return buf.String()
}

// groupByDay buckets sessions by day, preserving the store's
// time-then-display ordering within each bucket.
func groupByDay(sessions []*domain.Session) []ScheduleDay {
	byDay := make(map[string][]*domain.Session)
	var days []string
	for _, sess := range sessions {
		if _, seen := byDay[sess.Day]; !seen {
			days = append(days, sess.Day)
		}
		byDay[sess.Day] = append(byDay[sess.Day], sess)
	}

	sort.SliceStable(days, func(i, j int) bool {
		ri, iOK := dayOrder[strings.ToLower(days[i])]
		rj, jOK := dayOrder[strings.ToLower(days[j])]
		if iOK && jOK {
			return ri < rj
		}
		if iOK != jOK {
			return jOK // dates before named weekdays is arbitrary; keep dates first
		}
		return days[i] < days[j]
	})

	grouped := make([]ScheduleDay, 0, len(days))
	for _, day := range days {
		grouped = append(grouped, ScheduleDay{Day: day, Sessions: byDay[day]})
	}
	return grouped
}
