package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a session search.
type SearchParams struct {
	FestivalID string // Required; scopes results to one festival
	Query      string // Free-text query (empty = filter-only browse)

	// Filters
	Day     string
	Level   string
	Types   []string
	Teacher string

	// Pagination
	Limit  int
	Offset int
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams(festivalID string) SearchParams {
	return SearchParams{
		FestivalID: festivalID,
		Limit:      50,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit is a single matching session.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Teachers   string            `json:"teachers,omitempty"`
	Location   string            `json:"location,omitempty"`
	Day        string            `json:"day"`
	StartTime  string            `json:"start_time"`
	Level      string            `json:"level,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a session search scoped to a festival.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.FestivalID == "" {
		return nil, fmt.Errorf("festival id is required")
	}
	if params.Limit <= 0 {
		params.Limit = 50
	}

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	if strings.TrimSpace(params.Query) != "" {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("teachers")
	} else {
		// Browsing without a query: schedule order beats relevance.
		searchRequest.SortBy([]string{"day", "start_time", "display_order"})
	}

	searchRequest.Fields = []string{
		"id", "title", "teachers", "location", "day", "start_time", "level",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if v, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = v
		}
		if v, ok := hit.Fields["teachers"].(string); ok {
			searchHit.Teachers = v
		}
		if v, ok := hit.Fields["location"].(string); ok {
			searchHit.Location = v
		}
		if v, ok := hit.Fields["day"].(string); ok {
			searchHit.Day = v
		}
		if v, ok := hit.Fields["start_time"].(string); ok {
			searchHit.StartTime = v
		}
		if v, ok := hit.Fields["level"].(string); ok {
			searchHit.Level = v
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery combines the festival scope, free text and filters
// into one conjunction.
func buildSearchQuery(params SearchParams) query.Query {
	var must []query.Query

	festivalQuery := bleve.NewTermQuery(params.FestivalID)
	festivalQuery.SetField("festival_id")
	must = append(must, festivalQuery)

	if q := strings.TrimSpace(params.Query); q != "" {
		titleMatch := bleve.NewMatchQuery(q)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		titleMatch.SetFuzziness(1)

		teacherMatch := bleve.NewMatchQuery(q)
		teacherMatch.SetField("teachers")
		teacherMatch.SetBoost(2.0)
		teacherMatch.SetFuzziness(1)

		descMatch := bleve.NewMatchQuery(q)
		descMatch.SetField("description")

		locMatch := bleve.NewMatchQuery(q)
		locMatch.SetField("location")

		must = append(must, bleve.NewDisjunctionQuery(titleMatch, teacherMatch, descMatch, locMatch))
	}

	if params.Day != "" {
		dayQuery := bleve.NewTermQuery(strings.ToLower(params.Day))
		dayQuery.SetField("day")
		must = append(must, dayQuery)
	}

	if params.Level != "" {
		levelQuery := bleve.NewTermQuery(strings.ToLower(params.Level))
		levelQuery.SetField("level")
		must = append(must, levelQuery)
	}

	if params.Teacher != "" {
		// Teachers is analyzed text, so a match query instead of a term filter.
		teacherQuery := bleve.NewMatchQuery(params.Teacher)
		teacherQuery.SetField("teachers")
		must = append(must, teacherQuery)
	}

	if len(params.Types) > 0 {
		// Any of the requested types qualifies.
		var typeQueries []query.Query
		for _, t := range params.Types {
			tq := bleve.NewTermQuery(t)
			tq.SetField("types")
			typeQueries = append(typeQueries, tq)
		}
		must = append(must, bleve.NewDisjunctionQuery(typeQueries...))
	}

	return bleve.NewConjunctionQuery(must...)
}
