package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for session
// documents: English-stemmed full text on title/description/teachers,
// keyword fields for the day/level/type filters.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	teachersFieldMapping := bleve.NewTextFieldMapping()
	teachersFieldMapping.Analyzer = en.AnalyzerName
	teachersFieldMapping.Store = true
	teachersFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("teachers", teachersFieldMapping)

	// Searchable but not stored.
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	prereqFieldMapping := bleve.NewTextFieldMapping()
	prereqFieldMapping.Analyzer = en.AnalyzerName
	prereqFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("prerequisites", prereqFieldMapping)

	locationFieldMapping := bleve.NewTextFieldMapping()
	locationFieldMapping.Analyzer = en.AnalyzerName
	locationFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("location", locationFieldMapping)

	// Keyword fields for exact filtering.
	for _, field := range []string{"id", "festival_id", "day", "level", "types", "start_time"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}

	orderFieldMapping := bleve.NewNumericFieldMapping()
	orderFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("display_order", orderFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
