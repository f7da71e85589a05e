package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Canonical column names produced by ParseCSV. Header cells are matched
// case-insensitively and common alias spellings are folded into these.
const (
	ColTitle         = "title"
	ColDay           = "day"
	ColStartTime     = "start_time"
	ColEndTime       = "end_time"
	ColLevel         = "level"
	ColCapacity      = "capacity"
	ColTypes         = "types"
	ColCardType      = "card_type"
	ColTeachers      = "teachers"
	ColLocation      = "location"
	ColDescription   = "description"
	ColPrerequisites = "prerequisites"
)

// headerAliases maps normalized header cells to canonical column names.
// Normalization lowercases and replaces separators with underscores, so
// "Start Time", "start-time" and "START_TIME" all land on "start_time".
var headerAliases = map[string]string{
	"title":         ColTitle,
	"name":          ColTitle,
	"session":       ColTitle,
	"day":           ColDay,
	"date":          ColDay,
	"start_time":    ColStartTime,
	"start":         ColStartTime,
	"time":          ColStartTime,
	"end_time":      ColEndTime,
	"end":           ColEndTime,
	"level":         ColLevel,
	"capacity":      ColCapacity,
	"types":         ColTypes,
	"type":          ColTypes,
	"tags":          ColTypes,
	"card_type":     ColCardType,
	"card":          ColCardType,
	"teachers":      ColTeachers,
	"teacher":       ColTeachers,
	"instructors":   ColTeachers,
	"instructor":    ColTeachers,
	"location":      ColLocation,
	"room":          ColLocation,
	"venue":         ColLocation,
	"description":   ColDescription,
	"prerequisites": ColPrerequisites,
	"prereqs":       ColPrerequisites,
}

// requiredColumns must all be present in the header row for the file to
// be importable at all. Everything else is optional.
var requiredColumns = []string{ColTitle, ColDay, ColStartTime}

// Row is one data row of an import file. Index is the 1-based position
// among data rows (the header row is not counted), preserved so that
// rejections and plan entries can point back at the source file.
type Row struct {
	Index  int
	Fields map[string]string
}

// Get returns the value for a canonical column, trimmed. Missing columns
// read as empty strings.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r.Fields[col])
}

// ParseCSV reads an import file into ordered rows keyed by canonical
// column names. maxRows bounds the number of data rows; zero means no
// limit. The first record is always treated as the header row.
func ParseCSV(r io.Reader, maxRows int) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool)
	for i, cell := range header {
		canonical, ok := headerAliases[normalizeHeader(cell)]
		if !ok || seen[canonical] {
			// Unknown and duplicate columns are carried as-is so the
			// caller can surface them in warnings if it wants to.
			columns[i] = ""
			continue
		}
		columns[i] = canonical
		seen[canonical] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []Row
	index := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", index+1, err)
		}

		index++
		if maxRows > 0 && index > maxRows {
			return nil, fmt.Errorf("file exceeds the %d row limit", maxRows)
		}

		if isBlankRecord(record) {
			continue
		}

		fields := make(map[string]string)
		for i, cell := range record {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			fields[columns[i]] = cell
		}
		rows = append(rows, Row{Index: index, Fields: fields})
	}

	return rows, nil
}

func normalizeHeader(cell string) string {
	s := strings.ToLower(strings.TrimSpace(cell))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
