package ingest

import (
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"Title,Day,Start Time,End Time,Teachers,Capacity",
		"Lindy Basics,Friday,10:00,11:00,\"Alice, Bob\",20",
		",,,,,",
		"Balboa Intro,Saturday,9:00,10:00,Carol,",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank row skipped)", len(rows))
	}

	first := rows[0]
	if first.Index != 1 {
		t.Errorf("first row index = %d, want 1", first.Index)
	}
	if got := first.Get(ColTitle); got != "Lindy Basics" {
		t.Errorf("title = %q", got)
	}
	if got := first.Get(ColTeachers); got != "Alice, Bob" {
		t.Errorf("teachers = %q", got)
	}

	second := rows[1]
	if second.Index != 3 {
		t.Errorf("second row index = %d, want 3 (blank row keeps its slot)", second.Index)
	}
	if got := second.Get(ColCapacity); got != "" {
		t.Errorf("capacity = %q, want empty", got)
	}
}

func TestParseCSV_HeaderAliases(t *testing.T) {
	tests := []struct {
		header string
		col    string
	}{
		{"TITLE,day,start", ColStartTime},
		{"name,DATE,start-time", ColDay},
		{"Session,Day,Start_Time", ColTitle},
	}

	for _, tc := range tests {
		input := tc.header + "\nYoga,Monday,08:00"
		rows, err := ParseCSV(strings.NewReader(input), 0)
		if err != nil {
			t.Fatalf("header %q: %v", tc.header, err)
		}
		if rows[0].Get(tc.col) == "" {
			t.Errorf("header %q: column %q not mapped", tc.header, tc.col)
		}
	}
}

func TestParseCSV_MissingRequiredColumns(t *testing.T) {
	input := "Title,Level\nLindy Basics,Beginner"

	_, err := ParseCSV(strings.NewReader(input), 0)
	if err == nil {
		t.Fatal("expected error for missing day and start_time columns")
	}
	if !strings.Contains(err.Error(), "day") || !strings.Contains(err.Error(), "start_time") {
		t.Errorf("error should name the missing columns, got: %v", err)
	}
}

func TestParseCSV_EmptyFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""), 0)
	if err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestParseCSV_RowLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("title,day,start time\n")
	for i := 0; i < 5; i++ {
		sb.WriteString("Class,Friday,10:00\n")
	}

	_, err := ParseCSV(strings.NewReader(sb.String()), 3)
	if err == nil {
		t.Fatal("expected row limit error")
	}
	if !strings.Contains(err.Error(), "3") {
		t.Errorf("error should mention the limit, got: %v", err)
	}
}

func TestParseCSV_UnknownColumnsIgnored(t *testing.T) {
	input := "title,day,start time,mystery\nClass,Friday,10:00,???"

	rows, err := ParseCSV(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if _, ok := rows[0].Fields["mystery"]; ok {
		t.Error("unknown column should not appear in fields")
	}
}

func TestParseCSV_RaggedRows(t *testing.T) {
	// Rows shorter or longer than the header must not fail.
	input := "title,day,start time,level\nClass,Friday,10:00\nOther,Saturday,11:00,Intermediate,extra"

	rows, err := ParseCSV(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rows[0].Get(ColLevel); got != "" {
		t.Errorf("short row level = %q, want empty", got)
	}
	if got := rows[1].Get(ColLevel); got != "Intermediate" {
		t.Errorf("long row level = %q", got)
	}
}
