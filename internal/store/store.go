// Package store loads the course dataset and answers exact-match lookups.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/hyunjin-oh/coursechat/models"
)

// Store is a read-only view over the course dataset. It is loaded per search
// invocation and safe to share once built.
type Store struct {
	records []models.CourseRecord
}

// Load reads a CSV dataset with a named header row. The file may carry a
// UTF-8 BOM (the upstream export does).
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	if len(rows) == 0 {
		return &Store{}, nil
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	s := &Store{records: make([]models.CourseRecord, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		s.records = append(s.records, models.CourseRecord{
			Department: field(row, "department"),
			CourseName: field(row, "course_name"),
			Term:       field(row, "term"),
			Professor:  field(row, "professor"),
			TrackType:  field(row, "track_type"),
			CourseCode: field(row, "course_code"),
			Structure:  field(row, "structure"),
			Schedule:   field(row, "schedule"),
			Rating:     field(row, "rating"),
			Homework:   field(row, "homework_policy"),
			GroupWork:  field(row, "group_work"),
			Grading:    field(row, "grading"),
			Attendance: field(row, "attendance_policy"),
			ExamPolicy: field(row, "exam_policy"),
			Overview:   field(row, "overview_text"),
		})
	}
	return s, nil
}

// FromRecords wraps an in-memory record set. Used by tests and by callers
// that already hold a loaded dataset.
func FromRecords(records []models.CourseRecord) *Store {
	return &Store{records: records}
}

func (s *Store) Len() int { return len(s.records) }

// Records returns all rows in dataset order.
func (s *Store) Records() []models.CourseRecord { return s.records }

// FindCourse returns the first record whose course name equals name exactly.
func (s *Store) FindCourse(name string) (models.CourseRecord, bool) {
	for _, rec := range s.records {
		if rec.CourseName == name {
			return rec, true
		}
	}
	return models.CourseRecord{}, false
}

// CourseNames returns the unique non-empty course names in dataset order.
func (s *Store) CourseNames() []string {
	return s.uniqueNames(func(r models.CourseRecord) string { return r.CourseName })
}

// ProfessorNames returns the unique non-empty professor names in dataset order.
func (s *Store) ProfessorNames() []string {
	return s.uniqueNames(func(r models.CourseRecord) string { return r.Professor })
}

func (s *Store) uniqueNames(get func(models.CourseRecord) string) []string {
	seen := make(map[string]struct{}, len(s.records))
	var out []string
	for _, rec := range s.records {
		name := strings.TrimSpace(get(rec))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ByProfessor returns every course taught by the named professor.
func (s *Store) ByProfessor(name string) []models.CourseRecord {
	var out []models.CourseRecord
	for _, rec := range s.records {
		if rec.Professor == name {
			out = append(out, rec)
		}
	}
	return out
}

// ByCourse returns every record for the named course (a course can repeat
// across terms).
func (s *Store) ByCourse(name string) []models.CourseRecord {
	var out []models.CourseRecord
	for _, rec := range s.records {
		if rec.CourseName == name {
			out = append(out, rec)
		}
	}
	return out
}
