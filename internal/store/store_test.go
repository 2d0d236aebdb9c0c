package store

import (
	"os"
	"path/filepath"
	"testing"
)

const fixtureCSV = "\uFEFFdepartment,course_name,term,professor,track_type,course_code,structure,schedule,rating,homework_policy,group_work,grading,attendance_policy,exam_policy,overview_text\n" +
	"Electronic Engineering,Signals and Systems,2024-1,Kim,major required,EE2040,lecture,Mon 9:00,4.2,weekly problem sets,none,relative,electronic,midterm and final,Continuous-time signals and LTI systems.\n" +
	"Electronic Engineering,Digital Logic,2024-1,Lee,major required,EE2010,lecture+lab,Tue 13:00,,,,,,,Boolean algebra and sequential circuits.\n" +
	"Electronic Engineering,Signals and Systems,2023-2,Kim,major required,EE2040,lecture,Wed 9:00,4.0,weekly problem sets,none,relative,electronic,midterm and final,Older offering.\n"

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courses.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadParsesRows(t *testing.T) {
	s, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", s.Len())
	}
	first := s.Records()[0]
	if first.CourseName != "Signals and Systems" || first.Professor != "Kim" {
		t.Fatalf("BOM header must not break the first column mapping: %+v", first)
	}
	if first.CourseCode != "EE2040" {
		t.Fatalf("expected EE2040, got %q", first.CourseCode)
	}
}

func TestLoadMissingValuesStayEmpty(t *testing.T) {
	s, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dig := s.Records()[1]
	if dig.Rating != "" || dig.Homework != "" {
		t.Fatalf("missing CSV values must stay empty in the record: %+v", dig)
	}
}

func TestFindCourse(t *testing.T) {
	s, _ := Load(writeFixture(t))
	rec, ok := s.FindCourse("Signals and Systems")
	if !ok {
		t.Fatal("expected a direct match")
	}
	if rec.Term != "2024-1" {
		t.Fatalf("first matching row wins, got term %q", rec.Term)
	}
	if _, ok := s.FindCourse("signals and systems"); ok {
		t.Fatal("direct match is exact, not case-folded")
	}
}

func TestNameLists(t *testing.T) {
	s, _ := Load(writeFixture(t))
	courses := s.CourseNames()
	if len(courses) != 2 {
		t.Fatalf("course names must be unique, got %v", courses)
	}
	profs := s.ProfessorNames()
	if len(profs) != 2 || profs[0] != "Kim" || profs[1] != "Lee" {
		t.Fatalf("expected [Kim Lee] in dataset order, got %v", profs)
	}
}

func TestFilters(t *testing.T) {
	s, _ := Load(writeFixture(t))
	if got := s.ByProfessor("Kim"); len(got) != 2 {
		t.Fatalf("expected 2 courses by Kim, got %d", len(got))
	}
	if got := s.ByCourse("Signals and Systems"); len(got) != 2 {
		t.Fatalf("a course can repeat across terms, got %d rows", len(got))
	}
	if got := s.ByProfessor("Choi"); len(got) != 0 {
		t.Fatalf("unknown professor must filter to nothing, got %d", len(got))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected an error for a missing dataset")
	}
}
