package search

import "testing"

func TestClassifyQuery(t *testing.T) {
	cases := []struct {
		query string
		want  QueryType
	}{
		{"Who is the professor for Signals and Systems?", QueryTypeProfessor},
		{"Which instructor teaches circuits?", QueryTypeProfessor},
		{"김철수 교수님 강의 어때요?", QueryTypeProfessor},
		{"easy major electives this term", QueryTypeCourse},
		{"Signals and Systems", QueryTypeCourse},
	}
	for _, c := range cases {
		if got := ClassifyQuery(c.query); got != c.want {
			t.Errorf("ClassifyQuery(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}

func TestProjectionTextByQueryType(t *testing.T) {
	rec := testRecord("Signals and Systems", "Kim")
	rec.Structure = "lecture + lab"
	rec.Overview = "fourier transforms"

	prof := ProjectionText(rec, QueryTypeProfessor)
	if prof != "professor: Kim course: Signals and Systems" {
		t.Fatalf("unexpected professor projection: %q", prof)
	}

	course := ProjectionText(rec, QueryTypeCourse)
	for _, want := range []string{"Signals and Systems", "Kim", "lecture + lab", "fourier transforms"} {
		if !contains(course, want) {
			t.Fatalf("course projection missing %q: %q", want, course)
		}
	}
}
