package search

import (
	"fmt"
	"strings"

	"github.com/hyunjin-oh/coursechat/models"
)

// QueryType selects which textual projection of each record is indexed.
type QueryType string

const (
	QueryTypeProfessor QueryType = "professor"
	QueryTypeCourse    QueryType = "course"
)

// professorKeywords flag a query as professor-oriented. The Korean entries
// match the honorifics the dataset's users actually type.
var professorKeywords = []string{
	"professor", "instructor", "teacher",
	"교수", "교수님", "담당 교수", "선생님",
}

// ClassifyQuery returns QueryTypeProfessor when the query mentions a
// professor-referring keyword, QueryTypeCourse otherwise.
func ClassifyQuery(query string) QueryType {
	q := strings.ToLower(query)
	for _, kw := range professorKeywords {
		if strings.Contains(q, kw) {
			return QueryTypeProfessor
		}
	}
	return QueryTypeCourse
}

// ProjectionText builds the text that stands in for a record during
// retrieval. Professor-oriented queries emphasize the professor; course
// queries fold in structure and overview as well.
func ProjectionText(rec models.CourseRecord, qt QueryType) string {
	if qt == QueryTypeProfessor {
		return fmt.Sprintf("professor: %s course: %s", rec.Professor, rec.CourseName)
	}
	return fmt.Sprintf("course: %s professor: %s structure: %s overview: %s",
		rec.CourseName, rec.Professor, rec.Structure, rec.Overview)
}
