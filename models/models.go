package models

import (
	"fmt"
	"strings"
)

// NoInformation is rendered for any course field the dataset left empty.
const NoInformation = "no information"

// OverviewLimit caps the course overview wherever it is surfaced.
const OverviewLimit = 150

// CourseRecord is one row of the course dataset.
type CourseRecord struct {
	Department string `json:"department"`
	CourseName string `json:"course_name"`
	Term       string `json:"term"`
	Professor  string `json:"professor"`
	TrackType  string `json:"track_type"`
	CourseCode string `json:"course_code"`
	Structure  string `json:"structure"`
	Schedule   string `json:"schedule"`
	Rating     string `json:"rating"`
	Homework   string `json:"homework_policy"`
	GroupWork  string `json:"group_work"`
	Grading    string `json:"grading"`
	Attendance string `json:"attendance_policy"`
	ExamPolicy string `json:"exam_policy"`
	Overview   string `json:"overview_text"`
}

// SearchResult is a ranked course. RelevanceScore is nil for direct matches.
type SearchResult struct {
	CourseRecord
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	Rank           int      `json:"rank"`
}

type ChatTurn struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

type SearchHistoryEntry struct {
	ID      string         `json:"id"`
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

type FollowupType string

const (
	FollowupNone      FollowupType = "none"
	FollowupProfessor FollowupType = "professor"
	FollowupLecture   FollowupType = "lecture"
)

type AnswerMode string

const (
	ModeDefault           AnswerMode = "default"
	ModeProfessorFollowup AnswerMode = "professor_followup"
	ModeLectureFollowup   AnswerMode = "lecture_followup"
)

// TruncateOverview shortens an overview to OverviewLimit runes.
func TruncateOverview(s string) string {
	r := []rune(s)
	if len(r) <= OverviewLimit {
		return s
	}
	return string(r[:OverviewLimit])
}

func orNoInfo(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoInformation
	}
	return s
}

// FormatCourseInfo renders one record as the text block handed to the answer
// generator. Every consumer goes through this function so the missing-value
// sentinel and the overview cap are applied uniformly.
func FormatCourseInfo(c CourseRecord) string {
	lines := []string{
		fmt.Sprintf("Department: %s", orNoInfo(c.Department)),
		fmt.Sprintf("Course: %s", orNoInfo(c.CourseName)),
		fmt.Sprintf("Term: %s", orNoInfo(c.Term)),
		fmt.Sprintf("Professor: %s", orNoInfo(c.Professor)),
		fmt.Sprintf("Track type: %s", orNoInfo(c.TrackType)),
		fmt.Sprintf("Course code: %s", orNoInfo(c.CourseCode)),
		fmt.Sprintf("Structure: %s", orNoInfo(c.Structure)),
		fmt.Sprintf("Schedule: %s", orNoInfo(c.Schedule)),
		fmt.Sprintf("Rating: %s", orNoInfo(c.Rating)),
		fmt.Sprintf("Homework: %s", orNoInfo(c.Homework)),
		fmt.Sprintf("Group work: %s", orNoInfo(c.GroupWork)),
		fmt.Sprintf("Grading: %s", orNoInfo(c.Grading)),
		fmt.Sprintf("Attendance: %s", orNoInfo(c.Attendance)),
		fmt.Sprintf("Exams: %s", orNoInfo(c.ExamPolicy)),
		fmt.Sprintf("Overview: %s", orNoInfo(TruncateOverview(c.Overview))),
	}
	return strings.Join(lines, "\n")
}
