// Package followup decides whether a query continues the previous subject or
// starts a fresh search, and which entity a continuation refers to.
package followup

import (
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/hyunjin-oh/coursechat/internal/history"
	"github.com/hyunjin-oh/coursechat/internal/store"
	"github.com/hyunjin-oh/coursechat/models"
)

// Resolution is the resolver's verdict. When IsFollowup is false, Context is
// empty and the caller must run the hybrid search engine instead.
type Resolution struct {
	IsFollowup bool
	Subtype    models.FollowupType
	Entity     string
	Context    []models.CourseRecord
}

// tonePatterns flag conversational continuations that reference the previous
// subject without naming it. Mixed English/Korean, matching the user base.
var tonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(this|that|the) (class|course|lecture|professor)\b`),
	regexp.MustCompile(`(?i)\b(class|course|lecture)\b`),
	regexp.MustCompile(`(?i)\b(exam|test|midterm|final)s?\b`),
	regexp.MustCompile(`(?i)\b(homework|assignment|report)s?\b`),
	regexp.MustCompile(`(?i)\battendance\b`),
	regexp.MustCompile(`(?i)\b(grading|evaluation|graded)\b`),
	regexp.MustCompile(`(?i)\b(team project|group work)\b`),
	regexp.MustCompile(`(?i)\b(difficult|easy|hard|boring|fun|difficulty)\b`),
	regexp.MustCompile(`(?i)\b(recommend|worth taking|how is|how was|what about)\b`),
	regexp.MustCompile(`(?i)\b(style|explain|lecture style|teaching)\b`),
	regexp.MustCompile(`(?i)\b(his|her|their) \w+`),
	regexp.MustCompile(`(이|그)?\s?(수업|강의|교수(님)?)`),
	regexp.MustCompile(`시험|과제|출결|평가|레포트|팀플`),
	regexp.MustCompile(`난이도|어려운|쉬운|지루|재밌`),
	regexp.MustCompile(`어때|어떤가요|좋나요|괜찮나요|추천`),
	regexp.MustCompile(`설명|말투|스타일|성향`),
}

// Resolver classifies queries against the conversation memory and the known
// entity names of the dataset.
type Resolver struct {
	history history.Store
	logger  *log.Logger
}

func NewResolver(hist history.Store) *Resolver {
	return &Resolver{
		history: hist,
		logger:  log.New(os.Stderr, "[FOLLOWUP] ", log.LstdFlags),
	}
}

type queryContext struct {
	query       string
	ds          *store.Store
	hasHistory  bool
	lastResults []models.SearchResult
	turns       []models.ChatTurn
}

// rule is one step of the decision procedure. Rules run in declaration
// order; the first one that fires decides the outcome.
type rule struct {
	name string
	eval func(qc queryContext) (Resolution, bool)
}

func (r *Resolver) rules() []rule {
	return []rule{
		// An explicit course mention always starts a new search, even when
		// the wording also looks like a follow-up.
		{name: "course-name-override", eval: func(qc queryContext) (Resolution, bool) {
			for _, name := range qc.ds.CourseNames() {
				if strings.Contains(qc.query, name) {
					return newQuery(), true
				}
			}
			return Resolution{}, false
		}},
		{name: "no-search-history", eval: func(qc queryContext) (Resolution, bool) {
			if !qc.hasHistory {
				return newQuery(), true
			}
			return Resolution{}, false
		}},
		// Professor names from the last result set win over course names;
		// the answer path branches professor-first.
		{name: "last-results-professor", eval: func(qc queryContext) (Resolution, bool) {
			for _, res := range qc.lastResults {
				name := strings.TrimSpace(res.Professor)
				if name != "" && strings.Contains(qc.query, name) {
					return Resolution{
						IsFollowup: true,
						Subtype:    models.FollowupProfessor,
						Entity:     name,
						Context:    resultRecords(qc.lastResults),
					}, true
				}
			}
			return Resolution{}, false
		}},
		{name: "last-results-lecture", eval: func(qc queryContext) (Resolution, bool) {
			for _, res := range qc.lastResults {
				name := strings.TrimSpace(res.CourseName)
				if name != "" && strings.Contains(qc.query, name) {
					return Resolution{
						IsFollowup: true,
						Subtype:    models.FollowupLecture,
						Entity:     name,
						Context:    resultRecords(qc.lastResults),
					}, true
				}
			}
			return Resolution{}, false
		}},
		// Conversational tone without an entity name: recall the last
		// subject from chat history, professor before lecture. Context is
		// the live result set; the dataset filter covers entries whose
		// results did not survive (e.g. partially corrupted history).
		{name: "tone-recall-professor", eval: func(qc queryContext) (Resolution, bool) {
			if !matchesTone(qc.query) {
				return Resolution{}, false
			}
			if prof := lastMentioned(qc.turns, qc.ds.ProfessorNames()); prof != "" {
				docs := resultRecords(qc.lastResults)
				if len(docs) == 0 {
					docs = qc.ds.ByProfessor(prof)
				}
				return Resolution{
					IsFollowup: true,
					Subtype:    models.FollowupProfessor,
					Entity:     prof,
					Context:    docs,
				}, true
			}
			return Resolution{}, false
		}},
		{name: "tone-recall-lecture", eval: func(qc queryContext) (Resolution, bool) {
			if !matchesTone(qc.query) {
				return Resolution{}, false
			}
			if lecture := lastMentioned(qc.turns, qc.ds.CourseNames()); lecture != "" {
				docs := resultRecords(qc.lastResults)
				if len(docs) == 0 {
					docs = qc.ds.ByCourse(lecture)
				}
				return Resolution{
					IsFollowup: true,
					Subtype:    models.FollowupLecture,
					Entity:     lecture,
					Context:    docs,
				}, true
			}
			return Resolution{}, false
		}},
	}
}

// Resolve runs the ordered rule list. Any history read failure degrades to
// "no follow-up context" rather than surfacing an error.
func (r *Resolver) Resolve(query string, ds *store.Store) Resolution {
	turns, err := r.history.ChatTurns()
	if err != nil {
		r.logger.Printf("chat history unavailable: %v", err)
	}
	entries, err := r.history.SearchEntries()
	if err != nil {
		r.logger.Printf("search history unavailable: %v", err)
	}
	var lastResults []models.SearchResult
	if len(entries) > 0 {
		lastResults = entries[len(entries)-1].Results
	}
	qc := queryContext{
		query:       query,
		ds:          ds,
		hasHistory:  len(entries) > 0,
		lastResults: lastResults,
		turns:       turns,
	}
	for _, rl := range r.rules() {
		if res, ok := rl.eval(qc); ok {
			return res
		}
	}
	return newQuery()
}

func newQuery() Resolution {
	return Resolution{IsFollowup: false, Subtype: models.FollowupNone}
}

func matchesTone(query string) bool {
	for _, re := range tonePatterns {
		if re.MatchString(query) {
			return true
		}
	}
	return false
}

// lastMentioned scans chat turns newest-first for the first known name that
// appears in a user message.
func lastMentioned(turns []models.ChatTurn, names []string) string {
	for i := len(turns) - 1; i >= 0; i-- {
		for _, name := range names {
			if name != "" && strings.Contains(turns[i].User, name) {
				return name
			}
		}
	}
	return ""
}

func resultRecords(results []models.SearchResult) []models.CourseRecord {
	out := make([]models.CourseRecord, len(results))
	for i, res := range results {
		out[i] = res.CourseRecord
	}
	return out
}
