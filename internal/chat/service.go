// Package chat orchestrates a full question turn: context resolution, search
// when needed, prompt assembly and the answer-generator call.
package chat

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hyunjin-oh/coursechat/config"
	"github.com/hyunjin-oh/coursechat/internal/followup"
	"github.com/hyunjin-oh/coursechat/internal/history"
	"github.com/hyunjin-oh/coursechat/internal/store"
	"github.com/hyunjin-oh/coursechat/models"
	"github.com/hyunjin-oh/coursechat/provider"
)

const systemPrompt = "You are a friendly assistant that answers questions about university courses using the course records you are given."

// Answer is one completed turn.
type Answer struct {
	Text       string
	Resolution followup.Resolution
	History    []models.ChatTurn
}

// Searcher is the slice of the hybrid engine the service needs.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) []models.SearchResult
}

// Service wires the resolver, the engine and the provider behind a single
// Answer call.
type Service struct {
	cfg      *config.Config
	provider provider.Provider
	history  history.Store
	engine   Searcher
	resolver *followup.Resolver
	logger   *log.Logger

	loadDataset func() (*store.Store, error)
}

func NewService(cfg *config.Config, p provider.Provider, hist history.Store, engine Searcher, resolver *followup.Resolver) *Service {
	return &Service{
		cfg:         cfg,
		provider:    p,
		history:     hist,
		engine:      engine,
		resolver:    resolver,
		logger:      log.New(os.Stderr, "[CHAT] ", log.LstdFlags),
		loadDataset: func() (*store.Store, error) { return store.Load(cfg.Dataset.Path) },
	}
}

// Answer resolves the query against conversation memory, gathers context
// documents (previous results for follow-ups, a fresh hybrid search
// otherwise) and asks the provider for the reply. The turn is recorded on
// success.
func (s *Service) Answer(ctx context.Context, query string) (Answer, error) {
	ds, err := s.loadDataset()
	if err != nil {
		// The resolver can still run; it just knows no entity names, so
		// everything classifies as a new query and search reports empty.
		s.logger.Printf("dataset load failed: %v", err)
		ds = store.FromRecords(nil)
	}

	res := s.resolver.Resolve(query, ds)

	var docs []models.CourseRecord
	mode := models.ModeDefault
	switch {
	case res.IsFollowup && res.Subtype == models.FollowupProfessor:
		docs = res.Context
		mode = models.ModeProfessorFollowup
	case res.IsFollowup && res.Subtype == models.FollowupLecture:
		docs = res.Context
		mode = models.ModeLectureFollowup
	default:
		for _, r := range s.engine.Search(ctx, query, s.cfg.Search.TopK) {
			docs = append(docs, r.CourseRecord)
		}
	}

	lastQ, lastA := history.LastTurn(s.history)
	prompt := buildPrompt(query, docs, mode, res.Entity, lastQ, lastA)

	text, err := s.provider.ChatCompletion(ctx, systemPrompt, prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("generating answer: %w", err)
	}

	if err := s.history.AppendChatTurn(models.ChatTurn{User: query, Bot: text}); err != nil {
		s.logger.Printf("recording chat turn: %v", err)
	}

	turns, err := s.history.ChatTurns()
	if err != nil {
		s.logger.Printf("loading chat history: %v", err)
	}
	return Answer{Text: text, Resolution: res, History: turns}, nil
}

// buildPrompt renders the context documents and conversation state into one
// of the three prompt templates.
func buildPrompt(query string, docs []models.CourseRecord, mode models.AnswerMode, entity, lastQ, lastA string) string {
	blocks := make([]string, len(docs))
	for i, d := range docs {
		blocks[i] = models.FormatCourseInfo(d)
	}
	contextText := strings.Join(blocks, "\n\n")

	switch mode {
	case models.ModeProfessorFollowup:
		return fmt.Sprintf(`The user previously asked about a professor's courses and is now asking a follow-up question.

[Previous user question]
%s

[Previous answer]
%s

[Current user question]
%s

Professor: %s
These are the courses taught by this professor:
%s

Answer the follow-up naturally and consistently with the conversation above. Cover the key facts: course names, homework, attendance, exams and grading. Keep the tone warm and the sentences short.`, lastQ, lastA, query, entity, contextText)

	case models.ModeLectureFollowup:
		return fmt.Sprintf(`The user previously asked about a specific course and is now asking a follow-up question about it.

[Previous user question]
%s

[Previous answer]
%s

[Current user question]
%s

Course: %s
Details of this course:
%s

Answer using the conversation flow and the course details above. Include the professor, homework, exams and attendance where relevant. Keep the answer short and easy to follow.`, lastQ, lastA, query, entity, contextText)

	default:
		return fmt.Sprintf(`The user asked a question about courses and the search below returned the relevant records.

[User question]
%s

[Retrieved courses]
%s

Ignore retrieved courses that are unrelated to the question. Summarize the relevant ones in natural sentences, covering course name, professor, track type, rating, homework, attendance and exams. When several courses match, mention what they share and how they differ. Always answer politely.`, query, contextText)
	}
}
