package intake

import (
	"sync"
	"time"

	"talentscout-bot/internal/candidate"
	"talentscout-bot/internal/storage"
)

// State is where a session sits in the intake flow.
type State string

const (
	StateCollecting State = "collecting"
	StateAnswering  State = "answering"
	StateFinished   State = "finished"
)

const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// ChatMessage is one transcript entry.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// Session is everything one candidate has entered. Only the Workflow mutates
// it and only one step runs against it at a time.
type Session struct {
	ID    string
	State State

	Draft     candidate.Draft
	Candidate *candidate.Complete
	Questions storage.QuestionSet
	Answers   storage.AnswerSet

	Transcript []ChatMessage
	Saved      bool

	// conversation bookkeeping for Dialog
	Pending      string
	ConsentAsked bool
	Cursor       int
	Ended        bool

	CreatedAt    time.Time
	LastActivity time.Time

	mu sync.Mutex
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		State:        StateCollecting,
		CreatedAt:    now,
		LastActivity: now,
	}
}

func (s *Session) AddMessage(role, text string, now time.Time) {
	s.Transcript = append(s.Transcript, ChatMessage{Role: role, Text: text, TS: now.Unix()})
}

// Missing lists the required fields the draft still lacks.
func (s *Session) Missing() []string {
	return candidate.Missing(s.Draft)
}

// AnsweredCount counts questions with a non-empty answer.
func (s *Session) AnsweredCount() int {
	count := 0
	for _, tq := range s.Questions {
		for i := range tq.Questions {
			if s.Answers.Get(tq.Technology, i+1) != "" {
				count++
			}
		}
	}
	return count
}

// questionRef points at one question in the set.
type questionRef struct {
	Technology string
	Index      int
	Count      int
	Question   storage.Question
}

func flatten(qs storage.QuestionSet) []questionRef {
	var out []questionRef
	for _, tq := range qs {
		for i, q := range tq.Questions {
			out = append(out, questionRef{
				Technology: tq.Technology,
				Index:      i + 1,
				Count:      len(tq.Questions),
				Question:   q,
			})
		}
	}
	return out
}
