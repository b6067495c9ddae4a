package interviewer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"talentscout-bot/internal/api"
	"talentscout-bot/internal/config"
	"talentscout-bot/internal/metrics"
	"talentscout-bot/internal/prompts"
	"talentscout-bot/internal/storage"
)

var (
	ErrNoJSON         = errors.New("model reply contains no JSON object")
	ErrNoTechnologies = errors.New("model reply contains no technologies")
)

// Service generates screening questions through the model boundary.
type Service struct {
	client  api.Completer
	cfg     *config.Config
	metrics *metrics.Metrics
}

func New(client api.Completer, cfg *config.Config, m *metrics.Metrics) *Service {
	return &Service{
		client:  client,
		cfg:     cfg,
		metrics: m,
	}
}

// GenerateQuestions asks the model for the configured number of questions per
// technology. It returns either the full set or an error, never a partial set.
func (s *Service) GenerateQuestions(ctx context.Context, candidateName string, technologies []string) (storage.QuestionSet, error) {
	messages := []api.Message{
		{Role: api.RoleSystem, Content: prompts.SystemPrompt},
		{Role: api.RoleUser, Content: prompts.GenerateQuestionPrompt(candidateName, technologies, s.cfg.GetQuestionCount())},
	}

	reply, err := s.client.Complete(ctx, messages, api.CompletionOptions{
		MaxTokens:   s.cfg.GetMaxTokens(),
		Temperature: s.cfg.GetTemperature(),
	})
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		s.metrics.IncrementGeneration(false)
		return nil, fmt.Errorf("error calling model: %w", err)
	}

	questions, err := ParseQuestionSet(reply)
	if err != nil {
		s.metrics.IncrementGeneration(false)
		return nil, fmt.Errorf("error parsing model reply: %w", err)
	}

	reportMismatches(questions, technologies, s.cfg.GetQuestionCount())
	s.metrics.IncrementGeneration(true)
	return questions, nil
}

// ParseQuestionSet reads the question object out of a model reply: fences are
// stripped, anything before the first '{' is skipped and the rest must be
// exactly one JSON object.
func ParseQuestionSet(reply string) (storage.QuestionSet, error) {
	cleaned := api.CleanJSONResponse(reply)
	start := strings.Index(cleaned, "{")
	if start < 0 {
		return nil, ErrNoJSON
	}

	var questions storage.QuestionSet
	if err := questions.UnmarshalJSON([]byte(cleaned[start:])); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoTechnologies
	}
	return questions, nil
}

// reportMismatches logs where the model strayed from the request. The set is kept as returned.
func reportMismatches(questions storage.QuestionSet, technologies []string, count int) {
	log := zap.S().Named("interviewer")

	requested := make(map[string]bool, len(technologies))
	for _, tech := range technologies {
		requested[tech] = true
	}
	for _, tq := range questions {
		if !requested[tq.Technology] {
			log.Warnf("model returned unrequested technology %q", tq.Technology)
		}
		delete(requested, tq.Technology)
		if len(tq.Questions) != count {
			log.Warnf("model returned %d questions for %q, wanted %d", len(tq.Questions), tq.Technology, count)
		}
		for i, q := range tq.Questions {
			if q.Question == "" || !q.Difficulty.Valid() || q.Area == "" {
				log.Warnf("question %d for %q is incomplete (difficulty %q)", i+1, tq.Technology, q.Difficulty)
			}
		}
	}
	for tech := range requested {
		log.Warnf("model returned no questions for %q", tech)
	}
}
