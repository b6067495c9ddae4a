package intake

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentscout-bot/internal/artifacts"
	"talentscout-bot/internal/candidate"
	"talentscout-bot/internal/extractor"
	"talentscout-bot/internal/metrics"
	"talentscout-bot/internal/notify"
	"talentscout-bot/internal/storage"
)

var (
	ErrLocked               = errors.New("candidate details are locked once questions are generated")
	ErrQuestionsUnavailable = errors.New("failed to generate questions, please try again later")
	ErrNoQuestions          = errors.New("questions have not been generated yet")
	ErrUnknownField         = errors.New("unknown candidate field")
	ErrInvalidValue         = errors.New("invalid field value")
)

// QuestionGenerator produces the question set for a completed candidate.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, candidateName string, technologies []string) (storage.QuestionSet, error)
}

// Export holds the rendered answers of a session.
type Export struct {
	Rows []storage.ExportRow
	CSV  []byte
	JSON []byte
}

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Attachment is a named file handed to a transport.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

func (e *Export) XLSX() ([]byte, error) {
	return storage.ExportXLSX(e.Rows)
}

// Attachments returns the CSV and JSON files of the export.
func (e *Export) Attachments() []Attachment {
	return []Attachment{
		{Name: "answers.csv", ContentType: "text/csv", Data: e.CSV},
		{Name: "answers.json", ContentType: "application/json", Data: e.JSON},
	}
}

// Workflow sequences extraction, validation, question generation, answer
// collection and export for sessions it is handed.
type Workflow struct {
	generator QuestionGenerator
	log       storage.CandidateLog
	metrics   *metrics.Metrics
	publisher notify.Publisher
	uploader  artifacts.Uploader
	now       func() time.Time
}

type Option func(*Workflow)

func WithPublisher(p notify.Publisher) Option {
	return func(w *Workflow) { w.publisher = p }
}

func WithUploader(u artifacts.Uploader) Option {
	return func(w *Workflow) { w.uploader = u }
}

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

func NewWorkflow(generator QuestionGenerator, log storage.CandidateLog, m *metrics.Metrics, opts ...Option) *Workflow {
	w := &Workflow{
		generator: generator,
		log:       log,
		metrics:   m,
		publisher: notify.Nop{},
		uploader:  artifacts.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewSession starts an empty session with a fresh id.
func (w *Workflow) NewSession() *Session {
	w.metrics.IncrementSessionsStarted()
	return newSession(uuid.New().String(), w.now())
}

// Ingest runs the field extractor over text and merges what it found into
// the draft. It returns the fields still missing.
func (w *Workflow) Ingest(s *Session, text string) ([]string, error) {
	if s.State != StateCollecting {
		return nil, ErrLocked
	}
	s.Draft.Merge(extractor.Extract(text))
	return s.Missing(), nil
}

// SetField sets one field from form input. The tech stack is normalized and
// consent is parsed as a boolean. An empty value clears the field.
func (w *Workflow) SetField(s *Session, field, value string) error {
	if s.State != StateCollecting {
		return ErrLocked
	}

	value = strings.TrimSpace(value)
	d := &s.Draft
	switch field {
	case candidate.FieldFullName:
		d.FullName = value
	case candidate.FieldEmail:
		d.Email = value
	case candidate.FieldPhone:
		d.Phone = value
	case candidate.FieldYearsExperience:
		d.YearsExperience = value
	case candidate.FieldDesiredPosition:
		d.DesiredPosition = value
	case candidate.FieldCurrentLocation:
		d.CurrentLocation = value
	case candidate.FieldTechStack:
		d.TechStack = extractor.NormalizeTechStack(value)
	case candidate.FieldConsent:
		if value == "" {
			d.Consent = false
			return nil
		}
		consent, err := parseConsent(value)
		if err != nil {
			return err
		}
		d.Consent = consent
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// SetFields applies several fields at once. Every field is checked before
// any is applied, so a rejected request leaves the draft untouched.
func (w *Workflow) SetFields(s *Session, fields map[string]string) error {
	if s.State != StateCollecting {
		return ErrLocked
	}

	for _, field := range sortedKeys(fields) {
		if _, ok := candidate.Labels[field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	if value, ok := fields[candidate.FieldConsent]; ok && strings.TrimSpace(value) != "" {
		if _, err := parseConsent(strings.TrimSpace(value)); err != nil {
			return err
		}
	}

	for _, field := range sortedKeys(fields) {
		if err := w.SetField(s, field, fields[field]); err != nil {
			return err
		}
	}
	return nil
}

func parseConsent(value string) (bool, error) {
	consent, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: consent must be true or false, got %q", ErrInvalidValue, value)
	}
	return consent, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Submit validates the draft and, when complete, generates the questions.
// A missing field yields *candidate.MissingFieldsError; a generation failure
// yields ErrQuestionsUnavailable. Either way the session keeps its data and
// stays in StateCollecting.
func (w *Workflow) Submit(ctx context.Context, s *Session) error {
	if s.State != StateCollecting {
		return ErrLocked
	}

	complete, err := s.Draft.Complete()
	if err != nil {
		return err
	}

	questions, err := w.generator.GenerateQuestions(ctx, complete.DisplayName(), complete.TechStack)
	if err != nil {
		zap.S().Named("intake").Warnw("question generation failed", "session_id", s.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrQuestionsUnavailable, err)
	}

	s.Candidate = &complete
	s.Questions = questions
	s.Answers = storage.AnswerSet{}
	s.State = StateAnswering
	zap.S().Named("intake").Infow("questions generated", "session_id", s.ID,
		"technologies", len(questions), "questions", questions.Total())
	return nil
}

// Answer stores the answer for question index (1-based) of technology.
func (w *Workflow) Answer(s *Session, technology string, index int, answer string) error {
	if s.State == StateCollecting {
		return ErrNoQuestions
	}
	s.Answers.Set(technology, index, answer)
	return nil
}

// Export renders the current answers. Unchanged answers render identically.
func (w *Workflow) Export(s *Session) (*Export, error) {
	if s.State == StateCollecting {
		return nil, ErrNoQuestions
	}

	rows := storage.BuildRows(s.Questions, s.Answers)
	csvData, err := storage.ExportCSV(rows)
	if err != nil {
		return nil, err
	}
	jsonData, err := storage.ExportJSON(rows)
	if err != nil {
		return nil, err
	}
	w.metrics.IncrementExport("csv")
	w.metrics.IncrementExport("json")
	return &Export{Rows: rows, CSV: csvData, JSON: jsonData}, nil
}

// Finish renders the export and, if the candidate consented, appends the
// redacted record to the log once per session. The export is returned even
// when the append fails; the error is returned alongside it.
func (w *Workflow) Finish(ctx context.Context, s *Session) (*Export, error) {
	export, err := w.Export(s)
	if err != nil {
		return nil, err
	}

	firstFinish := s.State != StateFinished
	s.State = StateFinished

	var saveErr error
	if s.Candidate.Consent && !s.Saved {
		record := storage.Redact(*s.Candidate, w.now())
		if err := w.log.Append(ctx, record); err != nil {
			saveErr = fmt.Errorf("error saving candidate record: %w", err)
			zap.S().Named("intake").Errorw("candidate record not saved", "session_id", s.ID, "error", err)
		} else {
			s.Saved = true
			w.metrics.IncrementRecordsPersisted()
		}
	}

	if firstFinish {
		w.metrics.IncrementSessionsCompleted()
		w.sideChannels(ctx, s, export)
	}

	return export, saveErr
}

// sideChannels publishes the finished event and uploads the export. Failures are only logged.
func (w *Workflow) sideChannels(ctx context.Context, s *Session, export *Export) {
	log := zap.S().Named("intake")

	event := notify.Event{
		Type:          notify.EventSessionFinished,
		SessionID:     s.ID,
		Technologies:  s.Questions.Technologies(),
		QuestionCount: s.Questions.Total(),
		AnsweredCount: s.AnsweredCount(),
		Consent:       s.Candidate.Consent,
		FinishedAt:    w.now().Unix(),
	}
	if err := w.publisher.Publish(ctx, event); err != nil {
		log.Warnw("failed to publish session event", "session_id", s.ID, "error", err)
	}

	files := export.Attachments()
	if xlsx, err := export.XLSX(); err == nil {
		files = append(files, Attachment{Name: "answers.xlsx", ContentType: ContentTypeXLSX, Data: xlsx})
	} else {
		log.Warnw("failed to render xlsx export", "session_id", s.ID, "error", err)
	}

	for _, f := range files {
		if err := w.uploader.Upload(ctx, artifacts.ObjectKey(s.ID, f.Name), f.ContentType, f.Data); err != nil {
			log.Warnw("failed to upload export", "session_id", s.ID, "file", f.Name, "error", err)
		}
	}
}
