package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"talentscout-bot/internal/candidate"
	"talentscout-bot/internal/intake"
	"talentscout-bot/internal/storage"
)

const (
	formatCSV  = "csv"
	formatJSON = "json"
	formatXLSX = "xlsx"
)

func (s *Server) RegisterApi(router chi.Router) {
	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Post("/extract", s.extract)
			r.Patch("/fields", s.setFields)
			r.Post("/submit", s.submit)
			r.Put("/answers", s.answer)
			r.Post("/finish", s.finish)
			r.Get("/export.{format}", s.export)
		})
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	session := s.registry.Create()
	zap.S().Named("rest").Infow("session created", "session_id", session.ID)
	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, newSessionReply(session))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(session *intake.Session) {
		_ = render.Render(w, r, newSessionReply(session))
	})
}

func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.withSession(w, r, func(session *intake.Session) {
		if _, err := s.workflow.Ingest(session, req.Text); err != nil {
			writeError(w, err)
			return
		}
		_ = render.Render(w, r, newSessionReply(session))
	})
}

func (s *Server) setFields(w http.ResponseWriter, r *http.Request) {
	fields := map[string]string{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.withSession(w, r, func(session *intake.Session) {
		if err := s.workflow.SetFields(session, fields); err != nil {
			writeError(w, err)
			return
		}
		_ = render.Render(w, r, newSessionReply(session))
	})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(session *intake.Session) {
		if err := s.workflow.Submit(r.Context(), session); err != nil {
			var missing *candidate.MissingFieldsError
			if errors.As(err, &missing) {
				render.Status(r, http.StatusUnprocessableEntity)
				_ = render.Render(w, r, ErrorReply{Error: err.Error(), Missing: missing.Fields})
				return
			}
			writeError(w, err)
			return
		}
		_ = render.Render(w, r, newSessionReply(session))
	})
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.withSession(w, r, func(session *intake.Session) {
		if session.State != intake.StateCollecting {
			if n := len(session.Questions.Questions(req.Technology)); req.Index < 1 || req.Index > n {
				http.Error(w, fmt.Sprintf("no question %d for %q", req.Index, req.Technology), http.StatusBadRequest)
				return
			}
		}
		if err := s.workflow.Answer(session, req.Technology, req.Index, req.Answer); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *Server) finish(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(session *intake.Session) {
		export, err := s.workflow.Finish(r.Context(), session)
		if export == nil {
			writeError(w, err)
			return
		}
		reply := FinishReply{Saved: session.Saved, Rows: export.Rows}
		if err != nil {
			reply.Warning = err.Error()
		}
		_ = render.Render(w, r, reply)
	})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	s.withSession(w, r, func(session *intake.Session) {
		export, err := s.workflow.Export(session)
		if err != nil {
			writeError(w, err)
			return
		}

		var (
			data        []byte
			contentType string
		)
		switch format {
		case formatCSV:
			data, contentType = export.CSV, "text/csv"
		case formatJSON:
			data, contentType = export.JSON, "application/json"
		case formatXLSX:
			data, err = export.XLSX()
			if err != nil {
				http.Error(w, fmt.Sprintf("failed rendering xlsx: %v", err), http.StatusInternalServerError)
				return
			}
			contentType = intake.ContentTypeXLSX
			s.metrics.IncrementExport(formatXLSX)
		default:
			http.Error(w, fmt.Sprintf("unsupported export format %q", format), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Add("Content-Disposition", fmt.Sprintf("attachment; filename=answers.%s", format))
		_, _ = w.Write(data)
	})
}

// withSession runs fn while holding the session named in the URL.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*intake.Session)) {
	err := s.registry.Do(chi.URLParam(r, "id"), func(session *intake.Session) error {
		fn(session)
		return nil
	})
	if errors.Is(err, intake.ErrUnknownSession) {
		http.Error(w, "session not found", http.StatusNotFound)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, intake.ErrLocked), errors.Is(err, intake.ErrNoQuestions):
		status = http.StatusConflict
	case errors.Is(err, intake.ErrQuestionsUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, intake.ErrUnknownField), errors.Is(err, intake.ErrInvalidValue):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		zap.S().Named("rest").Errorw("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

type ExtractRequest struct {
	Text string `json:"text"`
}

type AnswerRequest struct {
	Technology string `json:"technology"`
	Index      int    `json:"index"`
	Answer     string `json:"answer"`
}

type SessionReply struct {
	ID        string              `json:"id"`
	State     string              `json:"state"`
	Draft     candidate.Draft     `json:"draft"`
	Missing   []string            `json:"missing"`
	Questions storage.QuestionSet `json:"questions,omitempty"`
	Answered  int                 `json:"answered"`
	Saved     bool                `json:"saved"`
}

func newSessionReply(s *intake.Session) SessionReply {
	return SessionReply{
		ID:        s.ID,
		State:     string(s.State),
		Draft:     s.Draft,
		Missing:   s.Missing(),
		Questions: s.Questions,
		Answered:  s.AnsweredCount(),
		Saved:     s.Saved,
	}
}

type FinishReply struct {
	Saved   bool                `json:"saved"`
	Warning string              `json:"warning,omitempty"`
	Rows    []storage.ExportRow `json:"rows"`
}

type ErrorReply struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

func (s SessionReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (f FinishReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (e ErrorReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
