package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Difficulty is the model's difficulty tag for a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is one generated screening question.
type Question struct {
	Question   string     `json:"question"`
	Difficulty Difficulty `json:"difficulty"`
	Area       string     `json:"area"`
}

// TechnologyQuestions groups the questions generated for one technology.
type TechnologyQuestions struct {
	Technology string
	Questions  []Question
}

// QuestionSet keeps technologies in the order the model returned them.
type QuestionSet []TechnologyQuestions

// Technologies returns the technology keys in order.
func (qs QuestionSet) Technologies() []string {
	out := make([]string, 0, len(qs))
	for _, tq := range qs {
		out = append(out, tq.Technology)
	}
	return out
}

// Questions returns the questions for a technology, or nil.
func (qs QuestionSet) Questions(technology string) []Question {
	for _, tq := range qs {
		if tq.Technology == technology {
			return tq.Questions
		}
	}
	return nil
}

// Total is the number of questions across every technology.
func (qs QuestionSet) Total() int {
	total := 0
	for _, tq := range qs {
		total += len(tq.Questions)
	}
	return total
}

// UnmarshalJSON decodes a JSON object keyed by technology, preserving key
// order. A repeated key keeps its first position and takes the last value.
func (qs *QuestionSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("question set must be a JSON object")
	}

	var out QuestionSet
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		technology, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", tok)
		}

		var questions []Question
		if err := dec.Decode(&questions); err != nil {
			return fmt.Errorf("questions for %q: %w", technology, err)
		}

		if i, seen := index[technology]; seen {
			out[i].Questions = questions
			continue
		}
		index[technology] = len(out)
		out = append(out, TechnologyQuestions{Technology: technology, Questions: questions})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after question set")
	}

	*qs = out
	return nil
}

// MarshalJSON writes the set back as an object in the same order.
func (qs QuestionSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tq := range qs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(tq.Technology)
		if err != nil {
			return nil, err
		}
		questions := tq.Questions
		if questions == nil {
			questions = []Question{}
		}
		value, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AnswerKey addresses one answer. Index is 1-based within the technology.
type AnswerKey struct {
	Technology string
	Index      int
}

// AnswerSet stores free-text answers. Missing keys read as "".
type AnswerSet map[AnswerKey]string

func (a AnswerSet) Set(technology string, index int, answer string) {
	a[AnswerKey{Technology: technology, Index: index}] = answer
}

func (a AnswerSet) Get(technology string, index int) string {
	return a[AnswerKey{Technology: technology, Index: index}]
}

// ExportRow is one (technology, question, answer) line of an export.
type ExportRow struct {
	Technology string `json:"Technology"`
	Question   string `json:"Question"`
	Answer     string `json:"Answer"`
}

// StoredCandidate is the redacted record written to the candidate log.
type StoredCandidate struct {
	FullName        string   `json:"full_name"`
	YearsExperience string   `json:"years_experience"`
	DesiredPosition string   `json:"desired_position"`
	CurrentLocation string   `json:"current_location"`
	TechStack       []string `json:"tech_stack"`
	Consent         bool     `json:"consent"`
	EmailHashed     string   `json:"email_hashed"`
	PhoneHashed     string   `json:"phone_hashed"`
	SavedAt         int64    `json:"saved_at"`
}
