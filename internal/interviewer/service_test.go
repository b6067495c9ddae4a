package interviewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscout-bot/internal/api"
	"talentscout-bot/internal/config"
	"talentscout-bot/internal/metrics"
	"talentscout-bot/internal/storage"
)

type fakeCompleter struct {
	reply    string
	err      error
	messages []api.Message
	opts     api.CompletionOptions
	calls    int
}

func (f *fakeCompleter) Complete(_ context.Context, messages []api.Message, opts api.CompletionOptions) (string, error) {
	f.calls++
	f.messages = messages
	f.opts = opts
	return f.reply, f.err
}

func questionsJSON(techs []string, count int) string {
	var b strings.Builder
	b.WriteString("{")
	for i, tech := range techs {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%q: [", tech)
		for j := 0; j < count; j++ {
			if j > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, `{"question": "%s question %d", "difficulty": "medium", "area": "basics"}`, tech, j+1)
		}
		b.WriteString("]")
	}
	b.WriteString("}")
	return b.String()
}

func TestGenerateQuestions(t *testing.T) {
	client := &fakeCompleter{reply: questionsJSON([]string{"Python", "SQL"}, 4)}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	svc := New(client, config.Default(), m)

	qs, err := svc.GenerateQuestions(context.Background(), "Ada", []string{"Python", "SQL"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Python", "SQL"}, qs.Technologies())
	assert.Equal(t, 8, qs.Total())
	assert.Len(t, qs.Questions("Python"), 4)

	require.Len(t, client.messages, 2)
	assert.Equal(t, api.RoleSystem, client.messages[0].Role)
	assert.Equal(t, api.RoleUser, client.messages[1].Role)
	assert.Contains(t, client.messages[1].Content, "Python, SQL")
	assert.Contains(t, client.messages[1].Content, "Ada")
	assert.InDelta(t, 0.2, client.opts.Temperature, 1e-9)
	assert.Equal(t, 1200, client.opts.MaxTokens)

	snap := m.GetSnapshot()
	assert.Equal(t, int64(1), snap.GenerationsSucceeded)
	assert.Equal(t, int64(1), snap.APICallsSuccessful)
}

func TestGenerateQuestionsFailures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "Transport error", err: errors.New("connection refused")},
		{name: "Offline placeholder", reply: api.OfflinePlaceholder},
		{name: "Empty object", reply: "{}"},
		{name: "Malformed JSON", reply: `{"Python": [`},
		{name: "Trailing garbage", reply: `{"Python": []} and more {`},
		{name: "Wrong value type", reply: `{"Python": [{"question": 1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewMetrics(prometheus.NewRegistry())
			svc := New(&fakeCompleter{reply: tt.reply, err: tt.err}, config.Default(), m)

			qs, err := svc.GenerateQuestions(context.Background(), "Ada", []string{"Python"})
			assert.Error(t, err)
			assert.Nil(t, qs)
			assert.Equal(t, int64(1), m.GetSnapshot().GenerationsFailed)
		})
	}
}

func TestParseQuestionSet(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "Bare object", reply: `{"Go": [{"question": "q", "difficulty": "easy", "area": "syntax"}]}`},
		{name: "Leading commentary", reply: "Here are your questions:\n" + `{"Go": [{"question": "q", "difficulty": "easy", "area": "syntax"}]}`},
		{name: "Fenced", reply: "```json\n" + `{"Go": [{"question": "q", "difficulty": "easy", "area": "syntax"}]}` + "\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := ParseQuestionSet(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, storage.QuestionSet{
				{Technology: "Go", Questions: []storage.Question{{Question: "q", Difficulty: storage.DifficultyEasy, Area: "syntax"}}},
			}, qs)
		})
	}
}

func TestParseQuestionSetErrors(t *testing.T) {
	_, err := ParseQuestionSet("no json here")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ParseQuestionSet("{}")
	assert.ErrorIs(t, err, ErrNoTechnologies)
}

func TestParseQuestionSetKeepsMismatches(t *testing.T) {
	// extra technology, short list and an unknown difficulty are kept as returned
	qs, err := ParseQuestionSet(`{"Rust": [{"question": "q", "difficulty": "expert"}]}`)
	require.NoError(t, err)
	reportMismatches(qs, []string{"Go"}, 4)

	assert.Equal(t, []string{"Rust"}, qs.Technologies())
	assert.Equal(t, storage.Difficulty("expert"), qs.Questions("Rust")[0].Difficulty)
}
