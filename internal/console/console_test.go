package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscout-bot/internal/intake"
	"talentscout-bot/internal/storage"
)

type singleQuestion struct{}

func (singleQuestion) GenerateQuestions(_ context.Context, _ string, technologies []string) (storage.QuestionSet, error) {
	var qs storage.QuestionSet
	for _, tech := range technologies {
		qs = append(qs, storage.TechnologyQuestions{Technology: tech, Questions: []storage.Question{
			{Question: "Describe " + tech + ".", Difficulty: storage.DifficultyMedium, Area: "basics"},
		}})
	}
	return qs, nil
}

func newConsole(t *testing.T, input string) (*Console, *bytes.Buffer, string, *storage.FileLog) {
	t.Helper()
	dir := t.TempDir()
	log, err := storage.OpenFileLog(filepath.Join(dir, "candidates.json"))
	require.NoError(t, err)

	w := intake.NewWorkflow(singleQuestion{}, log, nil)
	out := &bytes.Buffer{}
	exportDir := filepath.Join(dir, "output")
	return New(w, intake.NewDialog(w, []string{"exit"}), strings.NewReader(input), out, exportDir), out, exportDir, log
}

func TestConsoleRun(t *testing.T) {
	input := strings.Join([]string{
		"Full Name: Ada Lovelace",
		"Email: a@b.com, Phone: 1234567890",
		"7 years of experience",
		"Desired Position: Data Engineer",
		"Location: London",
		"Tech Stack: Go",
		"yes",
		"Goroutines are cheap",
		"finish",
		"exit",
	}, "\n")
	c, out, exportDir, log := newConsole(t, input)

	session, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, intake.StateFinished, session.State)

	text := out.String()
	assert.Contains(t, text, "Assistant: [Go 1/1 · medium · basics] Describe Go.")
	assert.Contains(t, text, "Saved "+filepath.Join(exportDir, "answers.csv"))

	data, err := os.ReadFile(filepath.Join(exportDir, "answers.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Goroutines are cheap")
	assert.Len(t, log.ReadAll(), 1)
}

func TestConsoleStopsAtEndOfInput(t *testing.T) {
	c, out, _, _ := newConsole(t, "Email: a@b.com\n")

	session, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, intake.StateCollecting, session.State)
	assert.Contains(t, out.String(), "Please provide your full name.")
}

func TestConsoleCancelled(t *testing.T) {
	c, _, _, _ := newConsole(t, "Email: a@b.com\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
