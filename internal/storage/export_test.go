package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleQuestions() QuestionSet {
	return QuestionSet{
		{Technology: "Python", Questions: []Question{
			{Question: "Explain the GIL.", Difficulty: DifficultyHard, Area: "concurrency"},
			{Question: "What is a decorator?", Difficulty: DifficultyEasy, Area: "language"},
		}},
		{Technology: "SQL", Questions: []Question{
			{Question: "What does GROUP BY do?", Difficulty: DifficultyEasy, Area: "queries"},
		}},
	}
}

func TestBuildRows(t *testing.T) {
	answers := AnswerSet{}
	answers.Set("Python", 2, "A function wrapper")
	answers.Set("SQL", 1, "Aggregates rows")

	rows := BuildRows(sampleQuestions(), answers)
	assert.Equal(t, []ExportRow{
		{Technology: "Python", Question: "Explain the GIL.", Answer: ""},
		{Technology: "Python", Question: "What is a decorator?", Answer: "A function wrapper"},
		{Technology: "SQL", Question: "What does GROUP BY do?", Answer: "Aggregates rows"},
	}, rows)
}

func TestExportCSV(t *testing.T) {
	answers := AnswerSet{}
	answers.Set("Python", 1, "It serializes bytecode, \"mostly\",\nacross threads")

	data, err := ExportCSV(BuildRows(sampleQuestions(), answers))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Technology", "Question", "Answer"}, records[0])
	assert.Equal(t, "It serializes bytecode, \"mostly\",\nacross threads", records[1][2])
}

func TestExportCSVEmpty(t *testing.T) {
	data, err := ExportCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Technology,Question,Answer\n", string(data))
}

func TestExportJSON(t *testing.T) {
	answers := AnswerSet{}
	answers.Set("SQL", 1, "Aggregates rows")

	data, err := ExportJSON(BuildRows(sampleQuestions(), answers))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"Technology\": \"Python\"")

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "Aggregates rows", rows[2]["Answer"])

	empty, err := ExportJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestExportIsIdempotent(t *testing.T) {
	answers := AnswerSet{}
	answers.Set("Python", 1, "answer")
	rows := BuildRows(sampleQuestions(), answers)

	first, err := ExportCSV(rows)
	require.NoError(t, err)
	second, err := ExportCSV(BuildRows(sampleQuestions(), answers))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstJSON, err := ExportJSON(rows)
	require.NoError(t, err)
	secondJSON, err := ExportJSON(rows)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestExportXLSX(t *testing.T) {
	answers := AnswerSet{}
	answers.Set("SQL", 1, "Aggregates rows")

	data, err := ExportXLSX(BuildRows(sampleQuestions(), answers))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Answers")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Technology", "Question", "Answer"}, rows[0])
	assert.Equal(t, []string{"SQL", "What does GROUP BY do?", "Aggregates rows"}, rows[3])
}
