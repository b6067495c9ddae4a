package prompts

import (
	"fmt"
	"strings"
)

const questionPromptTemplate = `Generate %[1]d technical screening questions for each technology listed.

Candidate name: %[2]s
Technologies (comma-separated): %[3]s

For each technology produce %[1]d question objects with fields:
- question: short question text
- difficulty: one of [easy, medium, hard]
- area: one short tag (e.g., syntax, architecture, performance, database, debugging, algorithms)

Return exactly valid JSON like:
{
  "Python": [
    { "question": "...", "difficulty": "medium", "area": "syntax" },
    ...
  ],
  "Django": [ ... ]
}

Use the technology names exactly as listed above as the JSON keys.
Do NOT include answers, do NOT include extra commentary outside the JSON.`

// GenerateQuestionPrompt builds the user prompt asking for count questions per technology.
func GenerateQuestionPrompt(candidateName string, technologies []string, count int) string {
	if strings.TrimSpace(candidateName) == "" {
		candidateName = "Candidate"
	}
	return fmt.Sprintf(questionPromptTemplate, count, candidateName, strings.Join(technologies, ", "))
}
