package wizard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ficore/internal/scoring"
)

// Question is one quiz catalogue entry. Options outside both answer sets
// contribute nothing to the score.
type Question struct {
	ID       string   `yaml:"id"`
	Prompt   string   `yaml:"prompt"`
	Options  []string `yaml:"options"`
	Weight   int      `yaml:"weight"`
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	Required bool     `yaml:"required"`
}

// DefaultQuestions is the built-in ten-question money-habit catalogue.
func DefaultQuestions() []Question {
	yesNo := []string{"Yes", "No"}
	q := func(id int, prompt string) Question {
		return Question{
			ID:       fmt.Sprintf("question_%d", id),
			Prompt:   prompt,
			Options:  yesNo,
			Weight:   1,
			Positive: []string{"Yes"},
			Negative: []string{"No"},
			Required: true,
		}
	}
	return []Question{
		q(1, "Do you track your money in and out every month?"),
		q(2, "Do you save a part of your income before spending?"),
		q(3, "Do you have a written budget or spending plan?"),
		q(4, "Do you compare prices before big purchases?"),
		q(5, "Do you set aside money for emergencies?"),
		q(6, "Do you review your expenses at the end of the month?"),
		q(7, "Do you avoid borrowing for daily needs?"),
		q(8, "Do you plan for large expenses ahead of time?"),
		q(9, "Do you know how much debt you currently owe?"),
		q(10, "Do you put spare money toward a savings goal?"),
	}
}

// LoadQuestions reads a catalogue from a YAML file. The file must carry
// exactly ten questions so the population schema's answer columns line up.
func LoadQuestions(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	var out []Question
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}
	if len(out) != 10 {
		return nil, fmt.Errorf("questions file has %d questions, need 10", len(out))
	}
	for i, q := range out {
		if q.ID == "" || q.Prompt == "" {
			return nil, fmt.Errorf("question %d missing id or prompt", i+1)
		}
		if q.Weight == 0 {
			out[i].Weight = 1
		}
	}
	return out, nil
}

// Prompts returns the catalogue's prompts in order.
func Prompts(questions []Question) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.Prompt
	}
	return out
}

// AnswersInOrder lines the draft's answers up with the catalogue order.
// Unanswered questions yield empty cells.
func AnswersInOrder(questions []Question, answers map[string]string) []string {
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = answers[q.ID]
	}
	return out
}

// Entries pairs each catalogue question with the answer given, ready for
// scoring.
func Entries(questions []Question, answers map[string]string) []scoring.QuizEntry {
	out := make([]scoring.QuizEntry, len(questions))
	for i, q := range questions {
		out[i] = scoring.QuizEntry{
			Answer:   answers[q.ID],
			Weight:   q.Weight,
			Positive: q.Positive,
			Negative: q.Negative,
		}
	}
	return out
}
