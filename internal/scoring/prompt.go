package scoring

import (
	_ "embed"
	"strings"
)

//go:embed prompt.md
var systemPrompt string

// SystemPrompt is the fixed instruction that asks the model for a summary, a resume
// quality score, a final 1-10 score and a competency table.
var SystemPrompt = strings.TrimSuffix(systemPrompt, "\n")

// Prompt is the system/user message pair sent to the model unchanged.
type Prompt struct {
	System string
	User   string
}

// UserMessage joins the job description and the CV under their section headers.
func UserMessage(jobDescription, cv string) string {
	return "# ВАКАНСИЯ\n" + jobDescription + "\n\n # РЕЗЮМЕ\n" + cv
}

func NewPrompt(jobDescription, cv string) Prompt {
	return Prompt{
		System: SystemPrompt,
		User:   UserMessage(jobDescription, cv),
	}
}
