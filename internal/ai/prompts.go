package ai

import "fmt"

func SummaryPrompt(resume string) string {
	return fmt.Sprintf("Need a detailed summarization of the following resume and finally conclude:\n\n%s", resume)
}

func StrengthsPrompt(summary string) string {
	return fmt.Sprintf("Need a detailed analysis explaining the strengths of the following resume and conclude:\n\n%s", summary)
}

func WeaknessesPrompt(summary string) string {
	return fmt.Sprintf("Need a detailed analysis explaining the weaknesses of the following resume and how to improve it:\n\n%s", summary)
}

func JobTitlesPrompt(summary string) string {
	return fmt.Sprintf("Suggest job roles I can apply to on LinkedIn based on the following resume:\n\n%s", summary)
}

// WithResume appends the resume text to a prompt, which is what every
// analysis sends to the model.
func WithResume(prompt, resume string) string {
	return prompt + "\n\n" + resume
}
