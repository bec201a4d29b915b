package gemini

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/logtriage/triage-api/internal/domain"
)

// descriptionAnswerKey is the answer field carrying the user's own
// description of the issue; it gets its own prompt section.
const descriptionAnswerKey = "usecase_description"

const validatePromptText = `
You are a helpful Senior Site Reliability Engineer (SRE) helping a user describe their technical issue.
The user has provided some initial context and a description of their problem.
Your task is to determine if their description is sufficient for a technical investigation, and if so, summarize it for confirmation.
A good description includes three key elements:
1.  **Action:** What the user was trying to do.
2.  **Observation:** What actually happened (e.g., error message, unexpected behavior).
3.  **Expectation:** What the user expected to happen.

## User Context
{{.Context}}

## User's Problem Description
"{{.Description}}"

Analyze the "User's Problem Description".
- If it clearly contains all three elements (Action, Observation, Expectation), then the description is sufficient. In this case, you MUST create a concise summary of your understanding for the user to confirm.
- If one or more elements are missing or unclear, ask a single, simple, and direct question to get the missing information. For example, if the expectation is missing, ask "What did you expect to happen?".

Please respond in a structured JSON format.
The JSON object must contain three keys:
1.  "isSufficient": A boolean, true if the description is sufficient, false otherwise.
2.  "clarifyingQuestion": A string. If the description is NOT sufficient, this should contain the question to ask the user. If it IS sufficient, this should be an empty string.
3.  "summary": A string. If the description IS sufficient, this should contain your summary. Phrase it as a confirmation. If the description is NOT sufficient, this should be an empty string.
`

const triagePromptText = `
You are an expert Senior Site Reliability Engineer (SRE) performing a log triage.
A user has provided a description of their issue, some context, and one or more log files.
Your task is to analyze the log file(s), identify the root cause, and suggest actionable steps.
{{.ComparisonNote}}

## User's Description of the Issue
{{.Description}}

## Additional Context
{{.OtherContext}}

{{.LogSection}}

Please provide your analysis in a structured JSON format.
The JSON object should contain three keys:
1. "summary": A brief, one-paragraph executive summary of the problem. If a comparison was done, this summary MUST explain the key differences found.
2. "potentialIssues": An array of strings, where each string is a specific error or issue you identified.
3. "suggestedActions": An array of strings, where each string is a clear, actionable step for a developer to take. Prioritize the most likely solutions first. Each action should be a concise instruction.
`

const comparisonNoteText = `
**IMPORTANT**: Multiple log files have been provided for comparison. Your primary goal is to identify the key differences between them that explain the issue. Focus on new errors, missing success messages, different timings, or changes in behavior between the 'good' and 'bad' logs (or between the two 'bad' logs). Your summary should highlight the findings from this comparison.
`

const chatPromptText = `
You are an expert Senior Site Reliability Engineer (SRE) helping a user understand a log triage report.
The user has already received a triage analysis and now has follow-up questions.

## Original Issue Description
{{.Description}}

## Triage Report Summary
{{.Summary}}

## Identified Issues
{{.Issues}}

## Suggested Actions
{{.Actions}}

{{.LogSection}}
{{.Conversation}}

## User's Current Question
{{.Message}}

Please provide a helpful, detailed response to the user's question. You can reference:
- Specific parts of the logs (quote relevant lines)
- The issues identified in the triage report
- The suggested actions
- Technical details about the errors or problems

Be conversational but technically accurate. If the user asks about something not in the logs or report, acknowledge the limitation but provide useful context where possible.
`

var (
	validateTemplate = template.Must(template.New("validate").Parse(validatePromptText))
	triageTemplate   = template.Must(template.New("triage").Parse(triagePromptText))
	chatTemplate     = template.Must(template.New("chat").Parse(chatPromptText))
)

type validatePromptData struct {
	Context     string
	Description string
}

type triagePromptData struct {
	ComparisonNote string
	Description    string
	OtherContext   string
	LogSection     string
}

type chatPromptData struct {
	Description  string
	Summary      string
	Issues       string
	Actions      string
	LogSection   string
	Conversation string
	Message      string
}

// buildValidatePrompt renders the description sufficiency prompt.
func buildValidatePrompt(answers map[string]string, description string) (string, error) {
	return render(validateTemplate, validatePromptData{
		Context:     answersContext(answers, ""),
		Description: description,
	})
}

// buildTriagePrompt renders the analysis prompt. With more than one log
// the prompt switches into comparison mode.
func buildTriagePrompt(logs []domain.LogFile, answers map[string]string) (string, error) {
	data := triagePromptData{
		Description:  descriptionFrom(answers),
		OtherContext: answersContext(answers, descriptionAnswerKey),
		LogSection:   triageLogSection(logs),
	}
	if len(logs) > 1 {
		data.ComparisonNote = strings.TrimSpace(comparisonNoteText)
	}
	return render(triageTemplate, data)
}

// buildChatPrompt renders the follow-up chat prompt with the full report
// context and prior conversation.
func buildChatPrompt(message string, task *domain.Task, history []domain.ChatMessage) (string, error) {
	return render(chatTemplate, chatPromptData{
		Description:  descriptionFrom(task.Answers),
		Summary:      task.Result.Summary,
		Issues:       numberedList(task.Result.PotentialIssues),
		Actions:      numberedList(task.Result.SuggestedActions),
		LogSection:   chatLogSection(task.Logs),
		Conversation: conversationContext(history),
		Message:      message,
	})
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// descriptionFrom pulls the user's issue description out of the answers.
func descriptionFrom(answers map[string]string) string {
	if desc, ok := answers[descriptionAnswerKey]; ok && desc != "" {
		return desc
	}
	return "Not provided."
}

// answersContext renders the remaining answers as a bullet list, with
// underscores in keys replaced for readability. skip names a key to
// leave out (it gets its own section).
func answersContext(answers map[string]string, skip string) string {
	keys := make([]string, 0, len(answers))
	for key := range answers {
		if key != skip {
			keys = append(keys, key)
		}
	}
	// Stable order so prompts are reproducible
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", strings.ReplaceAll(key, "_", " "), answers[key])
	}
	return strings.TrimRight(b.String(), "\n")
}

// triageLogSection renders the log files for the analysis prompt. A
// single log gets a plain section; multiple logs are labeled by kind for
// comparison.
func triageLogSection(logs []domain.LogFile) string {
	if len(logs) == 1 {
		return fmt.Sprintf("## Log File Content\n```\n%s\n```", logs[0].Content)
	}

	var b strings.Builder
	b.WriteString("## Log Files for Comparison\n")
	for _, log := range logs {
		switch log.Type {
		case domain.LogTypeBad1:
			fmt.Fprintf(&b, "\n### Log File A (Bad Log)\n```\n%s\n```\n", log.Content)
		case domain.LogTypeGood:
			fmt.Fprintf(&b, "\n### Log File B (Good Log - for comparison)\n```\n%s\n```\n", log.Content)
		case domain.LogTypeBad2:
			fmt.Fprintf(&b, "\n### Log File C (Second Bad Log - for comparison)\n```\n%s\n```\n", log.Content)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// chatLogSection renders the original logs for the chat prompt.
func chatLogSection(logs []domain.LogFile) string {
	if len(logs) == 1 {
		return fmt.Sprintf("## Original Log File\n```\n%s\n```", logs[0].Content)
	}

	var b strings.Builder
	b.WriteString("## Original Log Files\n")
	for i, log := range logs {
		kind := strings.TrimRight(log.Type, "12")
		fmt.Fprintf(&b, "\n### Log %d (%s log)\n```\n%s\n```\n", i+1, kind, log.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// conversationContext renders prior chat turns, or nothing when the
// conversation is empty.
func conversationContext(history []domain.ChatMessage) string {
	if len(history) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Previous Conversation\n")
	for _, msg := range history {
		label := "Assistant"
		if msg.Role == domain.ChatRoleUser {
			label = "User"
		}
		fmt.Fprintf(&b, "\n**%s**: %s\n", label, msg.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// numberedList renders items as "1. item" lines.
func numberedList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return strings.TrimRight(b.String(), "\n")
}
