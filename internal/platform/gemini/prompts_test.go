package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logtriage/triage-api/internal/domain"
)

func TestBuildTriagePrompt_SingleLog(t *testing.T) {
	t.Parallel()

	logs := []domain.LogFile{
		{Content: "ERROR: connection reset by peer", Type: domain.LogTypeBad1},
	}
	answers := map[string]string{
		"usecase_description": "checkout requests fail intermittently",
		"affected_service":    "payments",
	}

	prompt, err := buildTriagePrompt(logs, answers)
	require.NoError(t, err)

	assert.Contains(t, prompt, "## Log File Content")
	assert.Contains(t, prompt, "ERROR: connection reset by peer")
	assert.Contains(t, prompt, "checkout requests fail intermittently")
	// Underscores in answer keys are replaced for readability
	assert.Contains(t, prompt, "- affected service: payments")
	// The description gets its own section, not a bullet
	assert.NotContains(t, prompt, "- usecase description")
	// No comparison instructions for a single log
	assert.NotContains(t, prompt, "**IMPORTANT**")
}

func TestBuildTriagePrompt_Comparison(t *testing.T) {
	t.Parallel()

	logs := []domain.LogFile{
		{Content: "bad run output", Type: domain.LogTypeBad1},
		{Content: "good run output", Type: domain.LogTypeGood},
	}

	prompt, err := buildTriagePrompt(logs, map[string]string{})
	require.NoError(t, err)

	assert.Contains(t, prompt, "## Log Files for Comparison")
	assert.Contains(t, prompt, "### Log File A (Bad Log)")
	assert.Contains(t, prompt, "### Log File B (Good Log - for comparison)")
	assert.Contains(t, prompt, "bad run output")
	assert.Contains(t, prompt, "good run output")
	assert.Contains(t, prompt, "**IMPORTANT**")
	// Missing description falls back to a placeholder
	assert.Contains(t, prompt, "Not provided.")
}

func TestBuildValidatePrompt(t *testing.T) {
	t.Parallel()

	answers := map[string]string{
		"tech_area": "networking",
	}

	prompt, err := buildValidatePrompt(answers, "the pod keeps crashing")
	require.NoError(t, err)

	assert.Contains(t, prompt, `"the pod keeps crashing"`)
	assert.Contains(t, prompt, "- tech area: networking")
	assert.Contains(t, prompt, `"isSufficient"`)
	assert.Contains(t, prompt, `"clarifyingQuestion"`)
}

func TestBuildChatPrompt(t *testing.T) {
	t.Parallel()

	task := &domain.Task{
		ID: "task_1",
		Logs: []domain.LogFile{
			{Content: "OOMKilled", Type: domain.LogTypeBad1},
		},
		Answers: map[string]string{"usecase_description": "worker dies under load"},
		Status:  domain.TaskStatusSuccess,
		Result: &domain.TriageResult{
			Summary:          "The worker runs out of memory.",
			PotentialIssues:  []string{"memory limit too low", "unbounded queue"},
			SuggestedActions: []string{"raise the limit"},
		},
	}
	history := []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "which limit?"},
		{Role: domain.ChatRoleAssistant, Content: "the container memory limit"},
	}

	prompt, err := buildChatPrompt("how do I verify that?", task, history)
	require.NoError(t, err)

	assert.Contains(t, prompt, "worker dies under load")
	assert.Contains(t, prompt, "The worker runs out of memory.")
	assert.Contains(t, prompt, "1. memory limit too low")
	assert.Contains(t, prompt, "2. unbounded queue")
	assert.Contains(t, prompt, "1. raise the limit")
	assert.Contains(t, prompt, "OOMKilled")
	assert.Contains(t, prompt, "## Previous Conversation")
	assert.Contains(t, prompt, "**User**: which limit?")
	assert.Contains(t, prompt, "**Assistant**: the container memory limit")
	assert.Contains(t, prompt, "how do I verify that?")
}

func TestBuildChatPrompt_NoHistory(t *testing.T) {
	t.Parallel()

	task := &domain.Task{
		Logs:    []domain.LogFile{{Content: "x", Type: domain.LogTypeBad1}},
		Answers: map[string]string{},
		Result:  &domain.TriageResult{Summary: "s"},
	}

	prompt, err := buildChatPrompt("hello", task, nil)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "## Previous Conversation")
}

func TestChatLogSection_MultipleLogs(t *testing.T) {
	t.Parallel()

	section := chatLogSection([]domain.LogFile{
		{Content: "aaa", Type: domain.LogTypeBad1},
		{Content: "bbb", Type: domain.LogTypeGood},
	})

	assert.Contains(t, section, "## Original Log Files")
	assert.Contains(t, section, "### Log 1 (bad log)")
	assert.Contains(t, section, "### Log 2 (good log)")
}
