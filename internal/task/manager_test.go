package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logtriage/triage-api/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func testInputs() ([]domain.LogFile, map[string]string) {
	logs := []domain.LogFile{
		{Content: "ERROR: disk full", Type: domain.LogTypeBad1},
	}
	answers := map[string]string{"usecase_description": "uploads fail"}
	return logs, answers
}

func newTestManager(t *testing.T, analyzer *MockAnalyzer) *Manager {
	t.Helper()

	config := DefaultManagerConfig()
	config.Retention = 0 // keep the janitor out of lifecycle tests
	return NewManager(NewStore(), analyzer, config, discardLogger())
}

func TestManager_CreateTask(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &MockAnalyzer{})
	logs, answers := testInputs()

	id, err := manager.CreateTask(logs, answers)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// Status immediately after creation is PENDING with no result
	status, message, result := manager.GetStatus(id)
	assert.Equal(t, domain.TaskStatusPending, status)
	assert.Equal(t, "Task submitted", message)
	assert.Nil(t, result)

	t.Run("invalid input", func(t *testing.T) {
		_, err := manager.CreateTask(nil, answers)
		assert.ErrorIs(t, err, domain.ErrNoLogs)
	})
}

func TestManager_GetStatus_UnknownID(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &MockAnalyzer{})

	status, message, result := manager.GetStatus("task_never_created")
	assert.Equal(t, domain.TaskStatusFailed, status)
	assert.Equal(t, "Task not found.", message)
	assert.Nil(t, result)
}

func TestManager_HappyPath(t *testing.T) {
	t.Parallel()

	want := &domain.TriageResult{
		Summary:          "X",
		PotentialIssues:  []string{"a"},
		SuggestedActions: []string{"b"},
	}

	release := make(chan struct{})
	analyzer := &MockAnalyzer{
		AnalyzeFn: func(ctx context.Context, logs []domain.LogFile, answers map[string]string) (*domain.TriageResult, error) {
			<-release
			return want, nil
		},
	}

	manager := newTestManager(t, analyzer)
	manager.Start()
	defer manager.Stop()

	logs, answers := testInputs()
	id, err := manager.CreateTask(logs, answers)
	require.NoError(t, err)
	manager.ScheduleExecution(id)

	// Poll before the analysis resolves: PROCESSING, no result
	require.Eventually(t, func() bool {
		status, _, _ := manager.GetStatus(id)
		return status == domain.TaskStatusProcessing
	}, 2*time.Second, 5*time.Millisecond)

	status, message, result := manager.GetStatus(id)
	assert.Equal(t, domain.TaskStatusProcessing, status)
	assert.Equal(t, "AI is reviewing the logs...", message)
	assert.Nil(t, result)

	// Let the analysis finish and poll again
	close(release)
	require.Eventually(t, func() bool {
		status, _, _ := manager.GetStatus(id)
		return status == domain.TaskStatusSuccess
	}, 2*time.Second, 5*time.Millisecond)

	status, message, result = manager.GetStatus(id)
	assert.Equal(t, domain.TaskStatusSuccess, status)
	assert.Equal(t, "Complete", message)
	require.NotNil(t, result)
	assert.Equal(t, *want, *result)
	assert.Equal(t, 1, analyzer.Calls())
}

func TestManager_AnalysisFailure(t *testing.T) {
	t.Parallel()

	analyzer := &MockAnalyzer{
		AnalyzeFn: func(ctx context.Context, logs []domain.LogFile, answers map[string]string) (*domain.TriageResult, error) {
			return nil, errors.New("model unavailable")
		},
	}

	manager := newTestManager(t, analyzer)
	logs, answers := testInputs()
	id, err := manager.CreateTask(logs, answers)
	require.NoError(t, err)

	manager.runTask(id)

	status, message, result := manager.GetStatus(id)
	assert.Equal(t, domain.TaskStatusFailed, status)
	assert.Equal(t, "Analysis failed: model unavailable", message)
	assert.Nil(t, result)
}

func TestManager_CancelPendingTask(t *testing.T) {
	t.Parallel()

	analyzer := &MockAnalyzer{}
	manager := newTestManager(t, analyzer)
	logs, answers := testInputs()
	id, err := manager.CreateTask(logs, answers)
	require.NoError(t, err)

	cancelled := manager.Cancel(id)
	assert.True(t, cancelled)

	// A worker picking the task up afterwards must not invoke the analyzer
	manager.runTask(id)

	status, message, result := manager.GetStatus(id)
	assert.Equal(t, domain.TaskStatusFailed, status)
	assert.Equal(t, "Task cancelled by user.", message)
	assert.Nil(t, result)
	assert.Equal(t, 0, analyzer.Calls())
}

func TestManager_CancelWhileProcessing(t *testing.T) {
	t.Parallel()

	want := &domain.TriageResult{Summary: "late result"}
	release := make(chan struct{})
	analyzer := &MockAnalyzer{
		// Ignores ctx on purpose: the analysis "succeeds" after the user
		// already cancelled, and the result must be discarded.
		AnalyzeFn: func(ctx context.Context, logs []domain.LogFile, answers map[string]string) (*domain.TriageResult, error) {
			<-release
			return want, nil
		},
	}

	manager := newTestManager(t, analyzer)
	logs, answers := testInputs()
	id, err := manager.CreateTask(logs, answers)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		manager.runTask(id)
		close(done)
	}()

	require.Eventually(t, func() bool {
		status, _, _ := manager.GetStatus(id)
		return status == domain.TaskStatusProcessing
	}, 2*time.Second, 5*time.Millisecond)

	cancelled := manager.Cancel(id)
	assert.True(t, cancelled)

	// Late success arrives after cancellation
	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runTask did not return after analyzer resolved")
	}

	status, message, result := manager.GetStatus(id)
	assert.Equal(t, domain.TaskStatusFailed, status)
	assert.Equal(t, "Task cancelled by user.", message)
	assert.Nil(t, result, "late analysis result must be discarded")
	assert.Equal(t, 1, analyzer.Calls())
}

func TestManager_CancelTerminalTask(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &MockAnalyzer{})
	logs, answers := testInputs()
	id, err := manager.CreateTask(logs, answers)
	require.NoError(t, err)

	manager.runTask(id)

	status, message, result := manager.GetStatus(id)
	require.Equal(t, domain.TaskStatusSuccess, status)

	cancelled := manager.Cancel(id)
	assert.False(t, cancelled, "cancel on a terminal task is a no-op")

	// Message and result are untouched
	statusAfter, messageAfter, resultAfter := manager.GetStatus(id)
	assert.Equal(t, status, statusAfter)
	assert.Equal(t, message, messageAfter)
	assert.Equal(t, result, resultAfter)
}

func TestManager_TerminalStateIsFinal(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &MockAnalyzer{})
	logs, answers := testInputs()
	id, err := manager.CreateTask(logs, answers)
	require.NoError(t, err)

	manager.runTask(id)

	status, _, result := manager.GetStatus(id)
	require.Equal(t, domain.TaskStatusSuccess, status)
	require.NotNil(t, result)

	// Running the task again must not move it out of SUCCESS
	manager.runTask(id)

	statusAgain, _, resultAgain := manager.GetStatus(id)
	assert.Equal(t, domain.TaskStatusSuccess, statusAgain)
	assert.Equal(t, result, resultAgain)
}

func TestManager_Cancel_UnknownID(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &MockAnalyzer{})
	assert.False(t, manager.Cancel("task_never_created"))
}

func TestManager_GetTaskForChat(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	analyzer := &MockAnalyzer{
		AnalyzeFn: func(ctx context.Context, logs []domain.LogFile, answers map[string]string) (*domain.TriageResult, error) {
			<-release
			return &domain.TriageResult{Summary: "done"}, nil
		},
	}

	manager := newTestManager(t, analyzer)
	logs, answers := testInputs()
	id, err := manager.CreateTask(logs, answers)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		manager.runTask(id)
		close(done)
	}()

	require.Eventually(t, func() bool {
		status, _, _ := manager.GetStatus(id)
		return status == domain.TaskStatusProcessing
	}, 2*time.Second, 5*time.Millisecond)

	// Chat is unavailable while the task is still processing
	_, ok := manager.GetTaskForChat(id)
	assert.False(t, ok)

	close(release)
	<-done

	chatTask, ok := manager.GetTaskForChat(id)
	require.True(t, ok)
	assert.Equal(t, id, chatTask.ID)
	require.NotNil(t, chatTask.Result)
	assert.Equal(t, "done", chatTask.Result.Summary)
	assert.Equal(t, logs, chatTask.Logs)
}

func TestManager_AppendConversationTurn(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &MockAnalyzer{})
	logs, answers := testInputs()
	id, err := manager.CreateTask(logs, answers)
	require.NoError(t, err)
	manager.runTask(id)

	assert.True(t, manager.AppendConversationTurn(id, domain.ChatRoleUser, "what broke?"))
	assert.True(t, manager.AppendConversationTurn(id, domain.ChatRoleAssistant, "the disk filled up"))
	assert.False(t, manager.AppendConversationTurn("task_never_created", domain.ChatRoleUser, "hi"))

	chatTask, ok := manager.GetTaskForChat(id)
	require.True(t, ok)
	require.Len(t, chatTask.Conversation, 2)
	assert.Equal(t, domain.ChatRoleUser, chatTask.Conversation[0].Role)
	assert.Equal(t, "what broke?", chatTask.Conversation[0].Content)
	assert.Equal(t, domain.ChatRoleAssistant, chatTask.Conversation[1].Role)
}

func TestManager_StartAndStop(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t, &MockAnalyzer{})
	manager.Start()

	logs, answers := testInputs()
	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := manager.CreateTask(logs, answers)
		require.NoError(t, err)
		manager.ScheduleExecution(id)
		ids = append(ids, id)
	}

	require.Eventually(t, func() bool {
		for _, id := range ids {
			status, _, _ := manager.GetStatus(id)
			if status != domain.TaskStatusSuccess {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)

	manager.Stop()
}
