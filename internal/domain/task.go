package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the lifecycle state of a triage task
type TaskStatus string

// Possible task status values. Success and failed are terminal:
// once a task reaches either, its status never changes again.
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusSuccess    TaskStatus = "SUCCESS"
	TaskStatusFailed     TaskStatus = "FAILED"
)

// Log file type constants. A submission carries either a single log or a
// good/bad pair (plus an optional second bad log) for comparison.
const (
	LogTypeBad1 = "bad1"
	LogTypeGood = "good"
	LogTypeBad2 = "bad2"
)

// Chat roles for conversation turns stored on a completed task.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrNoLogs          = errors.New("task must contain at least one log file")
	ErrEmptyLogContent = errors.New("log file content cannot be empty")
	ErrInvalidLogType  = errors.New("invalid log file type")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidChatRole = errors.New("invalid chat role")
)

// LogFile is one uploaded log to be analyzed.
type LogFile struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// TriageResult is the structured outcome of a completed analysis.
type TriageResult struct {
	Summary          string   `json:"summary"`
	PotentialIssues  []string `json:"potential_issues"`
	SuggestedActions []string `json:"suggested_actions"`
}

// ValidationResult reports whether an issue description is sufficient
// for investigation, and carries either a clarifying question or a
// confirmation summary.
type ValidationResult struct {
	IsSufficient       bool   `json:"is_sufficient"`
	ClarifyingQuestion string `json:"clarifying_question"`
	Summary            string `json:"summary"`
}

// ChatMessage is a single turn in a task's follow-up conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Task tracks one triage request through its lifecycle. The task package
// owns all Task instances; everything handed to callers is a deep copy,
// so a Task held outside the store can be read and mutated freely without
// affecting tracked state.
type Task struct {
	ID           string            `json:"id"`
	Logs         []LogFile         `json:"logs"`
	Answers      map[string]string `json:"answers"`
	Status       TaskStatus        `json:"status"`
	Message      string            `json:"message"`
	Result       *TriageResult     `json:"result,omitempty"`
	Conversation []ChatMessage     `json:"conversation,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewTask creates a pending Task with the given id and immutable inputs.
// Returns an error if validation fails.
func NewTask(id string, logs []LogFile, answers map[string]string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        id,
		Logs:      logs,
		Answers:   answers,
		Status:    TaskStatusPending,
		Message:   "Task submitted",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrEmptyTaskID
	}

	if len(t.Logs) == 0 {
		return ErrNoLogs
	}

	for _, log := range t.Logs {
		if log.Content == "" {
			return ErrEmptyLogContent
		}
		if !isValidLogType(log.Type) {
			return ErrInvalidLogType
		}
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidStatus
	}

	return nil
}

// Terminal reports whether the task has reached a final state.
func (t *Task) Terminal() bool {
	return t.Status == TaskStatusSuccess || t.Status == TaskStatusFailed
}

// Clone returns a deep copy of the task. Slices and maps are copied so
// the clone shares no mutable state with the original.
func (t *Task) Clone() *Task {
	clone := *t

	clone.Logs = make([]LogFile, len(t.Logs))
	copy(clone.Logs, t.Logs)

	if t.Answers != nil {
		clone.Answers = make(map[string]string, len(t.Answers))
		for k, v := range t.Answers {
			clone.Answers[k] = v
		}
	}

	if t.Result != nil {
		result := TriageResult{
			Summary:          t.Result.Summary,
			PotentialIssues:  append([]string(nil), t.Result.PotentialIssues...),
			SuggestedActions: append([]string(nil), t.Result.SuggestedActions...),
		}
		clone.Result = &result
	}

	if t.Conversation != nil {
		clone.Conversation = make([]ChatMessage, len(t.Conversation))
		copy(clone.Conversation, t.Conversation)
	}

	return &clone
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusProcessing, TaskStatusSuccess, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// isValidLogType checks if the given log type is one of the known kinds.
func isValidLogType(logType string) bool {
	switch logType {
	case LogTypeBad1, LogTypeGood, LogTypeBad2:
		return true
	default:
		return false
	}
}
