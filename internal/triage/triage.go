package triage

import (
	"context"

	"github.com/logtriage/triage-api/internal/domain"
)

// Analyzer defines the interface for performing log triage analysis.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Analyzer interface {
	// Analyze inspects the provided log files together with the user's
	// answers and produces a structured triage result. The call may take
	// seconds to minutes; implementations must honor ctx cancellation.
	//
	// Returns a TriageResult or an error describing why analysis failed
	// (see errors.go for specific types).
	Analyze(ctx context.Context, logs []domain.LogFile, answers map[string]string) (*domain.TriageResult, error)
}

// Validator checks whether a user's issue description contains enough
// detail for a technical investigation.
type Validator interface {
	// ValidateDescription returns a ValidationResult carrying either a
	// confirmation summary (sufficient) or a single clarifying question
	// (insufficient).
	ValidateDescription(ctx context.Context, answers map[string]string, description string) (*domain.ValidationResult, error)
}

// ChatResponder answers follow-up questions about a completed triage
// report, grounded in the original logs, answers, and result.
type ChatResponder interface {
	// Chat produces a free-text answer to the user's message given the
	// completed task (result, logs, answers) and prior conversation turns.
	Chat(ctx context.Context, message string, task *domain.Task, history []domain.ChatMessage) (string, error)
}
