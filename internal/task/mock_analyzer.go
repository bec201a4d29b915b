package task

import (
	"context"
	"sync"

	"github.com/logtriage/triage-api/internal/domain"
)

// MockAnalyzer is a controllable triage.Analyzer implementation for tests.
// Set AnalyzeFn to script behavior; Calls reports how many times the
// analyzer was invoked, which lets tests verify that cancelled tasks
// never reach it.
type MockAnalyzer struct {
	// AnalyzeFn is called by Analyze when set. When nil, Analyze returns
	// an empty result.
	AnalyzeFn func(ctx context.Context, logs []domain.LogFile, answers map[string]string) (*domain.TriageResult, error)

	mu    sync.Mutex
	calls int
}

// Analyze implements triage.Analyzer.
func (m *MockAnalyzer) Analyze(
	ctx context.Context,
	logs []domain.LogFile,
	answers map[string]string,
) (*domain.TriageResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.AnalyzeFn != nil {
		return m.AnalyzeFn(ctx, logs, answers)
	}
	return &domain.TriageResult{Summary: "mock analysis"}, nil
}

// Calls returns the number of times Analyze has been invoked.
func (m *MockAnalyzer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
