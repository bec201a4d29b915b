package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/logtriage/triage-api/internal/domain"
	"github.com/logtriage/triage-api/internal/triage"
)

// Status messages surfaced to clients on status polls.
const (
	msgSubmitted  = "Task submitted"
	msgProcessing = "AI is reviewing the logs..."
	msgComplete   = "Complete"
	msgCancelled  = "Task cancelled by user."
	msgNotFound   = "Task not found."
)

// ManagerConfig holds configuration for the task manager
type ManagerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// Retention defines how long terminal tasks are kept before the
	// janitor evicts them. Zero disables eviction and the store grows
	// for the life of the process.
	Retention time.Duration

	// SweepInterval defines how often the janitor looks for evictable
	// tasks. If zero, defaults to 1 minute.
	SweepInterval time.Duration
}

// DefaultManagerConfig returns a ManagerConfig with reasonable defaults
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WorkerCount:   2,
		QueueSize:     100,
		Retention:     30 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// Manager orchestrates the triage task lifecycle: creation, background
// execution against the analyzer, cancellation, and status queries. It is
// the sole owner of state-transition logic; every write funnels through
// the store's Transition primitive.
type Manager struct {
	store      *Store
	analyzer   triage.Analyzer
	queue      chan string
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     ManagerConfig
	logger     *slog.Logger

	// inFlight tracks the cancel function of each running analysis so a
	// user cancel can tear the call down early. Propagation is best
	// effort only; correctness rests on the store transitions.
	inFlightMu sync.Mutex
	inFlight   map[string]context.CancelFunc
}

// NewManager creates a new Manager.
func NewManager(store *Store, analyzer triage.Analyzer, config ManagerConfig, logger *slog.Logger) *Manager {
	if config.SweepInterval == 0 {
		config.SweepInterval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		store:      store,
		analyzer:   analyzer,
		queue:      make(chan string, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		inFlight:   make(map[string]context.CancelFunc),
	}
}

// Start launches the worker pool and, when retention is configured, the
// eviction janitor.
func (m *Manager) Start() {
	for i := 0; i < m.config.WorkerCount; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	if m.config.Retention > 0 {
		m.wg.Add(1)
		go m.janitor()
	}
}

// Stop gracefully shuts down the manager. In-flight analysis calls are
// cancelled through their contexts; tasks interrupted this way end up
// FAILED with the analyzer's error message.
func (m *Manager) Stop() {
	m.cancelFunc()
	m.wg.Wait()
}

// CreateTask stores a new pending task for the given inputs and returns
// its id immediately. It does not invoke analysis; call ScheduleExecution
// with the returned id to start background processing.
func (m *Manager) CreateTask(logs []domain.LogFile, answers map[string]string) (string, error) {
	id, err := newTaskID()
	if err != nil {
		return "", err
	}

	task, err := domain.NewTask(id, logs, answers)
	if err != nil {
		return "", err
	}

	if err := m.store.Insert(task); err != nil {
		return "", err
	}

	m.logger.Info("task created", "task_id", id, "log_count", len(logs))
	return id, nil
}

// ScheduleExecution enqueues asynchronous execution of the task without
// blocking the caller. Must be invoked exactly once per task, after
// CreateTask. Failures inside the background path never surface here;
// callers observe them via status polls.
func (m *Manager) ScheduleExecution(id string) {
	select {
	case m.queue <- id:
	default:
		// Queue is saturated. Hand off to a goroutine so the caller is
		// never blocked; the task stays PENDING until a worker frees up.
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			select {
			case m.queue <- id:
			case <-m.ctx.Done():
			}
		}()
	}
}

// GetStatus returns the task's status, message, and result if available.
// An unknown id reports FAILED with a not-found message rather than an
// error; it is a reportable outcome, not a system fault.
func (m *Manager) GetStatus(id string) (domain.TaskStatus, string, *domain.TriageResult) {
	task, ok := m.store.Get(id)
	if !ok {
		return domain.TaskStatusFailed, msgNotFound, nil
	}
	return task.Status, task.Message, task.Result
}

// Cancel moves a pending or processing task to FAILED and reports whether
// the transition took effect. Cancelling a terminal or unknown task is a
// no-op returning false, not an error. Once cancelled, a late success or
// failure from the in-flight analysis is discarded: cancel always wins.
func (m *Manager) Cancel(id string) bool {
	cancelled := m.store.Transition(id,
		func(status domain.TaskStatus) bool {
			return status == domain.TaskStatusPending || status == domain.TaskStatusProcessing
		},
		func(task *domain.Task) {
			task.Status = domain.TaskStatusFailed
			task.Message = msgCancelled
			task.Result = nil
		})

	if cancelled {
		m.logger.Info("task cancelled", "task_id", id)
		// Tear down the analysis call if one is running. The visible
		// state is already terminal either way.
		m.inFlightMu.Lock()
		cancelRun := m.inFlight[id]
		m.inFlightMu.Unlock()
		if cancelRun != nil {
			cancelRun()
		}
	}

	return cancelled
}

// AppendConversationTurn appends a chat turn to the task's conversation
// log and reports whether the task exists. It does not check the task's
// status; the chat handler gates on GetTaskForChat first.
func (m *Manager) AppendConversationTurn(id, role, content string) bool {
	return m.store.Transition(id,
		func(domain.TaskStatus) bool { return true },
		func(task *domain.Task) {
			task.Conversation = append(task.Conversation, domain.ChatMessage{
				Role:    role,
				Content: content,
			})
		})
}

// GetTaskForChat returns a snapshot of the task only when it has
// completed successfully; otherwise it returns false, signaling that
// chat is unavailable.
func (m *Manager) GetTaskForChat(id string) (*domain.Task, bool) {
	task, ok := m.store.Get(id)
	if !ok || task.Status != domain.TaskStatusSuccess {
		return nil, false
	}
	return task, true
}

// worker consumes task ids from the queue until shutdown.
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	m.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Debug("stopping worker", "worker_id", id)
			return

		case taskID := <-m.queue:
			m.runTask(taskID)
		}
	}
}

// runTask drives one task through PROCESSING to a terminal state. Every
// failure is absorbed into task state; nothing escapes the worker.
func (m *Manager) runTask(id string) {
	logger := m.logger.With("task_id", id)

	// First race guard: only a still-pending task may start. A task
	// cancelled before a worker picked it up never reaches the analyzer.
	started := m.store.Transition(id,
		func(status domain.TaskStatus) bool { return status == domain.TaskStatusPending },
		func(task *domain.Task) {
			task.Status = domain.TaskStatusProcessing
			task.Message = msgProcessing
		})
	if !started {
		logger.Debug("skipping task, no longer pending")
		return
	}

	snapshot, ok := m.store.Get(id)
	if !ok {
		logger.Warn("task evicted before execution")
		return
	}

	ctx, cancelRun := context.WithCancel(m.ctx)
	defer cancelRun()

	m.inFlightMu.Lock()
	m.inFlight[id] = cancelRun
	m.inFlightMu.Unlock()
	defer func() {
		m.inFlightMu.Lock()
		delete(m.inFlight, id)
		m.inFlightMu.Unlock()
	}()

	logger.Info("processing task")
	result, err := m.analyzer.Analyze(ctx, snapshot.Logs, snapshot.Answers)

	if err != nil {
		logger.Error("analysis failed", "error", err)
		// Second race guard: a task cancelled mid-flight is already
		// FAILED and keeps its cancellation message.
		applied := m.store.Transition(id,
			func(status domain.TaskStatus) bool { return status == domain.TaskStatusProcessing },
			func(task *domain.Task) {
				task.Status = domain.TaskStatusFailed
				task.Message = "Analysis failed: " + err.Error()
			})
		if !applied {
			logger.Debug("discarding analysis error, task already terminal")
		}
		return
	}

	applied := m.store.Transition(id,
		func(status domain.TaskStatus) bool { return status == domain.TaskStatusProcessing },
		func(task *domain.Task) {
			task.Status = domain.TaskStatusSuccess
			task.Message = msgComplete
			task.Result = result
		})
	if applied {
		logger.Info("task completed successfully")
	} else {
		// Cancellation claimed the terminal state while the analysis was
		// in flight; the computed result is discarded.
		logger.Info("discarding analysis result, task already terminal")
	}
}

// janitor periodically evicts terminal tasks older than the retention
// window so the store does not grow unboundedly.
func (m *Manager) janitor() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return

		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-m.config.Retention)
			if evicted := m.store.EvictTerminalBefore(cutoff); evicted > 0 {
				m.logger.Info("evicted expired tasks",
					"count", evicted,
					"remaining", m.store.Len())
			}
		}
	}
}
