package task

import (
	"sync"
	"time"

	"github.com/logtriage/triage-api/internal/domain"
)

// Store is a concurrency-safe in-memory collection of tasks keyed by id.
// It exclusively owns every task it holds: Insert and Get exchange deep
// copies, and all writes go through Transition, so no caller can mutate
// tracked state outside the lock.
type Store struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		tasks: make(map[string]*domain.Task),
	}
}

// Insert adds a new task to the store. Returns ErrDuplicateID if a task
// with the same id is already tracked.
func (s *Store) Insert(task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return ErrDuplicateID
	}

	s.tasks[task.ID] = task.Clone()
	return nil
}

// Get returns a consistent snapshot of the task with the given id, or
// false if the id is unknown. The snapshot is a deep copy; mutating it
// does not affect the stored task.
func (s *Store) Get(id string) (*domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, false
	}
	return task.Clone(), true
}

// Transition is the sole write path for tracked tasks. It atomically
// evaluates predicate against the task's current status and, only if it
// returns true, applies mutate and reports true. When the id is unknown
// or the predicate rejects, nothing changes and Transition reports false.
//
// The lock is held only for the check-and-set itself, never across any
// external call, which is what keeps cancellation and status polls
// responsive while an analysis is in flight.
func (s *Store) Transition(id string, predicate func(domain.TaskStatus) bool, mutate func(*domain.Task)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return false
	}

	if !predicate(task.Status) {
		return false
	}

	mutate(task)
	task.UpdatedAt = time.Now().UTC()
	return true
}

// Len returns the number of tracked tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// EvictTerminalBefore removes terminal tasks whose last update is older
// than cutoff and returns how many were evicted. Pending and processing
// tasks are never evicted.
func (s *Store) EvictTerminalBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, task := range s.tasks {
		if task.Terminal() && task.UpdatedAt.Before(cutoff) {
			delete(s.tasks, id)
			evicted++
		}
	}
	return evicted
}
