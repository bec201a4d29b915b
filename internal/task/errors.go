package task

import "errors"

// Common errors returned by the task package
var (
	// ErrDuplicateID is returned when inserting a task whose id is already
	// tracked by the store. With the timestamp+random id scheme this should
	// never happen in practice.
	ErrDuplicateID = errors.New("task ID already exists")

	// ErrIDGeneration is returned when the entropy source fails while
	// generating a task id.
	ErrIDGeneration = errors.New("failed to generate task ID")
)
