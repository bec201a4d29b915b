// Package task manages the asynchronous triage task lifecycle: creation,
// background execution against an analyzer, race-safe cancellation, and
// status reporting. The Store's compare-and-mutate Transition primitive
// is the single write path for task state, which keeps a user cancel and
// a concurrently completing analysis consistent without holding any lock
// across the (slow) analysis call.
package task
