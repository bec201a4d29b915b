// Package triage defines the interfaces to the AI services that perform
// log analysis, description validation, and report chat. Implementations
// live under internal/platform; the application core depends only on
// these interfaces.
package triage
