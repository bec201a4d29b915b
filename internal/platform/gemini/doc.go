// Package gemini implements the triage interfaces using Google's Gemini
// API: structured-output log analysis, issue description validation, and
// free-text chat about completed reports.
package gemini
