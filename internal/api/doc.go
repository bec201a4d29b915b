// Package api contains the HTTP handlers, request/response models, and
// transport-level helpers that expose the triage service over REST.
package api
