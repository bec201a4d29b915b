package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"google.golang.org/genai"

	"github.com/logtriage/triage-api/internal/config"
	"github.com/logtriage/triage-api/internal/domain"
	"github.com/logtriage/triage-api/internal/triage"
)

// Service implements the triage interfaces (Analyzer, Validator,
// ChatResponder) using Google's Gemini API.
type Service struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

var (
	_ triage.Analyzer      = (*Service)(nil)
	_ triage.Validator     = (*Service)(nil)
	_ triage.ChatResponder = (*Service)(nil)
)

// NewService creates a Gemini-backed triage service.
//
// Parameters:
//   - ctx: Context for client initialization
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and retry settings
//
// Returns a properly initialized Service or an error if initialization fails.
func NewService(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Service, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", triage.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", triage.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", triage.ErrInvalidConfig, err)
	}

	return &Service{
		logger: logger,
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Analyze performs log triage analysis with structured JSON output.
func (s *Service) Analyze(
	ctx context.Context,
	logs []domain.LogFile,
	answers map[string]string,
) (*domain.TriageResult, error) {
	prompt, err := buildTriagePrompt(logs, answers)
	if err != nil {
		return nil, err
	}

	text, err := s.generateWithRetry(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   triageResponseSchema,
	})
	if err != nil {
		return nil, err
	}

	var parsed triageResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", triage.ErrInvalidResponse, err)
	}

	s.logger.InfoContext(ctx, "triage analysis complete",
		"issue_count", len(parsed.PotentialIssues),
		"action_count", len(parsed.SuggestedActions))

	return &domain.TriageResult{
		Summary:          parsed.Summary,
		PotentialIssues:  parsed.PotentialIssues,
		SuggestedActions: parsed.SuggestedActions,
	}, nil
}

// ValidateDescription checks whether the user's issue description is
// sufficient for a technical investigation.
func (s *Service) ValidateDescription(
	ctx context.Context,
	answers map[string]string,
	description string,
) (*domain.ValidationResult, error) {
	prompt, err := buildValidatePrompt(answers, description)
	if err != nil {
		return nil, err
	}

	text, err := s.generateWithRetry(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   validationResponseSchema,
	})
	if err != nil {
		return nil, err
	}

	var parsed validationResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", triage.ErrInvalidResponse, err)
	}

	return &domain.ValidationResult{
		IsSufficient:       parsed.IsSufficient,
		ClarifyingQuestion: parsed.ClarifyingQuestion,
		Summary:            parsed.Summary,
	}, nil
}

// Chat answers a follow-up question about a completed triage report.
func (s *Service) Chat(
	ctx context.Context,
	message string,
	task *domain.Task,
	history []domain.ChatMessage,
) (string, error) {
	prompt, err := buildChatPrompt(message, task, history)
	if err != nil {
		return "", err
	}

	// Slightly more creative for conversational responses
	return s.generateWithRetry(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.7)),
	})
}

// generateWithRetry calls the Gemini API with exponential backoff and
// jitter for transient errors. Permanent errors (blocked content,
// malformed responses) are returned immediately without retrying.
func (s *Service) generateWithRetry(
	ctx context.Context,
	prompt string,
	genConfig *genai.GenerateContentConfig,
) (string, error) {
	maxRetries := s.config.MaxRetries
	baseDelaySeconds := s.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	for attempt := 0; ; attempt++ {
		s.logger.DebugContext(ctx, "calling Gemini API",
			"model", s.model,
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		text, err := s.generate(ctx, prompt, genConfig)
		if err == nil {
			return text, nil
		}

		// Permanent errors are not retried
		if errors.Is(err, triage.ErrContentBlocked) || errors.Is(err, triage.ErrInvalidResponse) {
			s.logger.WarnContext(ctx, "permanent Gemini API error, not retrying", "error", err)
			return "", err
		}

		s.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"error", err)

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				triage.ErrTransientFailure, maxRetries, err)
		}

		// Exponential backoff with jitter:
		// delay = baseDelay * 2^attempt * rand(0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoffSeconds * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", triage.ErrTransientFailure, ctx.Err())
		}
	}
}

// generate performs a single Gemini API call and classifies its outcome.
func (s *Service) generate(
	ctx context.Context,
	prompt string,
	genConfig *genai.GenerateContentConfig,
) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", triage.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", triage.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response stopped by safety filters", triage.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", triage.ErrInvalidResponse)
	}

	return text, nil
}
