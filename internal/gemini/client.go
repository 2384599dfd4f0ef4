// Package gemini implements the one-word answer adapter over Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/bfhl/internal/config"
	apperrors "github.com/edgard/bfhl/internal/errors"
	"github.com/edgard/bfhl/internal/text"
)

// OneWordInstruction is prepended to every prompt.
const OneWordInstruction = "Answer in one word only. "

// Client answers a free-form prompt with a single word.
type Client interface {
	AnswerOneWord(ctx context.Context, prompt string) (string, error)
}

// contentGenerator is the subset of *genai.Models used by the client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type sdkClient struct {
	models        contentGenerator
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	timeout       time.Duration
	maxRetries    int
	retryDelay    time.Duration
}

// NewClient creates a Gemini client authenticated with the configured API key.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	gi, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := newClient(gi.Models, cfg, log)
	c.log.Info("Gemini client initialized successfully", "model", cfg.ModelName, "timeout", cfg.Timeout)
	return c, nil
}

func newClient(models contentGenerator, cfg config.GeminiConfig, log *slog.Logger) *sdkClient {
	temperature := cfg.Temperature
	return &sdkClient{
		models:        models,
		log:           log.With("component", "gemini_client"),
		contentConfig: &genai.GenerateContentConfig{Temperature: &temperature},
		modelName:     cfg.ModelName,
		timeout:       cfg.Timeout,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
	}
}

// AnswerOneWord asks the model to answer prompt in one word and returns the
// first whitespace-delimited token of the first candidate.
func (c *sdkClient) AnswerOneWord(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{genai.NewContentFromText(OneWordInstruction+text.Normalize(prompt), genai.RoleUser)}

	resp, err := c.generateContentWithRetries(ctx, contents)
	if err != nil {
		return "", err
	}

	word, err := extractFirstWord(resp)
	if err != nil {
		c.log.WarnContext(ctx, "Unusable Gemini response", "error", err)
		return "", err
	}

	c.log.DebugContext(ctx, "Gemini answered", "answer", word)
	return word, nil
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
		if err == nil {
			return resp, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			c.log.ErrorContext(ctx, "Gemini API call aborted", "attempt", attempt+1, "error", err)
			return nil, apperrors.NewRemoteCallError("gemini request did not complete", errors.Join(ctxErr, err))
		}

		var apiErr *genai.APIError
		retriable := errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503)
		if !retriable || attempt >= c.maxRetries {
			c.log.ErrorContext(ctx, "Gemini API call failed", "attempt", attempt+1, "max_retries", c.maxRetries, "error", err)
			return nil, apperrors.NewRemoteCallError("gemini request failed", err)
		}

		c.log.InfoContext(ctx, "Retrying Gemini API call due to retriable APIError", "delay", c.retryDelay, "code", apiErr.Code)
		select {
		case <-ctx.Done():
			return nil, apperrors.NewRemoteCallError("gemini request did not complete", errors.Join(ctx.Err(), err))
		case <-time.After(c.retryDelay):
		}
	}
}

// extractFirstWord validates the response structure field by field.
func extractFirstWord(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", apperrors.NewRemoteParseError("gemini returned no response", nil)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		reason := string(fb.BlockReason)
		if fb.BlockReasonMessage != "" {
			reason = fb.BlockReasonMessage
		}
		return "", apperrors.NewRemoteParseError("gemini blocked the prompt: "+reason, nil)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", apperrors.NewRemoteParseError("gemini response has no candidates", nil)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 || candidate.Content.Parts[0] == nil {
		return "", apperrors.NewRemoteParseError(
			fmt.Sprintf("gemini candidate has no content (finish reason %q)", candidate.FinishReason), nil)
	}

	word := text.FirstWord(candidate.Content.Parts[0].Text)
	if word == "" {
		return "", apperrors.NewRemoteParseError("gemini candidate text is empty", nil)
	}
	return word, nil
}
