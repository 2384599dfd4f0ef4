package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/edgard/bfhl/internal/config"
	apperrors "github.com/edgard/bfhl/internal/errors"
	"github.com/edgard/bfhl/internal/logger"
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type fakeGenerator struct {
	calls int
	fn    generateFunc
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	return f.fn(ctx, model, contents, cfg)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func testConfig() config.GeminiConfig {
	return config.GeminiConfig{
		APIKey:     "test-key",
		ModelName:  "gemini-test",
		Timeout:    time.Second,
		RetryDelay: time.Millisecond,
	}
}

func TestAnswerOneWord(t *testing.T) {
	t.Parallel()

	var gotModel, gotPrompt string
	gen := &fakeGenerator{fn: func(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel = model
		gotPrompt = contents[0].Parts[0].Text
		return textResponse("Mumbai is the capital of Maharashtra."), nil
	}}

	c := newClient(gen, testConfig(), logger.Discard())
	word, err := c.AnswerOneWord(context.Background(), "What is the capital city of Maharashtra?")

	require.NoError(t, err)
	assert.Equal(t, "Mumbai", word)
	assert.Equal(t, "gemini-test", gotModel)
	assert.Equal(t, "Answer in one word only. What is the capital city of Maharashtra?", gotPrompt)
	assert.Equal(t, 1, gen.calls)
}

func TestAnswerOneWordNormalizesPrompt(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	gen := &fakeGenerator{fn: func(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotPrompt = contents[0].Parts[0].Text
		return textResponse("Blue"), nil
	}}

	c := newClient(gen, testConfig(), logger.Discard())
	_, err := c.AnswerOneWord(context.Background(), "  What colour\n\nis the\u00A0sky?\x00 ")

	require.NoError(t, err)
	assert.Equal(t, "Answer in one word only. What colour is the sky?", gotPrompt)
}

func TestAnswerOneWordAppliesTimeout(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{fn: func(ctx context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}

	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	c := newClient(gen, cfg, logger.Discard())

	_, err := c.AnswerOneWord(context.Background(), "slow")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRemoteCall, apperrors.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnswerOneWordRetries(t *testing.T) {
	t.Parallel()

	t.Run("retriable error then success", func(t *testing.T) {
		gen := &fakeGenerator{}
		gen.fn = func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			if gen.calls == 1 {
				return nil, &genai.APIError{Code: 503, Message: "unavailable"}
			}
			return textResponse("Yes"), nil
		}
		cfg := testConfig()
		cfg.MaxRetries = 2
		c := newClient(gen, cfg, logger.Discard())

		word, err := c.AnswerOneWord(context.Background(), "ok?")
		require.NoError(t, err)
		assert.Equal(t, "Yes", word)
		assert.Equal(t, 2, gen.calls)
	})

	t.Run("single attempt by default", func(t *testing.T) {
		gen := &fakeGenerator{fn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, &genai.APIError{Code: 500, Message: "internal"}
		}}
		c := newClient(gen, testConfig(), logger.Discard())

		_, err := c.AnswerOneWord(context.Background(), "ok?")
		assert.ErrorIs(t, err, apperrors.RemoteCall)
		assert.Equal(t, 1, gen.calls)
	})

	t.Run("non retriable error", func(t *testing.T) {
		gen := &fakeGenerator{fn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, errors.New("permission denied")
		}}
		cfg := testConfig()
		cfg.MaxRetries = 3
		c := newClient(gen, cfg, logger.Discard())

		_, err := c.AnswerOneWord(context.Background(), "ok?")
		assert.ErrorIs(t, err, apperrors.RemoteCall)
		assert.Equal(t, 1, gen.calls)
	})
}

func TestExtractFirstWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{name: "single word", resp: textResponse("Paris"), want: "Paris"},
		{name: "sentence", resp: textResponse("Paris is lovely"), want: "Paris"},
		{name: "leading whitespace", resp: textResponse("  \nParis\n"), want: "Paris"},
		{name: "punctuation kept", resp: textResponse("Paris."), want: "Paris."},
		{name: "zero width space", resp: textResponse("\u200BParis\u200Bcity"), want: "Paris"},
		{name: "only invisible", resp: textResponse("\uFEFF\u2060"), wantErr: true},
		{name: "nil response", resp: nil, wantErr: true},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{name: "nil candidate", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil}}, wantErr: true},
		{name: "no content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}, wantErr: true},
		{name: "no parts", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}}, wantErr: true},
		{name: "blank text", resp: textResponse(" \t "), wantErr: true},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := extractFirstWord(tt.resp)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.KindRemoteParse, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.APIKey = ""
	_, err := NewClient(context.Background(), cfg, logger.Discard())
	assert.Error(t, err)
}
