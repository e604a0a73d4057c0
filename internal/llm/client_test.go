package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewClient_RejectsConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{"unsupported provider", &Config{Provider: "other", Models: map[ModelTier]string{TierLite: "m"}}, "unsupported llm provider"},
		{"no models", &Config{Provider: ProviderGemini}, "invalid llm config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(context.Background(), tt.cfg, "key")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func candidateResponse(reason genai.FinishReason, parts ...genai.Part) *genai.GenerateContentResponse {
	c := &genai.Candidate{FinishReason: reason}
	if len(parts) > 0 {
		c.Content = &genai.Content{Parts: parts}
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{c}}
}

func TestResponseText(t *testing.T) {
	resp := candidateResponse(genai.FinishReasonStop, genai.Text(`{"score":`), genai.Text(` 74}`))

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"score": 74}`, text)
}

func TestResponseText_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		wantMsg string
	}{
		{"nil", nil, "empty response"},
		{"no candidates", &genai.GenerateContentResponse{}, "no candidates"},
		{"prompt blocked", &genai.GenerateContentResponse{
			PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
		}, "prompt blocked"},
		{"safety stop", candidateResponse(genai.FinishReasonSafety, genai.Text(`{}`)), "response blocked"},
		{"recitation stop", candidateResponse(genai.FinishReasonRecitation, genai.Text(`{}`)), "response blocked"},
		{"truncated", candidateResponse(genai.FinishReasonMaxTokens, genai.Text(`{"roles": [`)), "truncated"},
		{"no content", candidateResponse(genai.FinishReasonStop), "no content"},
		{"no text parts", candidateResponse(genai.FinishReasonStop, genai.Blob{MIMEType: "image/png"}), "no text parts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			require.ErrorIs(t, err, ErrInvalidResponse)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.False(t, IsRetryable(err))
		})
	}
}
