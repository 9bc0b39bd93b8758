package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	genaisdk "google.golang.org/genai"
)

// GeminiSpeech implements SpeechSynthesizer with a Gemini TTS model. It uses
// the newer genai SDK, which exposes audio response modalities and prebuilt
// voices
type GeminiSpeech struct {
	client *genaisdk.Client
	model  string
	logger *zap.Logger
}

// NewGeminiSpeech creates a speech synthesizer for the named TTS model
func NewGeminiSpeech(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiSpeech, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
		APIKey:  apiKey,
		Backend: genaisdk.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiSpeech{client: client, model: model, logger: logger}, nil
}

// Synthesize speaks req.Text with the prebuilt voice req.Voice. The returned
// Data is raw PCM as described by MIMEType
func (s *GeminiSpeech) Synthesize(ctx context.Context, req SpeechRequest) (*Speech, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("speech text is empty")
	}

	cfg := &genaisdk.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genaisdk.SpeechConfig{
			VoiceConfig: &genaisdk.VoiceConfig{
				PrebuiltVoiceConfig: &genaisdk.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genaisdk.Text(req.Text), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini speech failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &Speech{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
			}
		}
	}

	s.logger.Warn("Speech response carried no inline audio", zap.String("model", s.model))
	return nil, ErrNoAudio
}
