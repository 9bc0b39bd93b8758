package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"legallyai-backend/audio"
	"legallyai-backend/llm"
	"legallyai-backend/models"
	"legallyai-backend/schema"

	"go.uber.org/zap"
)

const flowLegalAssistant = "legalAssistant"

// AssistantService answers legal questions in text and speech
type AssistantService struct {
	cfg flowConfig
}

// NewAssistantService creates a new assistant service
func NewAssistantService(opts ...FlowOption) *AssistantService {
	return &AssistantService{cfg: newFlowConfig(opts)}
}

// Ask runs the legalAssistant flow. Speech is synthesized from the exact
// returned text after it has been generated. Unless TextOnly is set, a
// missing audio payload fails the whole call
func (s *AssistantService) Ask(ctx context.Context, req models.AssistantRequest) (*models.AssistantResponse, error) {
	if err := schema.Struct(req); err != nil {
		return nil, invalid(flowLegalAssistant, err)
	}
	if !req.TextOnly && s.cfg.speech == nil {
		return nil, &FlowError{Flow: flowLegalAssistant, Kind: KindGeneration, Err: errors.New("speech synthesizer not set")}
	}

	prompt, err := render(assistantTemplate, req)
	if err != nil {
		return nil, flowErr(flowLegalAssistant, KindGeneration, fmt.Errorf("render prompt: %w", err))
	}

	s.cfg.logger.Info("Flow started", zap.String("flow", flowLegalAssistant), zap.Bool("text_only", req.TextOnly))

	ex, err := s.cfg.converse(ctx, flowLegalAssistant, &llm.Request{
		System:   assistantPersona,
		Messages: []llm.Message{llm.UserText(prompt)},
	}, nil)
	if err != nil {
		s.cfg.logger.Error("Flow failed", zap.String("flow", flowLegalAssistant), zap.Error(err))
		return nil, err
	}

	resp := &models.AssistantResponse{TextResponse: strings.TrimSpace(ex.Text)}
	if resp.TextResponse == "" {
		return nil, flowErr(flowLegalAssistant, KindGeneration, llm.ErrEmptyResponse)
	}

	if !req.TextOnly {
		uri, err := s.speak(ctx, resp.TextResponse)
		if err != nil {
			s.cfg.logger.Error("Flow failed", zap.String("flow", flowLegalAssistant), zap.Error(err))
			return nil, err
		}
		resp.AudioResponse = uri
	}

	s.cfg.logger.Info("Flow finished",
		zap.String("flow", flowLegalAssistant),
		zap.Int("text_len", len(resp.TextResponse)),
		zap.Int("audio_len", len(resp.AudioResponse)),
	)
	return resp, nil
}

// speak synthesizes text and returns it as a WAV data URI
func (s *AssistantService) speak(ctx context.Context, text string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.callTimeout)
	defer cancel()

	speech, err := s.cfg.speech.Synthesize(callCtx, llm.SpeechRequest{Text: text, Voice: s.cfg.voice})
	if err != nil {
		return "", flowErr(flowLegalAssistant, KindGeneration, fmt.Errorf("speech synthesis: %w", err))
	}
	if speech == nil || len(speech.Data) == 0 {
		return "", flowErr(flowLegalAssistant, KindGeneration, llm.ErrNoAudio)
	}

	format, err := audio.FormatFromMIME(speech.MIMEType)
	if err != nil {
		return "", flowErr(flowLegalAssistant, KindGeneration, err)
	}
	if extra := len(speech.Data) % format.FrameSize(); extra != 0 {
		s.cfg.logger.Warn("Dropping partial audio frame",
			zap.String("flow", flowLegalAssistant),
			zap.Int("bytes", len(speech.Data)),
			zap.Int("dropped", extra),
		)
	}
	uri, err := audio.WAVDataURI(speech.Data, format)
	if err != nil {
		return "", flowErr(flowLegalAssistant, KindGeneration, fmt.Errorf("wrap audio: %w", err))
	}
	return uri, nil
}
