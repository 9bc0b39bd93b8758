package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"legallyai-backend/llm"
	"legallyai-backend/schema"

	"go.uber.org/zap"
)

const (
	defaultCallTimeout   = 30 * time.Second
	defaultMaxToolRounds = 4
	defaultVoice         = "Algenib"
)

// flowConfig is shared by the AI flow services
type flowConfig struct {
	model         llm.Model
	speech        llm.SpeechSynthesizer
	finder        ExpertFinder
	voice         string
	temperature   *float32
	callTimeout   time.Duration
	maxToolRounds int
	logger        *zap.Logger
}

// FlowOption is a functional option for the AI flow services
type FlowOption func(*flowConfig)

// WithModel sets the text model
func WithModel(m llm.Model) FlowOption {
	return func(c *flowConfig) {
		c.model = m
	}
}

// WithSpeech sets the speech synthesizer used by the assistant
func WithSpeech(s llm.SpeechSynthesizer) FlowOption {
	return func(c *flowConfig) {
		c.speech = s
	}
}

// WithExpertFinder sets the directory used by findLegalExpert
func WithExpertFinder(f ExpertFinder) FlowOption {
	return func(c *flowConfig) {
		c.finder = f
	}
}

// WithVoice sets the prebuilt voice for speech synthesis
func WithVoice(voice string) FlowOption {
	return func(c *flowConfig) {
		c.voice = voice
	}
}

// WithTemperature overrides the model's default temperature
func WithTemperature(t float32) FlowOption {
	return func(c *flowConfig) {
		c.temperature = &t
	}
}

// WithCallTimeout bounds each model, speech and directory call
func WithCallTimeout(d time.Duration) FlowOption {
	return func(c *flowConfig) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

// WithMaxToolRounds bounds how many times the model may request tools in one
// flow call
func WithMaxToolRounds(n int) FlowOption {
	return func(c *flowConfig) {
		if n > 0 {
			c.maxToolRounds = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) FlowOption {
	return func(c *flowConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newFlowConfig(opts []FlowOption) flowConfig {
	c := flowConfig{
		voice:         defaultVoice,
		callTimeout:   defaultCallTimeout,
		maxToolRounds: defaultMaxToolRounds,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// exchange is the outcome of a conversation with the model
type exchange struct {
	Text        string
	ToolResults []llm.ToolResult
	Rounds      int
}

// generate makes one model call under the per-call timeout
func (c *flowConfig) generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.model.Generate(callCtx, req)
}

// converse runs the tool loop: generate, execute any pending tool calls,
// append the results and generate again until the model answers without
// requesting tools
func (c *flowConfig) converse(ctx context.Context, flow string, req *llm.Request, tools *ToolRegistry) (*exchange, error) {
	if c.model == nil {
		return nil, &FlowError{Flow: flow, Kind: KindGeneration, Err: errors.New("model not set")}
	}
	if req.Temperature == nil {
		req.Temperature = c.temperature
	}

	ex := &exchange{}
	for {
		resp, err := c.generate(ctx, req)
		if err != nil {
			return nil, flowErr(flow, KindGeneration, err)
		}
		if len(resp.ToolCalls) == 0 {
			ex.Text = resp.Text
			return ex, nil
		}
		if tools == nil {
			return nil, flowErr(flow, KindGeneration, fmt.Errorf("model requested tool %q but none are declared", resp.ToolCalls[0].Name))
		}
		if ex.Rounds >= c.maxToolRounds {
			return nil, flowErr(flow, KindGeneration, fmt.Errorf("%w (%d)", ErrToolRoundsExceeded, c.maxToolRounds))
		}
		ex.Rounds++

		results := make([]llm.ToolResult, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			out, err := tools.Execute(ctx, call.Name, call.Args)
			if err != nil {
				var ve *schema.ValidationError
				if errors.As(err, &ve) {
					return nil, invalid(flow, fmt.Errorf("tool %s arguments: %w", call.Name, err))
				}
				return nil, flowErr(flow, KindToolExecution, fmt.Errorf("tool %s: %w", call.Name, err))
			}
			results = append(results, llm.ToolResult{Name: call.Name, Output: out})
		}
		ex.ToolResults = append(ex.ToolResults, results...)

		req.Messages = append(req.Messages,
			llm.Message{Role: llm.RoleModel, Text: resp.Text, ToolCalls: resp.ToolCalls},
			llm.Message{Role: llm.RoleUser, ToolResults: results},
		)
	}
}

// decodeOutput extracts the JSON object from a model reply, checks it against
// shape and decodes it into out
func decodeOutput(text string, shape *schema.Schema, out any) error {
	raw, err := extractJSON(text)
	if err != nil {
		return err
	}
	if err := shape.ValidateJSON(raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// extractJSON returns the JSON object in text. It accepts bare JSON, a
// ```json fenced block, or an object surrounded by prose
func extractJSON(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	if start := strings.Index(s, "```"); start >= 0 {
		body := s[start+3:]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			body = body[nl+1:]
		}
		if end := strings.Index(body, "```"); end >= 0 {
			s = strings.TrimSpace(body[:end])
		}
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, ErrNoJSON
	}
	candidate := []byte(s[start : end+1])
	if !json.Valid(candidate) {
		return nil, fmt.Errorf("%w: malformed object", ErrNoJSON)
	}
	return candidate, nil
}
