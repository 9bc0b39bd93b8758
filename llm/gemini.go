package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"legallyai-backend/schema"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// NewGeminiClient creates the shared Gemini API client
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}
	return genai.NewClient(ctx, option.WithAPIKey(apiKey))
}

// GeminiModel implements Model on top of the Gemini generateContent API
type GeminiModel struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// GeminiOption configures a GeminiModel
type GeminiOption func(*GeminiModel)

// GeminiWithTemperature sets the default sampling temperature
func GeminiWithTemperature(t float32) GeminiOption {
	return func(m *GeminiModel) {
		m.temperature = t
	}
}

// GeminiWithLogger sets the logger
func GeminiWithLogger(logger *zap.Logger) GeminiOption {
	return func(m *GeminiModel) {
		m.logger = logger
	}
}

// NewGeminiModel creates a Model for the named Gemini model
func NewGeminiModel(client *genai.Client, model string, opts ...GeminiOption) *GeminiModel {
	m := &GeminiModel{
		client:      client,
		model:       model,
		temperature: 0.5,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Generate sends the conversation and returns the first candidate
func (m *GeminiModel) Generate(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, errors.New("request has no messages")
	}

	gm := m.client.GenerativeModel(m.model)
	temperature := m.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	gm.SetTemperature(temperature)

	if req.System != "" {
		gm.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  toGenaiSchema(t.Parameters),
			})
		}
		gm.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	if req.ResponseSchema != nil {
		gm.ResponseMIMEType = "application/json"
		gm.ResponseSchema = toGenaiSchema(req.ResponseSchema)
	}

	contents, err := toContents(req.Messages)
	if err != nil {
		return nil, err
	}
	last := contents[len(contents)-1]
	if last.Role != string(RoleUser) {
		return nil, errors.New("conversation must end with a user turn")
	}

	cs := gm.StartChat()
	cs.History = contents[:len(contents)-1]
	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}
	return m.fromGenaiResponse(resp)
}

func (m *GeminiModel) fromGenaiResponse(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return nil, fmt.Errorf("%w: %s", ErrPromptBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	cand := resp.Candidates[0]
	out := &Response{FinishReason: cand.FinishReason.String()}
	if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonUnspecified {
		m.logger.Warn("Gemini candidate finished abnormally",
			zap.String("model", m.model),
			zap.String("finish_reason", out.FinishReason))
	}
	if cand.Content == nil {
		return nil, fmt.Errorf("%w (finish reason: %s)", ErrEmptyResponse, out.FinishReason)
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			call, err := fromFunctionCall(p)
			if err != nil {
				return nil, err
			}
			out.ToolCalls = append(out.ToolCalls, call)
		case *genai.FunctionCall:
			call, err := fromFunctionCall(*p)
			if err != nil {
				return nil, err
			}
			out.ToolCalls = append(out.ToolCalls, call)
		}
	}
	out.Text = text.String()

	if out.Text == "" && len(out.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w (finish reason: %s)", ErrEmptyResponse, out.FinishReason)
	}
	return out, nil
}

func fromFunctionCall(fc genai.FunctionCall) (ToolCall, error) {
	args, err := json.Marshal(fc.Args)
	if err != nil {
		return ToolCall{}, fmt.Errorf("failed to encode arguments for %s: %w", fc.Name, err)
	}
	return ToolCall{Name: fc.Name, Args: args}, nil
}

func toContents(msgs []Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, msg := range msgs {
		c := &genai.Content{Role: string(msg.Role)}
		if msg.Text != "" {
			c.Parts = append(c.Parts, genai.Text(msg.Text))
		}
		for _, call := range msg.ToolCalls {
			var args map[string]any
			if len(call.Args) > 0 {
				if err := json.Unmarshal(call.Args, &args); err != nil {
					return nil, fmt.Errorf("invalid arguments for %s: %w", call.Name, err)
				}
			}
			c.Parts = append(c.Parts, genai.FunctionCall{Name: call.Name, Args: args})
		}
		for _, res := range msg.ToolResults {
			c.Parts = append(c.Parts, genai.FunctionResponse{Name: res.Name, Response: responseMap(res.Output)})
		}
		if len(c.Parts) == 0 {
			continue
		}
		contents = append(contents, c)
	}
	if len(contents) == 0 {
		return nil, errors.New("request has no content")
	}
	return contents, nil
}

// responseMap shapes a tool output as the object Gemini expects
func responseMap(output json.RawMessage) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal(output, &obj); err == nil && obj != nil {
		return obj
	}
	var v any
	if err := json.Unmarshal(output, &v); err != nil {
		v = string(output)
	}
	return map[string]any{"result": v}
}

func toGenaiSchema(s *schema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Type {
	case schema.TypeObject:
		out.Type = genai.TypeObject
	case schema.TypeArray:
		out.Type = genai.TypeArray
	case schema.TypeNumber:
		out.Type = genai.TypeNumber
	case schema.TypeInteger:
		out.Type = genai.TypeInteger
	case schema.TypeBoolean:
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}
	if len(s.Enum) > 0 {
		out.Format = "enum"
		out.Enum = s.Enum
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	out.Items = toGenaiSchema(s.Items)
	return out
}
