// Package llm is the boundary between the AI flows and the hosted language
// model. Flows depend on the Model and SpeechSynthesizer interfaces; the
// Gemini types implement them
package llm

import (
	"context"
	"encoding/json"
	"errors"

	"legallyai-backend/schema"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

var (
	ErrNoCandidates  = errors.New("model returned no candidates")
	ErrPromptBlocked = errors.New("model blocked the prompt")
	ErrEmptyResponse = errors.New("model returned empty content")
	ErrNoAudio       = errors.New("model returned no audio payload")
)

// ToolCall is a function invocation requested by the model
type ToolCall struct {
	Name string
	Args json.RawMessage
}

// ToolResult answers a ToolCall
type ToolResult struct {
	Name   string
	Output json.RawMessage
}

// Message is one turn of a conversation. A model turn may carry tool calls;
// the following user turn carries their results
type Message struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// UserText is a user turn holding plain text
func UserText(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// ToolDeclaration tells the model about a function it may call
type ToolDeclaration struct {
	Name        string
	Description string
	Parameters  *schema.Schema
}

// Request is one generation call
type Request struct {
	System   string
	Messages []Message
	Tools    []ToolDeclaration

	// ResponseSchema, when set, asks for JSON output of this shape
	ResponseSchema *schema.Schema

	// Temperature overrides the model default when non-nil
	Temperature *float32
}

// Response is the model's reply. When ToolCalls is non-empty the caller must
// execute them and continue the conversation
type Response struct {
	Text         string
	ToolCalls    []ToolCall
	FinishReason string
}

// Model generates text, optionally requesting tool calls
type Model interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// SpeechRequest asks for the given text to be spoken
type SpeechRequest struct {
	Text  string
	Voice string
}

// Speech is raw audio returned by a speech model
type Speech struct {
	Data     []byte
	MIMEType string
}

// SpeechSynthesizer turns text into audio
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) (*Speech, error)
}
