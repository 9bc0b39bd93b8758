package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"legallyai-backend/llm"
)

// ToolExecutor runs a tool with the model-supplied arguments
type ToolExecutor func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// ToolRegistry stores tool declarations and executors keyed by tool name
type ToolRegistry struct {
	mu        sync.RWMutex
	order     []string
	decls     map[string]llm.ToolDeclaration
	executors map[string]ToolExecutor
}

// NewToolRegistry creates an empty registry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		decls:     make(map[string]llm.ToolDeclaration),
		executors: make(map[string]ToolExecutor),
	}
}

// Register adds a tool
func (r *ToolRegistry) Register(decl llm.ToolDeclaration, exec ToolExecutor) error {
	if decl.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if exec == nil {
		return fmt.Errorf("executor is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.executors[decl.Name]; exists {
		return fmt.Errorf("executor already registered for %s", decl.Name)
	}
	r.order = append(r.order, decl.Name)
	r.decls[decl.Name] = decl
	r.executors[decl.Name] = exec
	return nil
}

// MustRegister adds a tool or panics
func (r *ToolRegistry) MustRegister(decl llm.ToolDeclaration, exec ToolExecutor) {
	if err := r.Register(decl, exec); err != nil {
		panic(err)
	}
}

// Declarations returns the declarations in registration order
func (r *ToolRegistry) Declarations() []llm.ToolDeclaration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	decls := make([]llm.ToolDeclaration, 0, len(r.order))
	for _, name := range r.order {
		decls = append(decls, r.decls[name])
	}
	return decls
}

// Execute runs the executor for the tool name
func (r *ToolRegistry) Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	if name == "" {
		return nil, fmt.Errorf("tool name is required")
	}
	r.mu.RLock()
	exec := r.executors[name]
	r.mu.RUnlock()
	if exec == nil {
		return nil, fmt.Errorf("no executor registered for %s", name)
	}
	return exec(ctx, args)
}
