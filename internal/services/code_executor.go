package services

import (
	"context"
	"errors"
)

// ErrExecutionNotConfigured is returned by the default executor until a real
// sandboxed implementation is wired in.
var ErrExecutionNotConfigured = errors.New("code execution is not configured")

// CodeExecutorFunc adapts a plain function to the CodeExecutor interface.
type CodeExecutorFunc func(ctx context.Context, code, language, input string) (*ExecutionResult, error)

func (f CodeExecutorFunc) Execute(ctx context.Context, code, language, input string) (*ExecutionResult, error) {
	return f(ctx, code, language, input)
}

// unimplementedExecutor is installed when no executor is provided. It fails
// loudly so a missing sandbox is never mistaken for a wrong answer being
// silently scored.
type unimplementedExecutor struct{}

func (unimplementedExecutor) Execute(ctx context.Context, code, language, input string) (*ExecutionResult, error) {
	return nil, ErrExecutionNotConfigured
}
