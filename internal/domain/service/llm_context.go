package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow llmCtxKey = "llm_workflow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
	llmCtxKeyTypeName llmCtxKey = "llm_type_name"
)

func WithWorkflow(ctx context.Context, workflow string) context.Context {
	if ctx == nil {
		return nil
	}
	w := strings.TrimSpace(workflow)
	if w == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyWorkflow, w)
}

func WithProvider(ctx context.Context, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	p := strings.TrimSpace(provider)
	if p == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyProvider, p)
}

func WithTypeName(ctx context.Context, typeName string) context.Context {
	if ctx == nil {
		return nil
	}
	t := strings.TrimSpace(typeName)
	if t == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyTypeName, t)
}

func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	return WithProvider(WithWorkflow(ctx, workflow), provider)
}

func WorkflowFromContext(ctx context.Context) string {
	return ctxString(ctx, llmCtxKeyWorkflow)
}

func ProviderFromContext(ctx context.Context) string {
	return ctxString(ctx, llmCtxKeyProvider)
}

func TypeNameFromContext(ctx context.Context) string {
	return ctxString(ctx, llmCtxKeyTypeName)
}

func ctxString(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return "unknown"
	}
	v := ctx.Value(key)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}
