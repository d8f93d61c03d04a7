// Package aimock provides a hand-rolled ai.Gateway fake for tests.
package aimock

import (
	"context"

	"accounfix/internal/domain"
	"accounfix/internal/integrations/ai"
)

type Gateway struct {
	AnalyzeFn    func(ctx context.Context, description, imageBase64 string) domain.Analysis
	ChatFn       func(ctx context.Context, rec *domain.ErrorRecord, history []domain.ChatMessage, newMessage string) (string, error)
	AnalyzeCalls int
	ChatCalls    int
}

var _ ai.Gateway = (*Gateway)(nil)

func (g *Gateway) Analyze(ctx context.Context, description, imageBase64 string) domain.Analysis {
	g.AnalyzeCalls++
	if g.AnalyzeFn != nil {
		return g.AnalyzeFn(ctx, description, imageBase64)
	}
	return ai.FallbackAnalysis()
}

func (g *Gateway) Chat(ctx context.Context, rec *domain.ErrorRecord, history []domain.ChatMessage, newMessage string) (string, error) {
	g.ChatCalls++
	if g.ChatFn != nil {
		return g.ChatFn(ctx, rec, history, newMessage)
	}
	return "", nil
}
