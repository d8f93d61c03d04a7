// Package ai wraps the external generative model behind the two calls the
// service needs: classify a reported discrepancy, and answer follow-up
// questions about one. Classification degrades to a fixed fallback and
// never fails visibly; chat failures propagate so the caller can retry.
package ai

import (
	"context"

	"accounfix/internal/domain"
)

type Gateway interface {
	Analyze(ctx context.Context, description, imageBase64 string) domain.Analysis
	Chat(ctx context.Context, rec *domain.ErrorRecord, history []domain.ChatMessage, newMessage string) (string, error)
}

// FallbackAnalysis is returned whenever the model cannot produce a valid
// structured verdict. Creation always proceeds with it.
func FallbackAnalysis() domain.Analysis {
	return domain.Analysis{
		Category:        domain.CategoryOther,
		Priority:        domain.PriorityMedium,
		Suggestion:      "Automatic analysis unavailable. Review the entry manually.",
		PotentialImpact: "Needs manual review.",
	}
}
