package store

import (
	"time"

	"accounfix/internal/domain"
)

// SeedDemo loads two sample discrepancies so a fresh instance has
// something to show. Intended for demos only, gated by config.
func (s *ErrorStore) SeedDemo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	samples := []*domain.ErrorRecord{
		{
			ID:          s.newID(),
			Title:       "Opening balance mismatch on bank account 112101",
			Description: "Opening balance on account 112101 does not match the January bank statement. Difference of 2,500,000.",
			Category:    domain.CategoryLedger,
			Priority:    domain.PriorityHigh,
			Status:      domain.StatusPending,
			CreatedAt:   now.Add(-3 * 24 * time.Hour),
			Reporter:    "Alice Nguyen",
			Amount:      2500000,
			ChatHistory: []domain.ChatMessage{},
		},
		{
			ID:          s.newID(),
			Title:       "Invalid inbound invoice from supplier",
			Description: "Invoice 001234 from supplier Company X carries the wrong company address; a corrected invoice must be requested.",
			Category:    domain.CategoryInvoice,
			Priority:    domain.PriorityMedium,
			Status:      domain.StatusProcessing,
			CreatedAt:   now.Add(-24 * time.Hour),
			Reporter:    "Bao Tran",
			VoucherNo:   "HD001234",
			ChatHistory: []domain.ChatMessage{},
		},
	}

	// Oldest last, matching most-recent-first store order.
	s.records = append(s.records, samples...)
}
