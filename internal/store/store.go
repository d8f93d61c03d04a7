package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"accounfix/internal/domain"
)

var (
	ErrNotFound      = errors.New("error record not found")
	ErrInvalidStatus = errors.New("invalid status value")
)

// ErrorStore holds every reported discrepancy for the lifetime of the
// process. There is no persistence behind it: restart loses all state.
// Records are kept most-recent-first and are never deleted.
type ErrorStore struct {
	mu      sync.RWMutex
	records []*domain.ErrorRecord
	now     func() time.Time
	newID   func() string
}

func New() *ErrorStore {
	return &ErrorStore{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// CreateInput carries the caller-supplied fields for a new record.
// Classification results are merged in by the caller before Create.
type CreateInput struct {
	Title           string
	Description     string
	Category        domain.Category
	Priority        domain.Priority
	Reporter        string
	Amount          float64
	VoucherNo       string
	ImageBase64     string
	AISuggestion    string
	PotentialImpact string
}

// Create adds a new record at the head of the list. New records always
// start as Pending.
func (s *ErrorStore) Create(in CreateInput) *domain.ErrorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &domain.ErrorRecord{
		ID:              s.newID(),
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		Priority:        in.Priority,
		Status:          domain.StatusPending,
		CreatedAt:       s.now(),
		Reporter:        in.Reporter,
		Amount:          in.Amount,
		VoucherNo:       in.VoucherNo,
		ImageBase64:     in.ImageBase64,
		AISuggestion:    in.AISuggestion,
		PotentialImpact: in.PotentialImpact,
		ChatHistory:     []domain.ChatMessage{},
	}
	s.records = append([]*domain.ErrorRecord{rec}, s.records...)
	return cloneRecord(rec)
}

// UpdateStatus replaces the status on the matching record. Unknown status
// values are rejected rather than stored.
func (s *ErrorStore) UpdateStatus(id string, status string) (*domain.ErrorRecord, error) {
	parsed, ok := domain.ParseStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.find(id)
	if rec == nil {
		return nil, ErrNotFound
	}
	rec.Status = parsed
	return cloneRecord(rec), nil
}

// AppendChatMessage appends one turn to the record's conversation.
// History is append-only and chronological.
func (s *ErrorStore) AppendChatMessage(id string, msg domain.ChatMessage) (*domain.ErrorRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.find(id)
	if rec == nil {
		return nil, ErrNotFound
	}
	rec.ChatHistory = append(rec.ChatHistory, msg)
	return cloneRecord(rec), nil
}

// MarkSynced records the identifier handed back by the external ERP push.
func (s *ErrorStore) MarkSynced(id, externalID string) (*domain.ErrorRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.find(id)
	if rec == nil {
		return nil, ErrNotFound
	}
	rec.ExternalSyncID = externalID
	return cloneRecord(rec), nil
}

func (s *ErrorStore) Get(id string) (*domain.ErrorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := s.find(id)
	if rec == nil {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

// List returns every record in store order, most recent first.
func (s *ErrorStore) List() []*domain.ErrorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ErrorRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, cloneRecord(rec))
	}
	return out
}

// Filter returns records whose title or description contains query,
// case-insensitively. An empty query returns everything in store order.
func (s *ErrorStore) Filter(query string) []*domain.ErrorRecord {
	query = strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ErrorRecord, 0, len(s.records))
	for _, rec := range s.records {
		if query == "" ||
			strings.Contains(strings.ToLower(rec.Title), query) ||
			strings.Contains(strings.ToLower(rec.Description), query) {
			out = append(out, cloneRecord(rec))
		}
	}
	return out
}

// Stats recomputes the dashboard counts from the full record set on every
// call, so they can never go stale.
func (s *ErrorStore) Stats() domain.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.DashboardStats{Total: len(s.records)}
	for _, rec := range s.records {
		switch rec.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusProcessing:
			stats.Processing++
		case domain.StatusFixed:
			stats.Fixed++
		case domain.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

// find assumes the caller holds the lock.
func (s *ErrorStore) find(id string) *domain.ErrorRecord {
	for _, rec := range s.records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func cloneRecord(rec *domain.ErrorRecord) *domain.ErrorRecord {
	cp := *rec
	cp.ChatHistory = make([]domain.ChatMessage, len(rec.ChatHistory))
	copy(cp.ChatHistory, rec.ChatHistory)
	return &cp
}
