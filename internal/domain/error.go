package domain

import (
	"strings"
	"time"
)

// Status tracks where a reported discrepancy sits in the review flow.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusFixed      Status = "FIXED"
	StatusRejected   Status = "REJECTED"
)

// Priority is the urgency assigned to a discrepancy, either by the
// classifier or by hand.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Category is the bookkeeping area a discrepancy belongs to.
type Category string

const (
	CategoryInvoice Category = "Invoice"
	CategoryPayment Category = "Payment"
	CategoryTax     Category = "Tax"
	CategoryLedger  Category = "Ledger"
	CategorySystem  Category = "System"
	CategoryOther   Category = "Other"
)

func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusFixed, StatusRejected}
}

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

func Categories() []Category {
	return []Category{CategoryInvoice, CategoryPayment, CategoryTax, CategoryLedger, CategorySystem, CategoryOther}
}

// ParseStatus matches s against the known status set, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	for _, candidate := range Statuses() {
		if strings.EqualFold(strings.TrimSpace(s), string(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// CategoryOrDefault coerces s to a known category, falling back to Other.
// External classifier output is never trusted to be a valid member.
func CategoryOrDefault(s string) Category {
	for _, candidate := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(candidate)) {
			return candidate
		}
	}
	return CategoryOther
}

// PriorityOrDefault coerces s to a known priority, falling back to Medium.
func PriorityOrDefault(s string) Priority {
	for _, candidate := range Priorities() {
		if strings.EqualFold(strings.TrimSpace(s), string(candidate)) {
			return candidate
		}
	}
	return PriorityMedium
}

// ChatMessage is one turn in a record's assistant conversation.
// Messages are immutable once appended.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Analysis is the classifier's verdict for a newly reported discrepancy.
type Analysis struct {
	Category        Category `json:"category"`
	Priority        Priority `json:"priority"`
	Suggestion      string   `json:"suggestion"`
	PotentialImpact string   `json:"potentialImpact"`
}

// ErrorRecord is a single tracked accounting discrepancy.
type ErrorRecord struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        Category      `json:"category"`
	Priority        Priority      `json:"priority"`
	Status          Status        `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	Reporter        string        `json:"reporter"`
	Amount          float64       `json:"amount,omitempty"`
	VoucherNo       string        `json:"voucherNo,omitempty"`
	ImageBase64     string        `json:"imageUrl,omitempty"`
	AISuggestion    string        `json:"aiSuggestion,omitempty"`
	PotentialImpact string        `json:"potentialImpact,omitempty"`
	ExternalSyncID  string        `json:"externalSyncId,omitempty"`
	ChatHistory     []ChatMessage `json:"chatHistory"`
}

// DashboardStats are derived counts over the full record set. They are
// recomputed on every read and carry no identity of their own.
type DashboardStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Fixed      int `json:"fixed"`
	Rejected   int `json:"rejected"`
}
