package model

import (
	"time"

	"github.com/google/uuid"
)

// Payout statuses.
const (
	PayoutPending    = "pending"
	PayoutProcessing = "processing"
	PayoutCompleted  = "completed"
	PayoutFailed     = "failed"
	PayoutCancelled  = "cancelled"
)

// PayoutRequest is an instructor-initiated withdrawal of accumulated
// calculated revenue-split earnings.
type PayoutRequest struct {
	PayoutID         uuid.UUID  `json:"payout_id"`
	InstructorID     uuid.UUID  `json:"instructor_id"`
	Amount           int64      `json:"amount"`
	TransactionCount int        `json:"transaction_count"`
	PayoutMethod     string     `json:"payout_method"`
	Status           string     `json:"status"`
	ScheduledDate    *time.Time `json:"scheduled_date,omitempty"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
	BatchReference   *string    `json:"batch_reference,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// InstructorBankAccount gates payout requests: only verified accounts may
// receive payouts.
type InstructorBankAccount struct {
	AccountID     uuid.UUID  `json:"account_id"`
	InstructorID  uuid.UUID  `json:"instructor_id"`
	BankName      string     `json:"bank_name"`
	AccountNumber string     `json:"account_number"`
	AccountHolder string     `json:"account_holder"`
	IsVerified    bool       `json:"is_verified"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}
