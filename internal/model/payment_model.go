package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses. A payment is created pending and moves to exactly one
// terminal status; rows are never deleted.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
	PaymentExpired = "expired"
)

type Payment struct {
	PaymentID            int64      `json:"payment_id"`
	OrderID              string     `json:"order_id"` // unique, <=50 chars (gateway limit)
	UserID               uuid.UUID  `json:"user_id"`
	CourseID             uuid.UUID  `json:"course_id"`
	Amount               int64      `json:"amount"`
	Status               string     `json:"status"`
	GatewayTransactionID *string    `json:"gateway_transaction_id,omitempty"`
	PaymentMethod        *string    `json:"payment_method,omitempty"`
	SplitEnabled         bool       `json:"split_enabled"`
	PlatformFee          int64      `json:"platform_fee"`
	InstructorShare      int64      `json:"instructor_share"`
	PlatformFeePercent   float64    `json:"platform_fee_percent"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
}
