package model

import (
	"time"

	"github.com/google/uuid"
)

// Revenue split statuses.
const (
	SplitPending    = "pending"
	SplitCalculated = "calculated"
	SplitPaidOut    = "paid_out"
)

// RevenueSplit records how one paid transaction's amount was divided between
// the platform and the instructor. At most one row per payment. PayoutID is
// set while the split is reserved by an open payout request and stays set
// once that payout completes.
type RevenueSplit struct {
	SplitID         int64      `json:"split_id"`
	PaymentID       int64      `json:"payment_id"`
	PayoutID        *uuid.UUID `json:"payout_id,omitempty"`
	InstructorID    uuid.UUID  `json:"instructor_id"`
	CourseID        uuid.UUID  `json:"course_id"`
	TotalAmount     int64      `json:"total_amount"`
	FeePercent      float64    `json:"fee_percent"`
	FeeAmount       int64      `json:"fee_amount"`
	InstructorShare int64      `json:"instructor_share"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	PaidOutAt       *time.Time `json:"paid_out_at,omitempty"`
}
