package model

import "github.com/google/uuid"

// MerchantCredentials identify one Midtrans merchant account (the platform's
// or an instructor's). IsProduction selects the gateway environment for every
// call made with these keys; sandbox and production are never mixed.
type MerchantCredentials struct {
	ClientKey    string `json:"client_key"`
	ServerKey    string `json:"server_key"`
	IsProduction bool   `json:"is_production"`
}

// Configured reports whether both keys are present. Presence only, no format
// validation.
func (c MerchantCredentials) Configured() bool {
	return c.ClientKey != "" && c.ServerKey != ""
}

// PlatformSettings is the platform-wide fee and merchant configuration.
// Read-only at transaction time.
type PlatformSettings struct {
	FeePercent     float64             `json:"fee_percent"`
	FixedFee       int64               `json:"fixed_fee"`
	MinSplitAmount int64               `json:"min_split_amount"`
	SplitEnabled   bool                `json:"split_enabled"`
	Credentials    MerchantCredentials `json:"credentials"`
}

// FeeTier selects a fee percentage for prices in [MinAmount, MaxAmount];
// MaxAmount 0 means unbounded.
type FeeTier struct {
	MinAmount  int64   `json:"min_amount"`
	MaxAmount  int64   `json:"max_amount"`
	FeePercent float64 `json:"fee_percent"`
}

// InstructorPaymentSettings are an instructor's own merchant credentials,
// used for direct (non-split) payments.
type InstructorPaymentSettings struct {
	InstructorID uuid.UUID           `json:"instructor_id"`
	Credentials  MerchantCredentials `json:"credentials"`
}
