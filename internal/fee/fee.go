// Package fee holds the pure money rules: platform-fee policies, split
// eligibility and rupiah formatting. Everything here is deterministic and
// takes its configuration as arguments; nothing reads ambient state.
package fee

import "math"

// Breakdown is how one course price divides between platform and instructor.
// PlatformFee + InstructorShare always reconstructs the price exactly.
type Breakdown struct {
	PlatformFee     int64
	InstructorShare int64
	FeePercent      float64 // percentage actually applied
}

// Policy computes a fee breakdown for a course price in whole rupiah.
type Policy interface {
	Breakdown(price int64) Breakdown
}

// FlatPolicy charges a single percentage plus a fixed fee, capped at half the
// price so the fee can never consume the transaction.
type FlatPolicy struct {
	Percent  float64
	FixedFee int64
}

func (p FlatPolicy) Breakdown(price int64) Breakdown {
	fee := roundPercent(price, p.Percent) + p.FixedFee
	fee = capFee(fee, price)
	return Breakdown{
		PlatformFee:     fee,
		InstructorShare: price - fee,
		FeePercent:      p.Percent,
	}
}

// Tier selects a fee percentage for prices in [MinAmount, MaxAmount].
// MaxAmount 0 means unbounded.
type Tier struct {
	MinAmount int64
	MaxAmount int64
	Percent   float64
}

// TieredPolicy picks the first tier matching the price and falls back to
// DefaultPercent when none matches. The half-price cap applies here too.
type TieredPolicy struct {
	Tiers          []Tier
	DefaultPercent float64
}

func (p TieredPolicy) Breakdown(price int64) Breakdown {
	pct := p.DefaultPercent
	for _, t := range p.Tiers {
		if price >= t.MinAmount && (t.MaxAmount == 0 || price <= t.MaxAmount) {
			pct = t.Percent
			break
		}
	}
	fee := capFee(roundPercent(price, pct), price)
	return Breakdown{
		PlatformFee:     fee,
		InstructorShare: price - fee,
		FeePercent:      pct,
	}
}

// roundPercent rounds to the nearest whole rupiah before any subtraction, so
// breakdowns reconstruct the price without residual.
func roundPercent(price int64, pct float64) int64 {
	return int64(math.Round(float64(price) * pct / 100))
}

func capFee(fee, price int64) int64 {
	if half := price / 2; fee > half {
		return half
	}
	if fee < 0 {
		return 0
	}
	return fee
}
