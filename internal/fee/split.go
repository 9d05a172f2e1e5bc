package fee

import "AnyCademyAPI/internal/model"

// ShouldSplit decides whether a checkout is routed through the platform's
// merchant account (fee retained) or straight to the instructor's. All four
// legs must hold; any missing credential degrades to a direct payment rather
// than failing the transaction. Presence only, no key-format validation.
func ShouldSplit(price int64, instructor model.MerchantCredentials, platform model.PlatformSettings) bool {
	if !platform.SplitEnabled {
		return false
	}
	if price < platform.MinSplitAmount {
		return false
	}
	if !platform.Credentials.Configured() {
		return false
	}
	return instructor.Configured()
}
