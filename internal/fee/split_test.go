package fee

import (
	"testing"

	"AnyCademyAPI/internal/model"

	"github.com/stretchr/testify/assert"
)

func eligiblePlatform() model.PlatformSettings {
	return model.PlatformSettings{
		SplitEnabled:   true,
		MinSplitAmount: 10000,
		Credentials: model.MerchantCredentials{
			ClientKey: "SB-Mid-client-platform",
			ServerKey: "SB-Mid-server-platform",
		},
	}
}

func eligibleInstructor() model.MerchantCredentials {
	return model.MerchantCredentials{
		ClientKey: "SB-Mid-client-instructor",
		ServerKey: "SB-Mid-server-instructor",
	}
}

func TestShouldSplitAllConditionsMet(t *testing.T) {
	assert.True(t, ShouldSplit(70000, eligibleInstructor(), eligiblePlatform()))
}

func TestShouldSplitEachConditionAlone(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		mod   func(p *model.PlatformSettings, i *model.MerchantCredentials)
	}{
		{"split disabled", 70000, func(p *model.PlatformSettings, i *model.MerchantCredentials) {
			p.SplitEnabled = false
		}},
		{"price below minimum", 9999, func(p *model.PlatformSettings, i *model.MerchantCredentials) {}},
		{"missing platform client key", 70000, func(p *model.PlatformSettings, i *model.MerchantCredentials) {
			p.Credentials.ClientKey = ""
		}},
		{"missing platform server key", 70000, func(p *model.PlatformSettings, i *model.MerchantCredentials) {
			p.Credentials.ServerKey = ""
		}},
		{"missing instructor client key", 70000, func(p *model.PlatformSettings, i *model.MerchantCredentials) {
			i.ClientKey = ""
		}},
		{"missing instructor server key", 70000, func(p *model.PlatformSettings, i *model.MerchantCredentials) {
			i.ServerKey = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := eligiblePlatform()
			instructor := eligibleInstructor()
			tt.mod(&platform, &instructor)
			assert.False(t, ShouldSplit(tt.price, instructor, platform))
		})
	}
}

func TestShouldSplitPriceAtMinimum(t *testing.T) {
	// Boundary is inclusive.
	assert.True(t, ShouldSplit(10000, eligibleInstructor(), eligiblePlatform()))
}
