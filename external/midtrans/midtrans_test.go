package midtrans

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"AnyCademyAPI/internal/model"

	midsdk "github.com/midtrans/midtrans-go"
	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	orderID := "ord-a1b2c3d4-e5f6a7b8-1756600000000"
	statusCode := "200"
	grossAmount := "70000.00"
	serverKey := "SB-Mid-server-secret"

	raw := orderID + statusCode + grossAmount + serverKey
	sum := sha512.Sum512([]byte(raw))
	good := hex.EncodeToString(sum[:])

	assert.True(t, VerifySignature(orderID, statusCode, grossAmount, good, serverKey))
	assert.False(t, VerifySignature(orderID, statusCode, grossAmount, good, "wrong-key"))
	assert.False(t, VerifySignature(orderID, statusCode, "80000.00", good, serverKey))
	assert.False(t, VerifySignature(orderID, statusCode, grossAmount, "tampered", serverKey))
}

func TestSnapScriptURLPerEnvironment(t *testing.T) {
	prod := model.MerchantCredentials{ClientKey: "ck", ServerKey: "sk", IsProduction: true}
	sandbox := model.MerchantCredentials{ClientKey: "ck", ServerKey: "sk"}

	assert.Equal(t, "https://app.midtrans.com/snap/snap.js", SnapScriptURL(prod))
	assert.Equal(t, "https://app.sandbox.midtrans.com/snap/snap.js", SnapScriptURL(sandbox))
}

func TestTruncatedMessage(t *testing.T) {
	assert.Equal(t, "", TruncatedMessage(nil))

	multiline := &midsdk.Error{Message: "transaction denied\ninternal detail that must not leak"}
	assert.Equal(t, "transaction denied", TruncatedMessage(multiline))

	long := &midsdk.Error{Message: strings.Repeat("x", 300)}
	assert.Len(t, TruncatedMessage(long), 140)
}
