package midtrans

import (
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"strings"

	"AnyCademyAPI/internal/model"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// Snap.js URLs per environment. Must match the environment the transaction
// token was created in; a sandbox token with the production script (or the
// reverse) fails checkout.
const (
	snapScriptProduction = "https://app.midtrans.com/snap/snap.js"
	snapScriptSandbox    = "https://app.sandbox.midtrans.com/snap/snap.js"
)

func envFor(creds model.MerchantCredentials) midtrans.EnvironmentType {
	if creds.IsProduction {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

// SnapClientFor builds a Snap client bound to one merchant account. Checkouts
// use the platform's credentials for split payments and the instructor's own
// for direct payments, so clients are constructed per transaction.
func SnapClientFor(creds model.MerchantCredentials) *snap.Client {
	var client snap.Client
	client.New(creds.ServerKey, envFor(creds))
	return &client
}

// CoreClientFor builds a Core API client for status lookups against the same
// merchant account.
func CoreClientFor(creds model.MerchantCredentials) *coreapi.Client {
	var client coreapi.Client
	client.New(creds.ServerKey, envFor(creds))
	return &client
}

// SnapScriptURL returns the checkout script URL for the credential's
// environment. The client embeds it with the data-client-key attribute.
func SnapScriptURL(creds model.MerchantCredentials) string {
	if creds.IsProduction {
		return snapScriptProduction
	}
	return snapScriptSandbox
}

// SnapGateway is the production token creator: a fresh Snap client per call,
// bound to whichever merchant account the checkout routed to.
type SnapGateway struct{}

func (SnapGateway) CreateTransaction(creds model.MerchantCredentials, req *snap.Request) (*snap.Response, *midtrans.Error) {
	return SnapClientFor(creds).CreateTransaction(req)
}

// CoreGateway is the production status checker.
type CoreGateway struct{}

func (CoreGateway) CheckTransaction(creds model.MerchantCredentials, orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	return CoreClientFor(creds).CheckTransaction(orderID)
}

// VerifySignature checks the sha512 notification signature:
// sha512(order_id + status_code + gross_amount + server_key).
func VerifySignature(
	orderID string,
	statusCode string,
	grossAmount string,
	signature string,
	serverKey string,
) bool {

	raw := orderID + statusCode + grossAmount + serverKey
	hash := sha512.Sum512([]byte(raw))
	expected := hex.EncodeToString(hash[:])

	return expected == signature
}

// TestConnection probes whether a server key is valid for the given
// environment. Midtrans has no ping endpoint, so we look up an order id that
// cannot exist: 404 means the key authenticated, 401 means it did not.
func TestConnection(serverKey string, isProduction bool) error {
	client := CoreClientFor(model.MerchantCredentials{
		ServerKey:    serverKey,
		IsProduction: isProduction,
	})

	_, err := client.CheckTransaction("connection-probe-nonexistent-order")
	if err == nil {
		return nil
	}
	if err.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}

// TruncatedMessage flattens a gateway error into a short user-safe string.
// Midtrans error messages can carry several lines of internals; callers show
// at most the first sentence.
func TruncatedMessage(err *midtrans.Error) string {
	if err == nil {
		return ""
	}
	msg := err.Message
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	if len(msg) > 140 {
		msg = msg[:140]
	}
	return msg
}
