package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks that a claimed payment completion is authentic. The
// gateway signs "{orderId}|{paymentId}" with HMAC-SHA256 keyed by the shared
// secret; we recompute and compare. A mismatch is a security boundary, not a
// retryable error.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign returns the hex encoded expected signature for an order/payment pair.
func (v *Verifier) Sign(gatewayOrderId, gatewayPaymentId string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderId + "|" + gatewayPaymentId))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the claimed signature matches the expected one.
// Constant-time compare.
func (v *Verifier) Verify(gatewayOrderId, gatewayPaymentId, signature string) bool {
	expected := v.Sign(gatewayOrderId, gatewayPaymentId)
	return hmac.Equal([]byte(expected), []byte(signature))
}
