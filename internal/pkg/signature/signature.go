// Package signature validates payment confirmations reported by the gateway.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Verify reports whether sig is the hex HMAC-SHA256 of "orderID|paymentID"
// keyed by secret. The secret is trimmed of incidental whitespace; a blank
// secret always fails verification.
func Verify(orderID, paymentID, sig, secret string) bool {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return false
	}

	expected := Sign(orderID, paymentID, secret)

	// Constant-time comparison prevents timing attacks on the digest
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(sig)))
}

// Sign computes the gateway signature for an order/payment pair. Exported so
// tests and tooling can mint valid signatures.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(strings.TrimSpace(secret)))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
