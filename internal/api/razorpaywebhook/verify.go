package razorpaywebhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"strings"
)

// Verifier checks the X-Razorpay-Signature header against an HMAC-SHA256 of
// the raw request body.
type Verifier struct {
	Secret string

	// RequireSignature switches off the historical fail-open behavior:
	// with it false (the default deployment), a missing secret or a missing
	// signature header lets the event through with a warning, because some
	// environments receive webhooks before the secret is configured.
	RequireSignature bool
}

// Verify returns whether the payload should be accepted.
//
// Asymmetry that callers depend on: absence of secret/signature is fail-open
// (unless RequireSignature), but a present-and-malformed signature is
// fail-closed.
func (v *Verifier) Verify(body []byte, signature string) bool {
	if v.Secret == "" {
		if v.RequireSignature {
			log.Println("❌ Webhook rejected: signature required but no secret configured")
			return false
		}
		log.Println("⚠️ RAZORPAY_WEBHOOK_SECRET not set — accepting webhook without verification")
		return true
	}
	if signature == "" {
		if v.RequireSignature {
			log.Println("❌ Webhook rejected: missing X-Razorpay-Signature")
			return false
		}
		log.Println("⚠️ Webhook arrived without X-Razorpay-Signature — accepting unverified")
		return true
	}

	mac := hmac.New(sha256.New, []byte(v.Secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		// Malformed header is fail-closed, unlike the missing cases above.
		return false
	}
	return subtle.ConstantTimeCompare(provided, expected) == 1
}
