package razorpaywebhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify_ValidSignature(t *testing.T) {
	v := &Verifier{Secret: "secret123"}
	body := []byte(`{"event":"payment.captured"}`)

	if !v.Verify(body, sign(body, "secret123")) {
		t.Error("valid signature rejected")
	}
}

func TestVerify_WrongSignature(t *testing.T) {
	v := &Verifier{Secret: "secret123"}
	body := []byte(`{"event":"payment.captured"}`)

	if v.Verify(body, sign(body, "othersecret")) {
		t.Error("signature from wrong secret accepted")
	}
}

func TestVerify_NoSecretFailsOpen(t *testing.T) {
	v := &Verifier{Secret: ""}

	if !v.Verify([]byte("{}"), "whatever") {
		t.Error("missing secret must fail open")
	}
}

func TestVerify_NoSignatureFailsOpen(t *testing.T) {
	v := &Verifier{Secret: "secret123"}

	if !v.Verify([]byte("{}"), "") {
		t.Error("missing signature header must fail open")
	}
}

func TestVerify_MalformedSignatureFailsClosed(t *testing.T) {
	v := &Verifier{Secret: "secret123"}

	// Present but not hex: fail closed, unlike the missing cases.
	if v.Verify([]byte("{}"), "not-hex-at-all!") {
		t.Error("malformed signature must fail closed")
	}
}

func TestVerify_RequireSignatureClosesTheOpenPaths(t *testing.T) {
	noSecret := &Verifier{Secret: "", RequireSignature: true}
	if noSecret.Verify([]byte("{}"), "abc") {
		t.Error("RequireSignature with no secret must reject")
	}

	noHeader := &Verifier{Secret: "secret123", RequireSignature: true}
	if noHeader.Verify([]byte("{}"), "") {
		t.Error("RequireSignature with no header must reject")
	}

	body := []byte("{}")
	ok := &Verifier{Secret: "secret123", RequireSignature: true}
	if !ok.Verify(body, sign(body, "secret123")) {
		t.Error("RequireSignature must still accept a valid signature")
	}
}
