// webhook/verify.go
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"

	"go.uber.org/zap"
)

// SignatureHeader carries the base64 HMAC-SHA256 digest FreshBooks computes
// over the raw request body.
const SignatureHeader = "X-FreshBooks-Hmac-SHA256"

// VerifySignature recomputes the HMAC-SHA256 of the raw body with the shared
// secret and compares it against the signature header. The body must be the
// exact bytes received on the wire; re-serializing parsed JSON would change
// them and break verification. Any missing input is treated as unverified,
// never as a distinct error.
func VerifySignature(header http.Header, body []byte, secret string, logger *zap.Logger) bool {
	signature := header.Get(SignatureHeader)
	if signature == "" {
		logger.Warn("webhook request carries no signature header")
		return false
	}
	if secret == "" {
		logger.Warn("no webhook secret configured")
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}
