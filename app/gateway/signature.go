package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// VerifyNotificationSignature checks the signature_key field of a Midtrans
// notification: sha512 over order_id + status_code + gross_amount + server
// key, hex encoded. Returns false for empty inputs so a missing signature can
// never pass.
func VerifyNotificationSignature(orderID, statusCode, grossAmount, serverKey, signatureKey string) bool {
	sig := strings.ToLower(strings.TrimSpace(signatureKey))
	if sig == "" || serverKey == "" {
		return false
	}

	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) == 1
}
