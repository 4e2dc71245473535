package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
)

func signatureFor(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func TestVerifyNotificationSignature(t *testing.T) {
	orderID := "premium-user-1-1-aa"
	serverKey := "server-key"
	valid := signatureFor(orderID, "200", "40000.00", serverKey)

	cases := []struct {
		name         string
		signatureKey string
		want         bool
	}{
		{"valid", valid, true},
		{"valid uppercase hex", strings.ToUpper(valid), true},
		{"valid with whitespace", "  " + valid + "  ", true},
		{"tampered", signatureFor(orderID, "200", "99999.00", serverKey), false},
		{"wrong key", signatureFor(orderID, "200", "40000.00", "other-key"), false},
		{"garbage", "deadbeef", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := VerifyNotificationSignature(orderID, "200", "40000.00", serverKey, tc.signatureKey)
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestVerifyNotificationSignatureEmptyServerKey(t *testing.T) {
	if VerifyNotificationSignature("order", "200", "1.00", "", "abc") {
		t.Fatal("empty server key must never verify")
	}
}
