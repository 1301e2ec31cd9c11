package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Signature headers on inbound webhook requests
const (
	HeaderSignature = "X-PNS-Signature"
	HeaderTimestamp = "X-PNS-Timestamp"

	// maxTimestampSkew bounds replay: a signed request older than this is
	// rejected even with a valid signature.
	maxTimestampSkew = 5 * time.Minute
)

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// Sign computes the signature header value for a body at a timestamp.
// The signed string is "{timestamp}.{body}" and the header format is
// "sha256=<hex>". Exported for senders and tests.
func Sign(secret string, timestamp int64, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.", timestamp)
	h.Write(body)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks an inbound request's signature and timestamp.
// Comparison is constant time.
func VerifySignature(secret, signatureHeader, timestampHeader string, body []byte, now time.Time) error {
	timestamp, err := strconv.ParseInt(timestampHeader, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp header: %w", err)
	}

	age := now.Sub(unixTime(timestamp))
	if age > maxTimestampSkew || age < -maxTimestampSkew {
		return fmt.Errorf("timestamp outside allowed window")
	}

	expected := Sign(secret, timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(signatureHeader)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}
