package webhook_test

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/webhook"
)

const testSecret = "test-webhook-secret"

func signedHeaders(secret string, at time.Time, body []byte) (string, string) {
	return webhook.Sign(secret, at.Unix(), body), strconv.FormatInt(at.Unix(), 10)
}

func TestVerifySignature_Valid(t *testing.T) {
	now := time.Now()
	body := []byte(`{"name":"alice"}`)
	sig, ts := signedHeaders(testSecret, now, body)

	err := webhook.VerifySignature(testSecret, sig, ts, body, now)

	assert.NoError(t, err)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	now := time.Now()
	body := []byte(`{"name":"alice"}`)
	sig, ts := signedHeaders("other-secret", now, body)

	err := webhook.VerifySignature(testSecret, sig, ts, body, now)

	assert.ErrorContains(t, err, "signature mismatch")
}

func TestVerifySignature_TamperedBody(t *testing.T) {
	now := time.Now()
	sig, ts := signedHeaders(testSecret, now, []byte(`{"name":"alice"}`))

	err := webhook.VerifySignature(testSecret, sig, ts, []byte(`{"name":"mallory"}`), now)

	assert.ErrorContains(t, err, "signature mismatch")
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	now := time.Now()
	body := []byte(`{"name":"alice"}`)
	sig, ts := signedHeaders(testSecret, now.Add(-6*time.Minute), body)

	err := webhook.VerifySignature(testSecret, sig, ts, body, now)

	assert.ErrorContains(t, err, "timestamp outside allowed window")
}

func TestVerifySignature_FutureTimestamp(t *testing.T) {
	now := time.Now()
	body := []byte(`{"name":"alice"}`)
	sig, ts := signedHeaders(testSecret, now.Add(6*time.Minute), body)

	err := webhook.VerifySignature(testSecret, sig, ts, body, now)

	assert.ErrorContains(t, err, "timestamp outside allowed window")
}

func TestVerifySignature_BadTimestampHeader(t *testing.T) {
	err := webhook.VerifySignature(testSecret, "sha256=00", "not-a-number", nil, time.Now())

	assert.ErrorContains(t, err, "invalid timestamp header")
}

func TestSign_Format(t *testing.T) {
	sig := webhook.Sign(testSecret, 1700000000, []byte("body"))

	assert.Regexp(t, fmt.Sprintf("^sha256=[0-9a-f]{%d}$", 64), sig)
}

func TestRegistrationPayload_ToEvent(t *testing.T) {
	payload := webhook.RegistrationPayload{
		Event:                webhook.EventTypeRenewed,
		Name:                 "Alice",
		Owner:                "0xABCDEF0123456789abcdef0123456789ABCDEF01",
		ExpiresAt:            1700000000,
		IsPremium:            true,
		NameHash:             "0x9c0257114eb9399a2985f8e75dad7600c5d89fe3824ffa99ec1c3eb8bf3b0501",
		TransactionHash:      "0xdeadbeef",
		BlockNumber:          123,
		OriginChainNamespace: "eip155",
		OriginChainID:        "1",
	}

	ev := payload.ToEvent()

	assert.Equal(t, domain.EventKindRenewed, ev.Kind)
	assert.Equal(t, "Alice", ev.Name) // normalization happens downstream
	assert.Equal(t, int64(1700000000), ev.ExpiresAt.Unix())
	assert.True(t, ev.IsPremium)
	assert.Equal(t, "eip155:1", ev.Origin.String())
	assert.Equal(t, uint64(123), ev.BlockNumber)
}

func TestRegistrationPayload_ToEvent_DefaultsToRegistered(t *testing.T) {
	payload := webhook.RegistrationPayload{Name: "alice", Owner: "0xabcdef0123456789abcdef0123456789abcdef01"}

	ev := payload.ToEvent()

	assert.Equal(t, domain.EventKindRegistered, ev.Kind)
	assert.True(t, ev.ExpiresAt.IsZero())
}
