package store

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/push-name-service/pns-indexer/internal/domain"
)

func TestDocumentFromEvent(t *testing.T) {
	expiry := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	ev := domain.RegistrationEvent{
		Kind:        domain.EventKindRegistered,
		Name:        " Alice ",
		NameHash:    common.HexToHash("0x01"),
		Owner:       "0xABCDEF0123456789abcdef0123456789ABCDEF01",
		ExpiresAt:   expiry,
		IsPremium:   true,
		Origin:      domain.OriginChain{Namespace: "eip155", ChainID: "1"},
		TxHash:      "0xdead",
		BlockNumber: 42,
	}

	doc, err := DocumentFromEvent(ev, domain.Metadata{"url": "https://example.com"})

	require.NoError(t, err)
	assert.Equal(t, "alice", doc.Name)
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", doc.Owner)
	assert.Equal(t, expiry, doc.ExpiresAt)
	// the event only carries the expiry; registration ran one year
	assert.Equal(t, expiry.AddDate(-1, 0, 0), doc.RegisteredAt)
	assert.True(t, doc.IsPremium)
	assert.JSONEq(t, `{"url":"https://example.com"}`, string(doc.Metadata))
}

func TestDocumentFromEvent_NilMetadata(t *testing.T) {
	ev := domain.RegistrationEvent{
		Name:      "alice",
		Owner:     "0xabcdef0123456789abcdef0123456789abcdef01",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	doc, err := DocumentFromEvent(ev, nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(doc.Metadata))
}

func TestRecordFromDocument_RoundTrip(t *testing.T) {
	rec := &domain.NameRecord{
		Name:         "alice",
		NameHash:     common.HexToHash("0x02"),
		Owner:        "0xabcdef0123456789abcdef0123456789abcdef01",
		RegisteredAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt:    time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
		IsPremium:    true,
		Origin:       domain.OriginChain{Namespace: "push", ChainID: "42101"},
		Metadata:     domain.Metadata{"github": "alice"},
	}

	doc, err := DocumentFromRecord(rec, "0xdead", 42)
	require.NoError(t, err)

	back, err := RecordFromDocument(&doc)
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}

func TestRecordFromDocument_CorruptMetadata(t *testing.T) {
	doc := buildTestDocument("alice", "0xowner1", time.Now())
	doc.Metadata = datatypes.JSON([]byte(`{not json`))

	_, err := RecordFromDocument(&doc)

	assert.ErrorContains(t, err, "unmarshal metadata")
}
