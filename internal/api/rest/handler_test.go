package rest_test

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/push-name-service/pns-indexer/internal/api/middleware"
	"github.com/push-name-service/pns-indexer/internal/api/rest"
	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/mocks"
	"github.com/push-name-service/pns-indexer/internal/ownerindex"
	"github.com/push-name-service/pns-indexer/internal/reconciler"
	"github.com/push-name-service/pns-indexer/internal/resolver"
	"github.com/push-name-service/pns-indexer/internal/store/schema"
	"github.com/push-name-service/pns-indexer/internal/webhook"
)

const (
	testWebhookSecret = "whsec_test"
	testAPIKey        = "test-api-key"
	testOwner         = "0xabcdef0123456789abcdef0123456789abcdef01"
)

type testHandlerMocks struct {
	ctrl    *gomock.Controller
	gateway *mocks.MockGateway
	store   *mocks.MockStore
	clock   *mocks.MockClock
	now     time.Time
	router  *gin.Engine
}

// setupTestHandler wires a full router over mocked chain and store
// dependencies, mirroring the production composition in cmd/api.
func setupTestHandler(t *testing.T) *testHandlerMocks {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	tm := &testHandlerMocks{
		ctrl:    ctrl,
		gateway: mocks.NewMockGateway(ctrl),
		store:   mocks.NewMockStore(ctrl),
		clock:   mocks.NewMockClock(ctrl),
		now:     time.Now().UTC(),
	}
	tm.clock.EXPECT().Now().Return(tm.now).AnyTimes()

	rslv := resolver.New(tm.gateway, tm.clock)
	owners := ownerindex.New(tm.gateway, tm.store, tm.clock, ownerindex.Config{})
	rec := reconciler.New(tm.gateway, tm.store, tm.clock, reconciler.Config{Chain: domain.Chain("push:donut")})

	handler := rest.NewHandler(rslv, owners, rec, tm.store, tm.clock, testWebhookSecret)

	tm.router = gin.New()
	rest.SetupRoutes(tm.router, handler, middleware.AuthConfig{APIKeys: []string{testAPIKey}})
	return tm
}

func (tm *testHandlerMocks) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	tm.router.ServeHTTP(rr, req)
	return rr
}

// signedRequest builds a webhook POST with valid signature headers
func (tm *testHandlerMocks) signedRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/webhook", strings.NewReader(body))
	ts := tm.now.Unix()
	req.Header.Set(webhook.HeaderTimestamp, fmt.Sprintf("%d", ts))
	req.Header.Set(webhook.HeaderSignature, webhook.Sign(testWebhookSecret, ts, []byte(body)))
	return req
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) (code, message string) {
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code, resp.Error.Message
}

func TestHealthCheck(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestSyncWebhook_RegistersName(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	expiry := tm.now.Add(365 * 24 * time.Hour).Unix()
	body := fmt.Sprintf(`{"name":"Alice","owner":%q,"expiresAt":%d,"transactionHash":"0xdead","blockNumber":42}`,
		testOwner, expiry)

	tm.store.EXPECT().GetNameDocument(gomock.Any(), "alice").Return(nil, nil)
	tm.gateway.EXPECT().GetMetadata(gomock.Any(), "alice").Return(domain.Metadata{}, nil)
	tm.store.EXPECT().CreateNameDocuments(gomock.Any(), gomock.Len(1)).Return(int64(1), nil)

	rr := tm.serve(tm.signedRequest(body))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"synced":true}`, rr.Body.String())
}

func TestSyncWebhook_IdempotentReplay(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	body := fmt.Sprintf(`{"name":"alice","owner":%q}`, testOwner)
	tm.store.EXPECT().GetNameDocument(gomock.Any(), "alice").
		Return(&schema.NameDocument{Name: "alice"}, nil)

	rr := tm.serve(tm.signedRequest(body))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"synced":false}`, rr.Body.String())
}

func TestSyncWebhook_RejectsBadSignature(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	body := fmt.Sprintf(`{"name":"alice","owner":%q}`, testOwner)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/webhook", strings.NewReader(body))
	req.Header.Set(webhook.HeaderTimestamp, fmt.Sprintf("%d", tm.now.Unix()))
	req.Header.Set(webhook.HeaderSignature, webhook.Sign("wrong-secret", tm.now.Unix(), []byte(body)))

	rr := tm.serve(req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	code, _ := decodeError(t, rr)
	assert.Equal(t, "unauthorized", code)
}

func TestSyncWebhook_RejectsMissingSignature(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	body := fmt.Sprintf(`{"name":"alice","owner":%q}`, testOwner)
	rr := tm.serve(httptest.NewRequest(http.MethodPost, "/api/v1/sync/webhook", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSyncWebhook_RejectsStaleTimestamp(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	body := fmt.Sprintf(`{"name":"alice","owner":%q}`, testOwner)
	stale := tm.now.Add(-10 * time.Minute).Unix()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/webhook", strings.NewReader(body))
	req.Header.Set(webhook.HeaderTimestamp, fmt.Sprintf("%d", stale))
	req.Header.Set(webhook.HeaderSignature, webhook.Sign(testWebhookSecret, stale, []byte(body)))

	rr := tm.serve(req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSyncWebhook_InvalidJSON(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	rr := tm.serve(tm.signedRequest(`{not json`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	code, _ := decodeError(t, rr)
	assert.Equal(t, "bad_request", code)
}

func TestSyncWebhook_MissingRequiredFields(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	rr := tm.serve(tm.signedRequest(`{"name":"alice"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSyncWebhook_UnrecognizedEventDefaultsToRegistered(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	// unrecognized event strings fall back to name.registered
	body := fmt.Sprintf(`{"event":"name.minted","name":"alice","owner":%q}`, testOwner)
	tm.store.EXPECT().GetNameDocument(gomock.Any(), "alice").Return(nil, nil)
	tm.gateway.EXPECT().GetMetadata(gomock.Any(), "alice").Return(domain.Metadata{}, nil)
	tm.store.EXPECT().CreateNameDocuments(gomock.Any(), gomock.Len(1)).Return(int64(1), nil)

	rr := tm.serve(tm.signedRequest(body))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSyncWebhook_StoreFailure(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	body := fmt.Sprintf(`{"name":"alice","owner":%q}`, testOwner)
	tm.store.EXPECT().GetNameDocument(gomock.Any(), "alice").
		Return(nil, fmt.Errorf("connection reset"))

	rr := tm.serve(tm.signedRequest(body))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	code, _ := decodeError(t, rr)
	assert.Equal(t, "internal_error", code)
}

func TestSyncWebhook_MethodNotAllowed(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/sync/webhook", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestGetName_Available(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().IsNameAvailable(gomock.Any(), "alice").Return(true, nil)
	tm.gateway.EXPECT().RegistrationFee(gomock.Any(), gomock.Any()).Return(big.NewInt(5000), nil)
	tm.gateway.EXPECT().BaseFeeAndMultiplier(gomock.Any()).Return(big.NewInt(1000), big.NewInt(5), nil)

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/names/Alice", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var dto struct {
		Name      string `json:"name"`
		Status    string `json:"status"`
		Fee       string `json:"fee"`
		IsPremium bool   `json:"is_premium"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, "alice", dto.Name)
	assert.Equal(t, "available", dto.Status)
	assert.Equal(t, "5000", dto.Fee)
	assert.True(t, dto.IsPremium)
}

func TestGetName_Taken(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	record := &domain.NameRecord{
		Name:      "alice",
		NameHash:  common.HexToHash("0x01"),
		Owner:     testOwner,
		ExpiresAt: tm.now.Add(24 * time.Hour),
	}
	tm.gateway.EXPECT().IsNameAvailable(gomock.Any(), "alice").Return(false, nil)
	tm.gateway.EXPECT().GetNameRecord(gomock.Any(), "alice").Return(record, nil)

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/names/alice", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var dto struct {
		Status string `json:"status"`
		Record struct {
			Owner string `json:"owner"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, "taken", dto.Status)
	assert.Equal(t, testOwner, dto.Record.Owner)
}

func TestGetName_InGrace(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	record := &domain.NameRecord{
		Name:      "alice",
		Owner:     testOwner,
		ExpiresAt: tm.now.Add(-24 * time.Hour),
	}
	tm.gateway.EXPECT().IsNameAvailable(gomock.Any(), "alice").Return(false, nil)
	tm.gateway.EXPECT().GetNameRecord(gomock.Any(), "alice").Return(record, nil)
	tm.gateway.EXPECT().GracePeriod(gomock.Any()).Return(30*24*time.Hour, nil)

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/names/alice", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var dto struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, "in_grace", dto.Status)
}

func TestGetName_NotFound(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().IsNameAvailable(gomock.Any(), "ghost").Return(false, nil)
	tm.gateway.EXPECT().GetNameRecord(gomock.Any(), "ghost").
		Return(nil, fmt.Errorf("%w: ghost", domain.ErrNameNotFound))

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/names/ghost", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	code, _ := decodeError(t, rr)
	assert.Equal(t, "not_found", code)
}

func TestGetName_ChainUnavailable(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().IsNameAvailable(gomock.Any(), "alice").
		Return(false, fmt.Errorf("%w: dial tcp", domain.ErrChainUnavailable))

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/names/alice", nil))

	// never downgraded to "available" when the ledger cannot answer
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	code, _ := decodeError(t, rr)
	assert.Equal(t, "chain_unavailable", code)
}

func TestGetAddressName_ReturnsPrimaryName(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().ReverseLookup(gomock.Any(), common.HexToAddress(testOwner)).
		Return("alice", nil)

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/addresses/"+testOwner+"/name", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"address":%q,"name":"alice"}`, testOwner), rr.Body.String())
}

func TestGetAddressName_InvalidAddress(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/addresses/not-an-address/name", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	code, _ := decodeError(t, rr)
	assert.Equal(t, "validation_error", code)
}

func TestGetAddressName_NoPrimaryName(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().ReverseLookup(gomock.Any(), common.HexToAddress(testOwner)).
		Return("", fmt.Errorf("%w: no primary name", domain.ErrNameNotFound))

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/addresses/"+testOwner+"/name", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	code, _ := decodeError(t, rr)
	assert.Equal(t, "not_found", code)
}

func TestGetAddressName_ChainUnavailable(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().ReverseLookup(gomock.Any(), common.HexToAddress(testOwner)).
		Return("", fmt.Errorf("%w: dial tcp", domain.ErrChainUnavailable))

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/addresses/"+testOwner+"/name", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	code, _ := decodeError(t, rr)
	assert.Equal(t, "chain_unavailable", code)
}

func TestListOwnerNames_FromCache(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	docs := []schema.NameDocument{{
		Name:            "alice",
		NameHash:        common.HexToHash("0x01").Hex(),
		Owner:           testOwner,
		RegisteredAt:    tm.now.Add(-time.Hour),
		ExpiresAt:       tm.now.Add(24 * time.Hour),
		OriginNamespace: "push",
		OriginChainID:   "42101",
		Metadata:        datatypes.JSON([]byte(`{}`)),
	}}
	tm.store.EXPECT().ListActiveNamesByOwner(gomock.Any(), testOwner, tm.now).Return(docs, nil)

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/owners/"+testOwner+"/names", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var dto struct {
		Owner  string `json:"owner"`
		Source string `json:"source"`
		Names  []struct {
			Name string `json:"name"`
		} `json:"names"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, testOwner, dto.Owner)
	assert.Equal(t, "cache", dto.Source)
	require.Len(t, dto.Names, 1)
	assert.Equal(t, "alice", dto.Names[0].Name)
}

func TestListOwnerNames_FromChain(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().HeadBlock(gomock.Any()).Return(uint64(100000), nil)
	tm.gateway.EXPECT().NamesByOwnerLogs(gomock.Any(), common.HexToAddress(testOwner), uint64(50000), uint64(100000)).
		Return([]domain.RegistrationEvent{{Name: "alice", Owner: testOwner}}, false, nil)
	tm.gateway.EXPECT().GetNameRecord(gomock.Any(), "alice").Return(&domain.NameRecord{
		Name:      "alice",
		Owner:     testOwner,
		ExpiresAt: tm.now.Add(24 * time.Hour),
	}, nil)

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/owners/"+testOwner+"/names?source=chain", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var dto struct {
		Source  string `json:"source"`
		Partial bool   `json:"partial"`
		Names   []struct {
			Name string `json:"name"`
		} `json:"names"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.Equal(t, "chain", dto.Source)
	assert.False(t, dto.Partial)
	require.Len(t, dto.Names, 1)
}

func TestListOwnerNames_InvalidAddress(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/owners/not-an-address/names", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	code, _ := decodeError(t, rr)
	assert.Equal(t, "validation_failed", code)
}

func TestListOwnerNames_ChainUnavailable(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().HeadBlock(gomock.Any()).
		Return(uint64(0), fmt.Errorf("%w: dial tcp", domain.ErrChainUnavailable))

	rr := tm.serve(httptest.NewRequest(http.MethodGet, "/api/v1/owners/"+testOwner+"/names?source=chain", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRefreshOwner_RequiresAuth(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	rr := tm.serve(httptest.NewRequest(http.MethodPost, "/api/v1/owners/"+testOwner+"/refresh", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshOwner_RejectsWrongAPIKey(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/owners/"+testOwner+"/refresh", nil)
	req.Header.Set("Authorization", "ApiKey wrong-key")

	rr := tm.serve(req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshOwner_WritesThrough(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().HeadBlock(gomock.Any()).Return(uint64(100000), nil)
	tm.gateway.EXPECT().NamesByOwnerLogs(gomock.Any(), common.HexToAddress(testOwner), uint64(50000), uint64(100000)).
		Return([]domain.RegistrationEvent{{Name: "alice", Owner: testOwner}}, false, nil)
	tm.gateway.EXPECT().GetNameRecord(gomock.Any(), "alice").Return(&domain.NameRecord{
		Name:      "alice",
		Owner:     testOwner,
		ExpiresAt: tm.now.Add(24 * time.Hour),
	}, nil)
	tm.store.EXPECT().SaveNameDocument(gomock.Any(), gomock.Any()).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/owners/"+testOwner+"/refresh", nil)
	req.Header.Set("Authorization", "ApiKey "+testAPIKey)

	rr := tm.serve(req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"refreshed":1,"partial":false}`, rr.Body.String())
}

func TestRefreshOwner_CacheWriteFailureIsPartialCount(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gateway.EXPECT().HeadBlock(gomock.Any()).Return(uint64(100000), nil)
	tm.gateway.EXPECT().NamesByOwnerLogs(gomock.Any(), common.HexToAddress(testOwner), uint64(50000), uint64(100000)).
		Return([]domain.RegistrationEvent{{Name: "alice", Owner: testOwner}}, false, nil)
	tm.gateway.EXPECT().GetNameRecord(gomock.Any(), "alice").Return(&domain.NameRecord{
		Name:      "alice",
		Owner:     testOwner,
		ExpiresAt: tm.now.Add(24 * time.Hour),
	}, nil)
	tm.store.EXPECT().SaveNameDocument(gomock.Any(), gomock.Any()).Return(fmt.Errorf("connection reset"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/owners/"+testOwner+"/refresh", nil)
	req.Header.Set("Authorization", "ApiKey "+testAPIKey)

	rr := tm.serve(req)

	// a cache write failure skips the record but the refresh still succeeds
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"refreshed":0,"partial":false}`, rr.Body.String())
}
