package rest

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/domain"
	"github.com/push-name-service/pns-indexer/internal/logger"
	"github.com/push-name-service/pns-indexer/internal/ownerindex"
	"github.com/push-name-service/pns-indexer/internal/reconciler"
	"github.com/push-name-service/pns-indexer/internal/resolver"
	"github.com/push-name-service/pns-indexer/internal/store"
	"github.com/push-name-service/pns-indexer/internal/webhook"
)

// Handler holds the REST endpoint implementations
type Handler struct {
	resolver      *resolver.Resolver
	owners        *ownerindex.Builder
	reconciler    *reconciler.Reconciler
	store         store.Store
	clock         adapter.Clock
	webhookSecret string
}

// NewHandler creates a new REST handler
func NewHandler(r *resolver.Resolver, owners *ownerindex.Builder, rec *reconciler.Reconciler, st store.Store, clock adapter.Clock, webhookSecret string) *Handler {
	return &Handler{
		resolver:      r,
		owners:        owners,
		reconciler:    rec,
		store:         st,
		clock:         clock,
		webhookSecret: webhookSecret,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// SyncWebhook handles POST /api/v1/sync/webhook. The pushed event is a
// hint, not truth: required fields are validated, everything else is
// re-derived or re-verified before the cache changes.
func (h *Handler) SyncWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondBadRequest(c, "Failed to read request body")
		return
	}

	if h.webhookSecret != "" {
		if err := webhook.VerifySignature(
			h.webhookSecret,
			c.GetHeader(webhook.HeaderSignature),
			c.GetHeader(webhook.HeaderTimestamp),
			body,
			h.clock.Now(),
		); err != nil {
			respondUnauthorized(c, err.Error())
			return
		}
	}

	var payload webhook.RegistrationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondBadRequest(c, "Invalid JSON body", err.Error())
		return
	}

	if payload.Name == "" || payload.Owner == "" {
		respondBadRequest(c, "name and owner are required")
		return
	}

	synced, err := h.reconciler.ProcessEvent(c.Request.Context(), payload.ToEvent())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidationError(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to process event",
			zap.String("name", payload.Name))
		return
	}

	c.JSON(200, gin.H{"success": true, "synced": synced})
}

// GetName handles GET /api/v1/names/:name
func (h *Handler) GetName(c *gin.Context) {
	name := c.Param("name")

	avail, err := h.resolver.ResolveGrace(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			respondValidationError(c, err.Error())
		case errors.Is(err, domain.ErrNameNotFound):
			respondNotFound(c, "Name not found", name)
		default:
			respondChainUnavailable(c, err)
		}
		return
	}

	c.JSON(200, availabilityFromDomain(avail))
}

// GetAddressName handles GET /api/v1/addresses/:address/name: reverse
// resolution from an address to the name it claimed as primary.
func (h *Handler) GetAddressName(c *gin.Context) {
	address := c.Param("address")

	name, err := h.resolver.PrimaryName(c.Request.Context(), address)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			respondValidationError(c, err.Error())
		case errors.Is(err, domain.ErrNameNotFound):
			respondNotFound(c, "No primary name for address", address)
		default:
			respondChainUnavailable(c, err)
		}
		return
	}

	c.JSON(200, primaryNameDTO{
		Address: domain.NormalizeAddress(address),
		Name:    name,
	})
}

// ListOwnerNames handles GET /api/v1/owners/:address/names. The cache
// answers by default; ?source=chain forces the slower log-scan rebuild.
func (h *Handler) ListOwnerNames(c *gin.Context) {
	address := c.Param("address")

	var owned *ownerindex.OwnedNames
	var err error
	if c.Query("source") == "chain" {
		owned, err = h.owners.FromChain(c.Request.Context(), address)
	} else {
		owned, err = h.owners.NamesOwnedBy(c.Request.Context(), address)
	}
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidationError(c, err.Error())
			return
		}
		respondChainUnavailable(c, err)
		return
	}

	c.JSON(200, ownedNamesFromDomain(owned))
}

// RefreshOwner handles POST /api/v1/owners/:address/refresh: rebuild one
// owner's names from the ledger and write them through to the cache.
// Scoped to the single address; nothing else is touched.
func (h *Handler) RefreshOwner(c *gin.Context) {
	address := c.Param("address")

	owned, err := h.owners.FromChain(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidationError(c, err.Error())
			return
		}
		respondChainUnavailable(c, err)
		return
	}

	refreshed := 0
	for _, record := range owned.Names {
		doc, err := store.DocumentFromRecord(&record, "", 0)
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "refresh document build failed",
				zap.String("name", record.Name), zap.Error(err))
			continue
		}
		if err := h.store.SaveNameDocument(c.Request.Context(), &doc); err != nil {
			logger.WarnCtx(c.Request.Context(), "refresh cache write failed",
				zap.String("name", record.Name), zap.Error(err))
			continue
		}
		refreshed++
	}

	c.JSON(200, gin.H{
		"success":   true,
		"refreshed": refreshed,
		"partial":   owned.Partial,
	})
}
