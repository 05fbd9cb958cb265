package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Tombstone73/quotevault-backend/internal/modules/configurator"
	"github.com/Tombstone73/quotevault-backend/internal/services"
)

type ConfiguratorHandler struct {
	configuratorService services.ConfiguratorService
}

func NewConfiguratorHandler(configuratorService services.ConfiguratorService) *ConfiguratorHandler {
	return &ConfiguratorHandler{configuratorService: configuratorService}
}

type previewRequest struct {
	Selections  configurator.Selections `json:"selections"`
	Quantity    int                     `json:"quantity"`
	WidthIn     *float64                `json:"width_in"`
	HeightIn    *float64                `json:"height_in"`
	PricingTier string                  `json:"pricing_tier"`
}

// Preview evaluates ad-hoc inputs against a tree version without touching
// any line item. Draft versions are allowed here.
func (h *ConfiguratorHandler) Preview(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := h.configuratorService.Preview(c.Request.Context(), versionID, services.PreviewInput{
		Selections:  req.Selections,
		Quantity:    req.Quantity,
		WidthIn:     req.WidthIn,
		HeightIn:    req.HeightIn,
		PricingTier: req.PricingTier,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"result": res})
}

type recomputeRequest struct {
	Selections configurator.Selections `json:"selections"`
}

func (h *ConfiguratorHandler) Recompute(c *gin.Context) {
	lineItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req recomputeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}
	snap, err := h.configuratorService.Recompute(c.Request.Context(), lineItemID, req.Selections)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"snapshot": snap})
}

func (h *ConfiguratorHandler) Staleness(c *gin.Context) {
	lineItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	report, err := h.configuratorService.Staleness(c.Request.Context(), lineItemID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"staleness": report})
}

type keepExistingRequest struct {
	Actor string `json:"actor"`
}

func (h *ConfiguratorHandler) KeepExisting(c *gin.Context) {
	lineItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req keepExistingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.configuratorService.KeepExisting(c.Request.Context(), lineItemID, req.Actor); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"acknowledged": true})
}
