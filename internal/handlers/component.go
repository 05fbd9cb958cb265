package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Tombstone73/quotevault-backend/internal/services"
)

type ComponentHandler struct {
	componentService services.ComponentService
}

func NewComponentHandler(componentService services.ComponentService) *ComponentHandler {
	return &ComponentHandler{componentService: componentService}
}

func (h *ComponentHandler) Apply(c *gin.Context) {
	lineItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	res, err := h.componentService.Apply(c.Request.Context(), lineItemID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, res)
}

func (h *ComponentHandler) AcceptAll(c *gin.Context) {
	lineItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	res, err := h.componentService.AcceptAll(c.Request.Context(), lineItemID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, res)
}

func (h *ComponentHandler) List(c *gin.Context) {
	lineItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	acceptedOnly := c.Query("status") == "accepted"
	rows, err := h.componentService.List(c.Request.Context(), lineItemID, acceptedOnly)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"components": rows})
}

func (h *ComponentHandler) Void(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	row, err := h.componentService.Void(c.Request.Context(), componentID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"component": row})
}
