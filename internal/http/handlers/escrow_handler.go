package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/escrow-backend/internal/http/handlers/common"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

type EscrowHandler struct {
	escrows *service.EscrowService
}

func NewEscrowHandler(escrows *service.EscrowService) *EscrowHandler {
	return &EscrowHandler{escrows: escrows}
}

// Create POST /escrows
func (h *EscrowHandler) Create(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		FreelancerID uuid.UUID  `json:"freelancer_id" binding:"required"`
		ListingID    string     `json:"listing_id" binding:"required"`
		OrderID      string     `json:"order_id" binding:"required"`
		PackageType  string     `json:"package_type" binding:"required"`
		ReferrerID   *uuid.UUID `json:"referrer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	escrow, err := h.escrows.Create(c.Request.Context(), identity, service.CreateEscrowInput{
		FreelancerID: req.FreelancerID,
		ListingID:    req.ListingID,
		OrderID:      req.OrderID,
		PackageType:  req.PackageType,
		ReferrerID:   req.ReferrerID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, escrow)
}

// Approve POST /escrows/:escrowID/approve
func (h *EscrowHandler) Approve(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	escrowID, err := common.ParseUUIDParam(c, "escrowID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	escrow, err := h.escrows.ApproveAndRelease(c.Request.Context(), identity, escrowID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, escrow)
}

// Get GET /escrows/:escrowID
func (h *EscrowHandler) Get(c *gin.Context) {
	escrowID, err := common.ParseUUIDParam(c, "escrowID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	escrow, err := h.escrows.Get(c.Request.Context(), escrowID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, escrow)
}

// GetVault GET /escrows/:escrowID/vault
func (h *EscrowHandler) GetVault(c *gin.Context) {
	escrowID, err := common.ParseUUIDParam(c, "escrowID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	vault, err := h.escrows.GetVault(c.Request.Context(), escrowID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, vault)
}
