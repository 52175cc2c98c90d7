package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/escrow-backend/internal/http/handlers/common"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

type DisputeHandler struct {
	disputes *service.DisputeService
}

func NewDisputeHandler(disputes *service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

// Open POST /escrows/:escrowID/dispute
func (h *DisputeHandler) Open(c *gin.Context) {
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

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	dispute, err := h.disputes.Open(c.Request.Context(), identity, escrowID, req.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dispute)
}

// Resolve POST /disputes/:disputeID/resolve
func (h *DisputeHandler) Resolve(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	disputeID, err := common.ParseUUIDParam(c, "disputeID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Outcome              string  `json:"outcome" binding:"required"`
		AdminNotes           *string `json:"admin_notes"`
		SplitPercentToClient *int64  `json:"split_percent_to_client"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	dispute, err := h.disputes.Resolve(c.Request.Context(), identity, disputeID, service.ResolveDisputeInput{
		Outcome:              req.Outcome,
		AdminNotes:           req.AdminNotes,
		SplitPercentToClient: req.SplitPercentToClient,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

// Get GET /disputes/:disputeID
func (h *DisputeHandler) Get(c *gin.Context) {
	disputeID, err := common.ParseUUIDParam(c, "disputeID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	dispute, err := h.disputes.Get(c.Request.Context(), disputeID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

// GetForEscrow GET /escrows/:escrowID/dispute
func (h *DisputeHandler) GetForEscrow(c *gin.Context) {
	escrowID, err := common.ParseUUIDParam(c, "escrowID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	dispute, err := h.disputes.GetByEscrow(c.Request.Context(), escrowID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

// ListMine GET /disputes
func (h *DisputeHandler) ListMine(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	disputes, err := h.disputes.ListByUser(c.Request.Context(), identity, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, disputes)
}
