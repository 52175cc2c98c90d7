package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/escrow-backend/internal/http/handlers/common"
	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

type ListingHandler struct {
	listings *service.ListingService
}

func NewListingHandler(listings *service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Create POST /listings
func (h *ListingHandler) Create(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		ListingID     string `json:"listing_id" binding:"required"`
		Title         string `json:"title" binding:"required"`
		Description   string `json:"description" binding:"required"`
		Category      string `json:"category" binding:"required"`
		StandardPrice int64  `json:"standard_price" binding:"required,gt=0"`
		DeluxePrice   *int64 `json:"deluxe_price"`
		PremiumPrice  *int64 `json:"premium_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), identity, service.CreateListingInput{
		ListingID:     req.ListingID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		StandardPrice: req.StandardPrice,
		DeluxePrice:   req.DeluxePrice,
		PremiumPrice:  req.PremiumPrice,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// Update PATCH /listings/:freelancerID/:listingID
// Отсутствующие в теле поля не меняются.
func (h *ListingHandler) Update(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	freelancerID, err := common.ParseUUIDParam(c, "freelancerID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var upd models.ListingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.Update(c.Request.Context(), identity, freelancerID, c.Param("listingID"), upd)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Get GET /listings/:freelancerID/:listingID
func (h *ListingHandler) Get(c *gin.Context) {
	freelancerID, err := common.ParseUUIDParam(c, "freelancerID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.Get(c.Request.Context(), freelancerID, c.Param("listingID"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// ListByFreelancer GET /listings/:freelancerID
func (h *ListingHandler) ListByFreelancer(c *gin.Context) {
	freelancerID, err := common.ParseUUIDParam(c, "freelancerID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	listings, err := h.listings.ListByFreelancer(c.Request.Context(), freelancerID, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, listings)
}
