package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/escrow-backend/internal/http/handlers/common"
	"github.com/ignatzorin/escrow-backend/internal/service"
)

type ProfileHandler struct {
	users *service.UserService
}

func NewProfileHandler(users *service.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Register POST /users/register
func (h *ProfileHandler) Register(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.users.Register(c.Request.Context(), identity, req.Username, req.Role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// UpgradeToPremium POST /users/premium
func (h *ProfileHandler) UpgradeToPremium(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	profile, err := h.users.UpgradeToPremium(c.Request.Context(), identity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile GET /users/:ownerID
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ownerID, err := common.ParseUUIDParam(c, "ownerID")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), ownerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetBalance GET /users/balance
func (h *ProfileHandler) GetBalance(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	balance, err := h.users.GetBalance(c.Request.Context(), identity)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// Deposit POST /users/deposit
func (h *ProfileHandler) Deposit(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Amount int64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "сумма должна быть положительной")
		return
	}

	transaction, err := h.users.Deposit(c.Request.Context(), identity, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// ListTransactions GET /users/transactions
func (h *ProfileHandler) ListTransactions(c *gin.Context) {
	identity, err := common.CallerIdentity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	transactions, err := h.users.ListTransactions(c.Request.Context(), identity, limit, offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}
