package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"raffleland/internal/identity"
	"raffleland/internal/ledger"
	"raffleland/internal/repository"
)

// AccountHandler exposes ledger accounts: funding, balances and the journal.
type AccountHandler struct {
	Ledger *ledger.Service
	Repo   repository.Repository
}

func (h *AccountHandler) Register(r *gin.Engine) {
	accounts := r.Group("/api/v1/accounts")
	accounts.POST("/deposit", h.deposit)
	accounts.GET("/:address/balance", h.balance)

	r.GET("/api/v1/ledger/entries", h.entries)
}

type depositRequest struct {
	Amount uint64 `json:"amount" binding:"required"`
}

// @Summary Fund the caller's account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body depositRequest true "deposit amount"
// @Success 200 {object} map[string]uint64
// @Router /api/v1/accounts/deposit [post]
func (h *AccountHandler) deposit(c *gin.Context) {
	if h.Ledger == nil {
		Error(c, http.StatusInternalServerError, "ledger unavailable", nil)
		return
	}
	caller := identity.Caller(c)
	if caller == "" {
		Error(c, http.StatusUnauthorized, "missing caller account", nil)
		return
	}
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.Ledger.Deposit(c.Request.Context(), uuid.NewString(), caller, req.Amount); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	balance, err := h.Ledger.Balance(c.Request.Context(), caller)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"balance": balance}, nil)
}

// @Summary Account balance
// @Tags accounts
// @Produce json
// @Param address path string true "account address"
// @Success 200 {object} map[string]uint64
// @Router /api/v1/accounts/{address}/balance [get]
func (h *AccountHandler) balance(c *gin.Context) {
	if h.Ledger == nil {
		Error(c, http.StatusInternalServerError, "ledger unavailable", nil)
		return
	}
	address := strings.TrimSpace(c.Param("address"))
	if address == "" {
		Error(c, http.StatusBadRequest, "missing address", nil)
		return
	}
	balance, err := h.Ledger.Balance(c.Request.Context(), address)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"balance": balance}, nil)
}

// @Summary List ledger journal entries
// @Tags accounts
// @Produce json
// @Param account query string false "account address"
// @Param raffle_id query int false "raffle id"
// @Param kind query string false "entry kind"
// @Success 200 {array} models.LedgerEntry
// @Router /api/v1/ledger/entries [get]
func (h *AccountHandler) entries(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	var account *string
	if v := strings.TrimSpace(c.Query("account")); v != "" {
		account = &v
	}
	var raffleID *uint64
	if v := strings.TrimSpace(c.Query("raffle_id")); v != "" {
		if id := parseUint64(v); id > 0 {
			raffleID = &id
		}
	}
	var kind *string
	if v := strings.TrimSpace(c.Query("kind")); v != "" {
		kind = &v
	}
	items, err := h.Repo.ListLedgerEntries(c.Request.Context(), repository.ListLedgerEntriesParams{
		Limit:    limit,
		Offset:   offset,
		Account:  account,
		RaffleID: raffleID,
		Kind:     kind,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, int64(len(items))))
}
