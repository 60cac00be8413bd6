package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"raffleland/internal/identity"
	"raffleland/internal/models"
	"raffleland/internal/repository"
	"raffleland/internal/service"
)

// RaffleHandler exposes the raffle registry. Creation is asynchronous: the
// POST returns a correlation id immediately and resolution runs in the
// background, so the client polls the creation resource for the outcome.
type RaffleHandler struct {
	Service *service.RegistryService
	Repo    repository.Repository
	Logger  *zap.Logger

	// ResolveTimeout bounds one background resolution run.
	ResolveTimeout time.Duration
}

func (h *RaffleHandler) Register(r *gin.Engine) {
	raffles := r.Group("/api/v1/raffles")
	raffles.POST("", h.create)
	raffles.GET("", h.list)
	raffles.GET("/:id", h.get)
	raffles.GET("/:id/participants", h.participants)
	raffles.GET("/:id/winners", h.winners)
	raffles.POST("/:id/entries", h.enter)
	raffles.POST("/:id/close", h.close)

	creations := r.Group("/api/v1/creations")
	creations.GET("/:id", h.creation)

	r.GET("/api/v1/registry/counter", h.counter)
}

type createRaffleRequest struct {
	EndTime     time.Time            `json:"end_time" binding:"required"`
	TicketPrice uint64               `json:"ticket_price" binding:"required"`
	Prizes      []createPrizeRequest `json:"prizes" binding:"required"`
}

type createPrizeRequest struct {
	AssetID string `json:"asset_id" binding:"required"`
	Owner   string `json:"owner" binding:"required"`
}

// @Summary Request a new raffle
// @Tags raffles
// @Accept json
// @Produce json
// @Param request body createRaffleRequest true "raffle parameters"
// @Success 202 {object} models.PendingCreation
// @Router /api/v1/raffles [post]
func (h *RaffleHandler) create(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	caller := identity.Caller(c)
	var req createRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	svcReq := service.CreateRequest{
		EndTime:     req.EndTime,
		TicketPrice: req.TicketPrice,
	}
	for _, p := range req.Prizes {
		svcReq.Prizes = append(svcReq.Prizes, models.Prize{AssetID: p.AssetID, Owner: p.Owner})
	}

	pending, err := h.Service.BeginCreation(c.Request.Context(), caller, svcReq)
	if err != nil {
		Error(c, serviceStatus(err), err.Error(), nil)
		return
	}

	// Resolution must not run on the caller's stack; a fresh context keeps
	// it alive after the HTTP request returns.
	go h.resolve(pending.ID)

	Accepted(c, pending)
}

func (h *RaffleHandler) resolve(creationID string) {
	timeout := h.ResolveTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if _, err := h.Service.ResolveCreation(ctx, creationID); err != nil && h.Logger != nil {
		h.Logger.Warn("creation resolution failed",
			zap.String("creation_id", creationID),
			zap.Error(err),
		)
	}
}

// @Summary Look up a creation by correlation id
// @Tags raffles
// @Produce json
// @Param id path string true "creation id"
// @Success 200 {object} models.PendingCreation
// @Router /api/v1/creations/{id} [get]
func (h *RaffleHandler) creation(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	pending, err := h.Service.GetCreation(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, serviceStatus(err), err.Error(), nil)
		return
	}
	Ok(c, pending, nil)
}

// @Summary List raffles
// @Tags raffles
// @Produce json
// @Param status query string false "open or closed"
// @Param creator query string false "creator account"
// @Success 200 {array} models.Raffle
// @Router /api/v1/raffles [get]
func (h *RaffleHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	var status *string
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		status = &v
	}
	var creator *string
	if v := strings.TrimSpace(c.Query("creator")); v != "" {
		creator = &v
	}
	params := repository.ListRafflesParams{
		Limit:   limit,
		Offset:  offset,
		Status:  status,
		Creator: creator,
		OrderBy: "id",
		Asc:     boolPtr(false),
	}
	items, err := h.Repo.ListRaffles(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountRaffles(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get one raffle
// @Tags raffles
// @Produce json
// @Param id path int true "raffle id"
// @Success 200 {object} models.Raffle
// @Router /api/v1/raffles/{id} [get]
func (h *RaffleHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := parseUint64(c.Param("id"))
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid raffle id", nil)
		return
	}
	raffle, err := h.Repo.GetRaffleByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if raffle == nil {
		Error(c, http.StatusNotFound, "raffle not found", nil)
		return
	}
	Ok(c, raffle, nil)
}

// @Summary List participants of a raffle
// @Tags raffles
// @Produce json
// @Param id path int true "raffle id"
// @Success 200 {array} models.Participant
// @Router /api/v1/raffles/{id}/participants [get]
func (h *RaffleHandler) participants(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := parseUint64(c.Param("id"))
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid raffle id", nil)
		return
	}
	items, err := h.Repo.ListParticipants(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary List winners of a raffle
// @Tags raffles
// @Produce json
// @Param id path int true "raffle id"
// @Success 200 {array} models.Winner
// @Router /api/v1/raffles/{id}/winners [get]
func (h *RaffleHandler) winners(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := parseUint64(c.Param("id"))
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid raffle id", nil)
		return
	}
	items, err := h.Repo.ListWinners(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

type enterRequest struct {
	Payment uint64 `json:"payment" binding:"required"`
}

type enterReply struct {
	Entered bool `json:"entered"`
}

// @Summary Enter a raffle with an attached payment
// @Tags raffles
// @Accept json
// @Produce json
// @Param id path int true "raffle id"
// @Param request body enterRequest true "attached payment"
// @Success 200 {object} enterReply
// @Router /api/v1/raffles/{id}/entries [post]
func (h *RaffleHandler) enter(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	id := parseUint64(c.Param("id"))
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid raffle id", nil)
		return
	}
	var req enterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	entered, err := h.Service.Enter(c.Request.Context(), id, identity.Caller(c), req.Payment)
	if err != nil {
		Error(c, serviceStatus(err), err.Error(), nil)
		return
	}
	Ok(c, enterReply{Entered: entered}, nil)
}

// @Summary Close a raffle and draw winners
// @Tags raffles
// @Produce json
// @Param id path int true "raffle id"
// @Success 200 {array} models.Winner
// @Router /api/v1/raffles/{id}/close [post]
func (h *RaffleHandler) close(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	id := parseUint64(c.Param("id"))
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid raffle id", nil)
		return
	}
	if err := h.Service.Close(c.Request.Context(), id, identity.Caller(c)); err != nil {
		Error(c, serviceStatus(err), err.Error(), nil)
		return
	}
	winners, err := h.Repo.ListWinners(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, winners, nil)
}

// @Summary Current registry counter
// @Tags raffles
// @Produce json
// @Success 200 {object} map[string]uint64
// @Router /api/v1/registry/counter [get]
func (h *RaffleHandler) counter(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	counter, err := h.Repo.GetCounter(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"counter": counter}, nil)
}

func serviceStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownRaffle),
		errors.Is(err, service.ErrUnknownCreation):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCreation),
		errors.Is(err, service.ErrInsufficientPayment):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRaffleClosed),
		errors.Is(err, service.ErrAlreadyClosed),
		errors.Is(err, service.ErrRaffleNotEnded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
