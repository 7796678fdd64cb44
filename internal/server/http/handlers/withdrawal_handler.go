package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/dto"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/usecase"
)

// WithdrawalHandler manages withdrawal request endpoints.
type WithdrawalHandler struct {
	facade WithdrawalFacade
}

// NewWithdrawalHandler constructs WithdrawalHandler.
func NewWithdrawalHandler(facade WithdrawalFacade) *WithdrawalHandler {
	return &WithdrawalHandler{facade: facade}
}

func toDetailResponse(detail *usecase.WithdrawalDetail) dto.WithdrawalDetailResponse {
	return dto.WithdrawalDetailResponse{
		WithdrawalResponse: toWithdrawalResponse(detail.Request),
		TotalValue:         detail.TotalValue,
		Shortfalls:         toShortfallResponses(detail.Shortfalls),
	}
}

// Create handles POST /api/v1/withdrawals.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req dto.WithdrawalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	lines := make([]model.WithdrawalLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, model.WithdrawalLine{ItemID: line.ItemID, Quantity: line.Quantity, Note: line.Note})
	}

	detail, err := h.facade.CreateWithdrawal(c.Request.Context(), CurrentPrincipal(c), lines, req.Note)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDetailResponse(detail))
}

// Get handles GET /api/v1/withdrawals/:id.
func (h *WithdrawalHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.facade.Withdrawal(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailResponse(detail))
}

// ListMine handles GET /api/v1/withdrawals/mine.
func (h *WithdrawalHandler) ListMine(c *gin.Context) {
	status, ok := withdrawalStatusFilter(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	result, err := h.facade.MyWithdrawals(c.Request.Context(), CurrentPrincipal(c), status, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	writeWithdrawalPage(c, result)
}

// ListAll handles GET /api/v1/withdrawals.
func (h *WithdrawalHandler) ListAll(c *gin.Context) {
	status, ok := withdrawalStatusFilter(c)
	if !ok {
		return
	}
	var filter repository.WithdrawalFilter
	filter.Status = status
	if v := c.Query("requester_id"); v != "" {
		requester, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid requester_id"})
			return
		}
		filter.RequesterID = &requester
	}

	page, pageSize := pageParams(c)
	result, err := h.facade.AllWithdrawals(c.Request.Context(), CurrentPrincipal(c), filter, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	writeWithdrawalPage(c, result)
}

// CheckAvailability handles POST /api/v1/withdrawals/check-availability.
// The answer is advisory, stock may drain before the request is created.
func (h *WithdrawalHandler) CheckAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	lines := make([]model.WithdrawalLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, model.WithdrawalLine{ItemID: line.ItemID, Quantity: line.Quantity})
	}

	shortfalls, err := h.facade.CheckAvailability(c.Request.Context(), lines)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		Available:  len(shortfalls) == 0,
		Shortfalls: toShortfallResponses(shortfalls),
	})
}

// ConfirmTaken handles PATCH /api/v1/withdrawals/:id/confirm-taken.
func (h *WithdrawalHandler) ConfirmTaken(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, err := h.facade.ConfirmTaken(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWithdrawalResponse(req))
}

// ConfirmAdmin handles PATCH /api/v1/withdrawals/:id/confirm-admin.
func (h *WithdrawalHandler) ConfirmAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body dto.ConfirmRequest
	// body is optional, a bare POST confirms without a note
	_ = c.ShouldBindJSON(&body)

	req, err := h.facade.ConfirmWithdrawal(c.Request.Context(), CurrentPrincipal(c), id, body.Note)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWithdrawalResponse(req))
}

// Cancel handles PATCH /api/v1/withdrawals/:id/cancel.
func (h *WithdrawalHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body dto.CancelRequest
	_ = c.ShouldBindJSON(&body)

	req, err := h.facade.CancelWithdrawal(c.Request.Context(), CurrentPrincipal(c), id, body.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWithdrawalResponse(req))
}

func withdrawalStatusFilter(c *gin.Context) (*model.WithdrawalStatus, bool) {
	v := c.Query("status")
	if v == "" {
		return nil, true
	}
	status := model.WithdrawalStatus(v)
	switch status {
	case model.WithdrawalStatusPending, model.WithdrawalStatusUserConfirmed,
		model.WithdrawalStatusAdminConfirmed, model.WithdrawalStatusCancelled:
		return &status, true
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown status"})
	return nil, false
}

func writeWithdrawalPage(c *gin.Context, result *model.Page[model.WithdrawalRequest]) {
	items := make([]dto.WithdrawalResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toWithdrawalResponse(&result.Items[i]))
	}
	c.JSON(http.StatusOK, dto.PageResponse[dto.WithdrawalResponse]{
		Items:      items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}
