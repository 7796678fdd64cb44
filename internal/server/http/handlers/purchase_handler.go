package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/dto"
)

// PurchaseHandler manages purchase request endpoints.
type PurchaseHandler struct {
	facade PurchaseFacade
}

// NewPurchaseHandler constructs PurchaseHandler.
func NewPurchaseHandler(facade PurchaseFacade) *PurchaseHandler {
	return &PurchaseHandler{facade: facade}
}

// Create handles POST /api/v1/purchases.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.PurchaseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	lines := make([]model.PurchaseLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, model.PurchaseLine{
			Category:        model.ItemCategory(line.Category),
			Level:           model.ItemLevel(line.Level),
			Description:     line.Description,
			Branch:          model.Branch(line.Branch),
			DesiredQuantity: line.DesiredQuantity,
			EstimatedValue:  line.EstimatedValue,
		})
	}

	created, err := h.facade.CreatePurchase(c.Request.Context(), CurrentPrincipal(c), lines,
		req.Justification, model.PurchasePriority(req.Priority))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPurchaseResponse(created))
}

// Get handles GET /api/v1/purchases/:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, err := h.facade.Purchase(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponse(req))
}

// ListMine handles GET /api/v1/purchases/mine.
func (h *PurchaseHandler) ListMine(c *gin.Context) {
	status, ok := purchaseStatusFilter(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	result, err := h.facade.MyPurchases(c.Request.Context(), CurrentPrincipal(c), status, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	writePurchasePage(c, result)
}

// ListAll handles GET /api/v1/purchases.
func (h *PurchaseHandler) ListAll(c *gin.Context) {
	status, ok := purchaseStatusFilter(c)
	if !ok {
		return
	}
	var filter repository.PurchaseFilter
	filter.Status = status
	if v := c.Query("priority"); v != "" {
		priority := model.PurchasePriority(v)
		if !model.ValidPriority(priority) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown priority"})
			return
		}
		filter.Priority = &priority
	}
	if v := c.Query("requester_id"); v != "" {
		requester, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid requester_id"})
			return
		}
		filter.RequesterID = &requester
	}

	page, pageSize := pageParams(c)
	result, err := h.facade.AllPurchases(c.Request.Context(), CurrentPrincipal(c), filter, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	writePurchasePage(c, result)
}

// Approve handles PATCH /api/v1/purchases/:id/approve.
func (h *PurchaseHandler) Approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body dto.ConfirmRequest
	_ = c.ShouldBindJSON(&body)

	req, err := h.facade.ApprovePurchase(c.Request.Context(), CurrentPrincipal(c), id, body.Note)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponse(req))
}

// Reject handles PATCH /api/v1/purchases/:id/reject.
func (h *PurchaseHandler) Reject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body dto.RejectRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	req, err := h.facade.RejectPurchase(c.Request.Context(), CurrentPrincipal(c), id, body.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponse(req))
}

// MarkBought handles PATCH /api/v1/purchases/:id/purchase.
func (h *PurchaseHandler) MarkBought(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body dto.PurchasedRequest
	_ = c.ShouldBindJSON(&body)

	req, err := h.facade.MarkPurchaseBought(c.Request.Context(), CurrentPrincipal(c), id, body.Supplier, body.TotalCost)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponse(req))
}

func purchaseStatusFilter(c *gin.Context) (*model.PurchaseStatus, bool) {
	v := c.Query("status")
	if v == "" {
		return nil, true
	}
	status := model.PurchaseStatus(v)
	switch status {
	case model.PurchaseStatusPending, model.PurchaseStatusApproved,
		model.PurchaseStatusRejected, model.PurchaseStatusPurchased:
		return &status, true
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown status"})
	return nil, false
}

func writePurchasePage(c *gin.Context, result *model.Page[model.PurchaseRequest]) {
	items := make([]dto.PurchaseResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toPurchaseResponse(&result.Items[i]))
	}
	c.JSON(http.StatusOK, dto.PageResponse[dto.PurchaseResponse]{
		Items:      items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}
