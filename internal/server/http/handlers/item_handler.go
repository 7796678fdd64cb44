package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/dto"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/usecase"
)

// ItemHandler manages supply ledger endpoints.
type ItemHandler struct {
	facade ItemFacade
}

// NewItemHandler constructs ItemHandler.
func NewItemHandler(facade ItemFacade) *ItemHandler {
	return &ItemHandler{facade: facade}
}

func itemInput(req dto.ItemRequest) usecase.ItemInput {
	return usecase.ItemInput{
		Category:    model.ItemCategory(req.Category),
		Level:       model.ItemLevel(req.Level),
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitValue:   req.UnitValue,
		Branch:      model.Branch(req.Branch),
	}
}

// Create handles POST /api/v1/items.
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	item, err := h.facade.CreateItem(c.Request.Context(), CurrentPrincipal(c), itemInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemResponse(item))
}

// Get handles GET /api/v1/items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.facade.Item(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// List handles GET /api/v1/items.
func (h *ItemHandler) List(c *gin.Context) {
	var filter repository.ItemFilter
	if v := c.Query("category"); v != "" {
		category := model.ItemCategory(v)
		filter.Category = &category
	}
	if v := c.Query("level"); v != "" {
		level := model.ItemLevel(v)
		filter.Level = &level
	}
	if v := c.Query("branch"); v != "" {
		branch := model.Branch(v)
		filter.Branch = &branch
	}

	page, pageSize := pageParams(c)
	result, err := h.facade.Items(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]dto.ItemResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toItemResponse(&result.Items[i]))
	}
	c.JSON(http.StatusOK, dto.PageResponse[dto.ItemResponse]{
		Items:      items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// Update handles PUT /api/v1/items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	item, err := h.facade.UpdateItem(c.Request.Context(), CurrentPrincipal(c), id, itemInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

// Delete handles DELETE /api/v1/items/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.facade.DeleteItem(c.Request.Context(), CurrentPrincipal(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
