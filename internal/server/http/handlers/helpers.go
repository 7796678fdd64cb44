package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	pkgAuth "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/pkg/auth"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/dto"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/middleware"
)

// CurrentPrincipal extracts the authenticated principal from context.
func CurrentPrincipal(c *gin.Context) model.Principal {
	val, ok := c.Get(middleware.PrincipalContextKey)
	if !ok {
		return model.Principal{}
	}
	principal, _ := val.(model.Principal)
	return principal
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var stockErr *domainErrors.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:      stockErr.Error(),
			Shortfalls: toShortfallResponses(stockErr.Shortfalls),
		})
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, pkgAuth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, domainErrors.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "account disabled"})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden"})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "already exists"})
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "invalid status transition"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

func toShortfallResponses(shortfalls []model.Shortfall) []dto.ShortfallResponse {
	resp := make([]dto.ShortfallResponse, 0, len(shortfalls))
	for _, s := range shortfalls {
		resp = append(resp, dto.ShortfallResponse{
			ItemID:      s.ItemID,
			Description: s.Description,
			Requested:   s.Requested,
			Available:   s.Available,
		})
	}
	return resp
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		ScoutGroup:  u.ScoutGroup,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func toItemResponse(item *model.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:          item.ID,
		Category:    string(item.Category),
		Level:       string(item.Level),
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitValue:   item.UnitValue,
		TotalValue:  item.TotalValue,
		Branch:      string(item.Branch),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func toWithdrawalResponse(req *model.WithdrawalRequest) dto.WithdrawalResponse {
	lines := make([]dto.WithdrawalLineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, dto.WithdrawalLineRequest{ItemID: line.ItemID, Quantity: line.Quantity, Note: line.Note})
	}
	return dto.WithdrawalResponse{
		ID:               req.ID,
		RequesterID:      req.RequesterID,
		Lines:            lines,
		Status:           string(req.Status),
		Note:             req.Note,
		UserConfirmedAt:  req.UserConfirmedAt,
		AdminConfirmedBy: req.AdminConfirmedBy,
		AdminConfirmedAt: req.AdminConfirmedAt,
		AdminNote:        req.AdminNote,
		CancelReason:     req.CancelReason,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
}

func toPurchaseResponse(req *model.PurchaseRequest) dto.PurchaseResponse {
	lines := make([]dto.PurchaseLineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, dto.PurchaseLineRequest{
			Category:        string(line.Category),
			Level:           string(line.Level),
			Description:     line.Description,
			Branch:          string(line.Branch),
			DesiredQuantity: line.DesiredQuantity,
			EstimatedValue:  line.EstimatedValue,
		})
	}
	return dto.PurchaseResponse{
		ID:              req.ID,
		RequesterID:     req.RequesterID,
		Lines:           lines,
		Justification:   req.Justification,
		Priority:        string(req.Priority),
		Status:          string(req.Status),
		ReviewedBy:      req.ReviewedBy,
		ReviewedAt:      req.ReviewedAt,
		AdminNote:       req.AdminNote,
		RejectionReason: req.RejectionReason,
		Supplier:        req.Supplier,
		TotalCost:       req.TotalCost,
		EstimatedTotal:  req.EstimatedTotal(),
		PurchasedAt:     req.PurchasedAt,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
	}
}
