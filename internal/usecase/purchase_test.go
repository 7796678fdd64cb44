package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/test"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/usecase"
)

func validPurchaseLines() []model.PurchaseLine {
	return []model.PurchaseLine{{
		Category:        model.ItemCategoryBadge,
		Level:           model.ItemLevelNone,
		Description:     "progression badge",
		Branch:          model.BranchScout,
		DesiredQuantity: 10,
	}}
}

func TestPurchaseCreate(t *testing.T) {
	uc := usecase.NewPurchaseUseCase(test.NewPurchaseRepositoryStub())

	req, err := uc.Create(context.Background(), member, validPurchaseLines(), "restock", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != model.PurchaseStatusPending {
		t.Fatalf("expected pending, got %s", req.Status)
	}
	if req.Priority != model.PurchasePriorityMedium {
		t.Fatalf("expected default priority medium, got %s", req.Priority)
	}

	if _, err := uc.Create(context.Background(), member, nil, "", ""); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for empty lines, got %v", err)
	}

	lines := validPurchaseLines()
	lines[0].DesiredQuantity = 0
	if _, err := uc.Create(context.Background(), member, lines, "", ""); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}

	if _, err := uc.Create(context.Background(), member, validPurchaseLines(), "", "asap"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for unknown priority, got %v", err)
	}
}

func TestPurchaseReviewFlow(t *testing.T) {
	uc := usecase.NewPurchaseUseCase(test.NewPurchaseRepositoryStub())

	created, err := uc.Create(context.Background(), member, validPurchaseLines(), "restock", model.PurchasePriorityHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.Approve(context.Background(), member, created.ID, ""); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin, got %v", err)
	}

	approved, err := uc.Approve(context.Background(), admin, created.ID, "go ahead")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Status != model.PurchaseStatusApproved || approved.ReviewedBy == nil {
		t.Fatalf("unexpected request: %+v", approved)
	}

	if _, err := uc.Reject(context.Background(), admin, created.ID, "too late"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition after approval, got %v", err)
	}

	cost := 120.0
	bought, err := uc.MarkPurchased(context.Background(), admin, created.ID, "Scout Supply Co", &cost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bought.Status != model.PurchaseStatusPurchased || bought.Supplier != "Scout Supply Co" {
		t.Fatalf("unexpected request: %+v", bought)
	}

	if _, err := uc.MarkPurchased(context.Background(), admin, created.ID, "again", nil); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on repeat, got %v", err)
	}
}

func TestPurchaseReject(t *testing.T) {
	uc := usecase.NewPurchaseUseCase(test.NewPurchaseRepositoryStub())
	created, _ := uc.Create(context.Background(), member, validPurchaseLines(), "", "")

	if _, err := uc.Reject(context.Background(), admin, created.ID, "  "); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for empty reason, got %v", err)
	}

	rejected, err := uc.Reject(context.Background(), admin, created.ID, "over budget")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Status != model.PurchaseStatusRejected || rejected.RejectionReason != "over budget" {
		t.Fatalf("unexpected request: %+v", rejected)
	}

	if _, err := uc.MarkPurchased(context.Background(), admin, created.ID, "x", nil); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for rejected request, got %v", err)
	}
}

func TestPurchaseVisibility(t *testing.T) {
	uc := usecase.NewPurchaseUseCase(test.NewPurchaseRepositoryStub())
	mine, _ := uc.Create(context.Background(), member, validPurchaseLines(), "", "")
	if _, err := uc.Create(context.Background(), other, validPurchaseLines(), "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.Get(context.Background(), other, mine.ID); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := uc.Get(context.Background(), admin, mine.ID); err != nil {
		t.Fatalf("admin should see any request, got %v", err)
	}

	page, err := uc.ListMine(context.Background(), member, nil, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page.Items)
	}

	if _, err := uc.ListAll(context.Background(), member, repository.PurchaseFilter{}, 1, 20); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	all, err := uc.ListAll(context.Background(), admin, repository.PurchaseFilter{}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all.Items) != 2 {
		t.Fatalf("expected both requests, got %+v", all.Items)
	}
}
