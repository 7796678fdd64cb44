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

func validItemInput() usecase.ItemInput {
	return usecase.ItemInput{
		Category:    model.ItemCategoryBadge,
		Level:       model.ItemLevelNone,
		Description: "scarf",
		Quantity:    5,
		UnitValue:   10,
		Branch:      model.BranchScout,
	}
}

func TestItemCreate(t *testing.T) {
	items := test.NewItemRepositoryStub()
	uc := usecase.NewItemUseCase(items)

	item, err := uc.Create(context.Background(), admin, validItemInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.TotalValue != 50 {
		t.Fatalf("expected derived total 50, got %v", item.TotalValue)
	}

	if _, err := uc.Create(context.Background(), member, validItemInput()); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin, got %v", err)
	}
}

func TestItemCreateDefaultsLevel(t *testing.T) {
	items := test.NewItemRepositoryStub()
	uc := usecase.NewItemUseCase(items)

	in := validItemInput()
	in.Level = ""
	item, err := uc.Create(context.Background(), admin, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Level != model.ItemLevelNone {
		t.Fatalf("expected level none, got %s", item.Level)
	}
}

func TestItemValidation(t *testing.T) {
	items := test.NewItemRepositoryStub()
	uc := usecase.NewItemUseCase(items)

	mutate := []struct {
		name string
		fn   func(*usecase.ItemInput)
	}{
		{"bad category", func(in *usecase.ItemInput) { in.Category = "weapon" }},
		{"bad level", func(in *usecase.ItemInput) { in.Level = "level_9" }},
		{"empty description", func(in *usecase.ItemInput) { in.Description = "  " }},
		{"negative quantity", func(in *usecase.ItemInput) { in.Quantity = -1 }},
		{"negative value", func(in *usecase.ItemInput) { in.UnitValue = -0.5 }},
		{"bad branch", func(in *usecase.ItemInput) { in.Branch = "pirates" }},
	}
	for _, tc := range mutate {
		t.Run(tc.name, func(t *testing.T) {
			in := validItemInput()
			tc.fn(&in)
			if _, err := uc.Create(context.Background(), admin, in); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestItemListFilter(t *testing.T) {
	items := test.NewItemRepositoryStub()
	uc := usecase.NewItemUseCase(items)

	items.Seed(model.Item{Category: model.ItemCategoryBadge, Level: model.ItemLevelNone, Description: "scarf", Branch: model.BranchScout})
	items.Seed(model.Item{Category: model.ItemCategoryCord, Level: model.ItemLevelNone, Description: "cord", Branch: model.BranchAll})

	category := model.ItemCategoryCord
	page, err := uc.List(context.Background(), repository.ItemFilter{Category: &category}, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Description != "cord" {
		t.Fatalf("unexpected items: %+v", page.Items)
	}

	bad := model.ItemCategory("weapon")
	if _, err := uc.List(context.Background(), repository.ItemFilter{Category: &bad}, 1, 20); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// out of range paging normalizes instead of failing
	if _, err := uc.List(context.Background(), repository.ItemFilter{}, -3, 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestItemUpdateAndDelete(t *testing.T) {
	items := test.NewItemRepositoryStub()
	uc := usecase.NewItemUseCase(items)
	seeded := items.Seed(model.Item{Category: model.ItemCategoryBadge, Level: model.ItemLevelNone, Description: "scarf", Quantity: 5, UnitValue: 10, Branch: model.BranchScout})

	in := validItemInput()
	in.UnitValue = 12
	updated, err := uc.Update(context.Background(), admin, seeded.ID, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.TotalValue != 60 {
		t.Fatalf("expected recalculated total 60, got %v", updated.TotalValue)
	}

	if _, err := uc.Update(context.Background(), member, seeded.ID, in); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := uc.Delete(context.Background(), member, seeded.ID); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := uc.Delete(context.Background(), admin, seeded.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.Delete(context.Background(), admin, seeded.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
