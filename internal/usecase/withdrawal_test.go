package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/repository"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/test"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/usecase"
)

var (
	member = model.Principal{UserID: 7, Role: model.RoleUser}
	other  = model.Principal{UserID: 8, Role: model.RoleUser}
	admin  = model.Principal{UserID: 42, Role: model.RoleAdmin}
)

func newWithdrawalFixture(t *testing.T) (*usecase.WithdrawalUseCase, *test.ItemRepositoryStub, *test.WithdrawalRepositoryStub) {
	t.Helper()
	items := test.NewItemRepositoryStub()
	withdrawals := test.NewWithdrawalRepositoryStub(items)
	return usecase.NewWithdrawalUseCase(withdrawals, items), items, withdrawals
}

func seedScarf(items *test.ItemRepositoryStub, quantity int64) *model.Item {
	return items.Seed(model.Item{
		Category:    model.ItemCategoryBadge,
		Level:       model.ItemLevelNone,
		Description: "scarf",
		Quantity:    quantity,
		UnitValue:   10,
		Branch:      model.BranchScout,
	})
}

func TestWithdrawalHappyPath(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	detail, err := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 2}}, "camp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Request.Status != model.WithdrawalStatusPending {
		t.Fatalf("expected pending, got %s", detail.Request.Status)
	}
	if detail.TotalValue != 20 {
		t.Fatalf("expected valuation 20, got %v", detail.TotalValue)
	}
	if items.Quantity(item.ID) != 5 {
		t.Fatal("creation must not touch stock")
	}

	taken, err := uc.ConfirmUserTaken(context.Background(), member, detail.Request.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taken.Status != model.WithdrawalStatusUserConfirmed {
		t.Fatalf("expected user confirmed, got %s", taken.Status)
	}
	if taken.UserConfirmedAt == nil {
		t.Fatal("expected user confirmation timestamp")
	}
	if items.Quantity(item.ID) != 5 {
		t.Fatal("user confirmation must not touch stock")
	}

	confirmed, err := uc.ConfirmAdmin(context.Background(), admin, detail.Request.ID, "ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmed.Status != model.WithdrawalStatusAdminConfirmed {
		t.Fatalf("expected admin confirmed, got %s", confirmed.Status)
	}
	if confirmed.AdminConfirmedBy == nil || *confirmed.AdminConfirmedBy != admin.UserID {
		t.Fatalf("expected admin id recorded, got %+v", confirmed.AdminConfirmedBy)
	}
	if got := items.Quantity(item.ID); got != 3 {
		t.Fatalf("expected stock 3 after confirmation, got %d", got)
	}
}

func TestWithdrawalCreateValidation(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	cases := []struct {
		name  string
		lines []model.WithdrawalLine
	}{
		{"no lines", nil},
		{"zero quantity", []model.WithdrawalLine{{ItemID: item.ID, Quantity: 0}}},
		{"negative quantity", []model.WithdrawalLine{{ItemID: item.ID, Quantity: -1}}},
		{"unknown item", []model.WithdrawalLine{{ItemID: 999, Quantity: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Create(context.Background(), member, tc.lines, ""); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestWithdrawalCreateAllowedBeyondStock(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 2)

	detail, err := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 10}}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Shortfalls) != 1 {
		t.Fatalf("expected advisory shortfall, got %+v", detail.Shortfalls)
	}
	if detail.Shortfalls[0].Available != 2 || detail.Shortfalls[0].Requested != 10 {
		t.Fatalf("unexpected shortfall: %+v", detail.Shortfalls[0])
	}
}

func TestConfirmUserTakenInsufficientStock(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	detail, _ := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 4}}, "")
	id := detail.Request.ID

	// stock drains before the requester confirms
	if err := items.DecrementStock(context.Background(), item.ID, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := uc.ConfirmUserTaken(context.Background(), member, id)
	if !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	var stockErr *domainErrors.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected shortfall details, got %v", err)
	}
	if stockErr.Shortfalls[0].Requested != 4 || stockErr.Shortfalls[0].Available != 2 {
		t.Fatalf("unexpected shortfall: %+v", stockErr.Shortfalls[0])
	}

	// the check is advisory: nothing decremented, the request stays pending
	if got := items.Quantity(item.ID); got != 2 {
		t.Fatalf("expected stock unchanged at 2, got %d", got)
	}
	current, err := uc.Get(context.Background(), member, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Request.Status != model.WithdrawalStatusPending {
		t.Fatalf("expected status unchanged, got %s", current.Request.Status)
	}

	// a restock makes the same request confirmable again
	item.Quantity = 4
	if _, err := items.Update(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	taken, err := uc.ConfirmUserTaken(context.Background(), member, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taken.Status != model.WithdrawalStatusUserConfirmed {
		t.Fatalf("expected user confirmed, got %s", taken.Status)
	}
}

func TestConfirmAdminInsufficientStock(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	detail, _ := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 4}}, "")
	if _, err := uc.ConfirmUserTaken(context.Background(), member, detail.Request.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// stock drains between confirmations
	if err := items.DecrementStock(context.Background(), item.ID, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := uc.ConfirmAdmin(context.Background(), admin, detail.Request.ID, "")
	if !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	var stockErr *domainErrors.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected shortfall details, got %v", err)
	}
	if stockErr.Shortfalls[0].Requested != 4 || stockErr.Shortfalls[0].Available != 2 {
		t.Fatalf("unexpected shortfall: %+v", stockErr.Shortfalls[0])
	}

	// nothing was decremented and the request stays confirmable
	if got := items.Quantity(item.ID); got != 2 {
		t.Fatalf("expected stock unchanged at 2, got %d", got)
	}
	current, err := uc.Get(context.Background(), admin, detail.Request.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Request.Status != model.WithdrawalStatusUserConfirmed {
		t.Fatalf("expected status unchanged, got %s", current.Request.Status)
	}
}

func TestConfirmAdminSumsDuplicateLines(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 6)

	// two lines of the same item count against the stock together
	detail, err := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{
			{ItemID: item.ID, Quantity: 3},
			{ItemID: item.ID, Quantity: 3},
		}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.ConfirmUserTaken(context.Background(), member, detail.Request.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := items.DecrementStock(context.Background(), item.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = uc.ConfirmAdmin(context.Background(), admin, detail.Request.ID, "")
	var stockErr *domainErrors.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected shortfall details, got %v", err)
	}
	if len(stockErr.Shortfalls) != 1 {
		t.Fatalf("expected one aggregated shortfall, got %+v", stockErr.Shortfalls)
	}
	if stockErr.Shortfalls[0].Requested != 6 || stockErr.Shortfalls[0].Available != 5 {
		t.Fatalf("unexpected shortfall: %+v", stockErr.Shortfalls[0])
	}
	if got := items.Quantity(item.ID); got != 5 {
		t.Fatalf("expected stock unchanged at 5, got %d", got)
	}
}

func TestWithdrawalCancel(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	t.Run("from pending", func(t *testing.T) {
		detail, _ := uc.Create(context.Background(), member,
			[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 1}}, "")
		cancelled, err := uc.Cancel(context.Background(), member, detail.Request.ID, "changed plans")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cancelled.Status != model.WithdrawalStatusCancelled || cancelled.CancelReason != "changed plans" {
			t.Fatalf("unexpected request: %+v", cancelled)
		}
	})

	t.Run("from user confirmed by admin", func(t *testing.T) {
		detail, _ := uc.Create(context.Background(), member,
			[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 1}}, "")
		if _, err := uc.ConfirmUserTaken(context.Background(), member, detail.Request.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.Cancel(context.Background(), admin, detail.Request.ID, "no event"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("confirmed requests stay confirmed", func(t *testing.T) {
		detail, _ := uc.Create(context.Background(), member,
			[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 1}}, "")
		if _, err := uc.ConfirmUserTaken(context.Background(), member, detail.Request.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.ConfirmAdmin(context.Background(), admin, detail.Request.ID, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.Cancel(context.Background(), admin, detail.Request.ID, "late"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		detail, _ := uc.Create(context.Background(), member,
			[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 1}}, "")
		if _, err := uc.Cancel(context.Background(), other, detail.Request.ID, "nope"); !errors.Is(err, domainErrors.ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})
}

func TestConfirmGuards(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	detail, _ := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 1}}, "")
	id := detail.Request.ID

	t.Run("only owner confirms taken", func(t *testing.T) {
		if _, err := uc.ConfirmUserTaken(context.Background(), other, id); !errors.Is(err, domainErrors.ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("admin confirm needs user confirmation first", func(t *testing.T) {
		if _, err := uc.ConfirmAdmin(context.Background(), admin, id, ""); !errors.Is(err, domainErrors.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})

	if _, err := uc.ConfirmUserTaken(context.Background(), member, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("status checked before role", func(t *testing.T) {
		// request sits in user_confirmed_taken: a non-admin asking for a
		// pending-only transition learns about the state, not the role
		if _, err := uc.ConfirmUserTaken(context.Background(), other, id); !errors.Is(err, domainErrors.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})

	t.Run("non-admin cannot confirm", func(t *testing.T) {
		if _, err := uc.ConfirmAdmin(context.Background(), member, id, ""); !errors.Is(err, domainErrors.ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("missing request", func(t *testing.T) {
		if _, err := uc.ConfirmAdmin(context.Background(), admin, 999, ""); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestConfirmAdminDecrementsExactlyOnce(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	detail, _ := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 2}}, "")
	id := detail.Request.ID
	if _, err := uc.ConfirmUserTaken(context.Background(), member, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.ConfirmAdmin(context.Background(), admin, id, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.ConfirmAdmin(context.Background(), admin, id, ""); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on repeat, got %v", err)
	}
	if got := items.Quantity(item.ID); got != 3 {
		t.Fatalf("expected stock decremented exactly once, got %d", got)
	}
}

func TestConcurrentAdminConfirms(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	detail, _ := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 2}}, "")
	id := detail.Request.ID
	if _, err := uc.ConfirmUserTaken(context.Background(), member, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.ConfirmAdmin(context.Background(), admin, id, "")
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, domainErrors.ErrInvalidTransition) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one winner, got %d", succeeded)
	}
	if got := items.Quantity(item.ID); got != 3 {
		t.Fatalf("expected stock decremented exactly once, got %d", got)
	}
}

func TestWithdrawalValuationUsesLivePrices(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	detail, _ := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 2}}, "")
	if detail.TotalValue != 20 {
		t.Fatalf("expected 20, got %v", detail.TotalValue)
	}

	// price change is reflected on the next read
	updated := *items.Items[item.ID]
	updated.UnitValue = 25
	if _, err := items.Update(context.Background(), &updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current, err := uc.Get(context.Background(), member, detail.Request.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.TotalValue != 50 {
		t.Fatalf("expected live valuation 50, got %v", current.TotalValue)
	}
}

func TestWithdrawalVisibility(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 5)

	mine, _ := uc.Create(context.Background(), member,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 1}}, "")
	if _, err := uc.Create(context.Background(), other,
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 1}}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.Get(context.Background(), other, mine.Request.ID); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := uc.Get(context.Background(), admin, mine.Request.ID); err != nil {
		t.Fatalf("admin should see any request, got %v", err)
	}

	page, err := uc.ListMine(context.Background(), member, nil, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].RequesterID != member.UserID {
		t.Fatalf("unexpected page: %+v", page.Items)
	}

	if _, err := uc.ListAll(context.Background(), member, repository.WithdrawalFilter{}, 1, 20); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	uc, items, _ := newWithdrawalFixture(t)
	item := seedScarf(items, 3)

	shortfalls, err := uc.CheckAvailability(context.Background(),
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shortfalls) != 0 {
		t.Fatalf("expected no shortfalls, got %+v", shortfalls)
	}

	shortfalls, err = uc.CheckAvailability(context.Background(),
		[]model.WithdrawalLine{{ItemID: item.ID, Quantity: 2}, {ItemID: item.ID, Quantity: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// duplicate lines are summed per item
	if len(shortfalls) != 1 || shortfalls[0].Requested != 4 || shortfalls[0].Available != 3 {
		t.Fatalf("unexpected shortfalls: %+v", shortfalls)
	}
}
