package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/nabava/internal/db"
	"github.com/erazemk/nabava/internal/model"
)

func TestSplitIntake(t *testing.T) {
	tests := []struct {
		raw      int
		issuable int
		reserved int
	}{
		{0, 0, 0},
		{1, 1, 0},
		{49, 49, 0},
		{50, 49, 1},
		{100, 99, 1},
		{149, 148, 1},
		{150, 148, 2},
		{1000, 990, 10},
	}

	for _, tt := range tests {
		issuable, reserved := SplitIntake(tt.raw)
		if issuable != tt.issuable || reserved != tt.reserved {
			t.Errorf("SplitIntake(%d) = (%d, %d), want (%d, %d)",
				tt.raw, issuable, reserved, tt.issuable, tt.reserved)
		}
		if issuable+reserved != tt.raw {
			t.Errorf("SplitIntake(%d): pools sum to %d", tt.raw, issuable+reserved)
		}
	}
}

func TestDebitAndCreditStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, CreateItemParams{
		Name: "Paper", Unit: "pack", Kind: model.KindRequisition, InitialStock: 100,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Quantity != 99 {
		t.Fatalf("expected 99 issuable after carve-out, got %d", item.Quantity)
	}

	if err := DebitStock(ctx, database, item.ID, 40); err != nil {
		t.Fatalf("DebitStock: %v", err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 59 {
		t.Errorf("expected quantity 59 after debit, got %d", got.Quantity)
	}

	if err := CreditStock(ctx, database, item.ID, 10); err != nil {
		t.Fatalf("CreditStock: %v", err)
	}
	got, _ = GetItem(ctx, database, item.ID)
	if got.Quantity != 69 {
		t.Errorf("expected quantity 69 after credit, got %d", got.Quantity)
	}
}

func TestDebitStockInsufficient(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, CreateItemParams{
		Name: "Pens", Unit: "box", Kind: model.KindRequisition, InitialStock: 10,
	})

	err := DebitStock(ctx, database, item.ID, item.Quantity+1)
	if !errors.Is(err, model.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Stock untouched by the failed debit.
	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != item.Quantity {
		t.Errorf("expected quantity %d after failed debit, got %d", item.Quantity, got.Quantity)
	}
}

func TestDebitStockMissingItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := DebitStock(ctx, database, 999, 1); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("debit: expected ErrNotFound, got %v", err)
	}
	if err := CreditStock(ctx, database, 999, 1); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("credit: expected ErrNotFound, got %v", err)
	}
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, CreateItemParams{
		Name: "Tape", Unit: "roll", Kind: model.KindRequisition, InitialStock: 10,
	})

	for _, amount := range []int{0, -5} {
		if err := DebitStock(ctx, database, item.ID, amount); !errors.Is(err, model.ErrInvalidQuantity) {
			t.Errorf("DebitStock(%d): expected ErrInvalidQuantity, got %v", amount, err)
		}
		if err := CreditStock(ctx, database, item.ID, amount); !errors.Is(err, model.ErrInvalidQuantity) {
			t.Errorf("CreditStock(%d): expected ErrInvalidQuantity, got %v", amount, err)
		}
	}
}
