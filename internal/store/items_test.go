package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/nabava/internal/db"
	"github.com/erazemk/nabava/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, CreateItemParams{
		Name: "Whiteboard marker", Unit: "piece", Kind: model.KindRequisition, InitialStock: 200,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Name != "Whiteboard marker" {
		t.Errorf("expected name 'Whiteboard marker', got %q", item.Name)
	}
	if item.Quantity != 198 || item.ReservedQuantity != 2 {
		t.Errorf("expected 198 issuable and 2 reserved, got %d and %d",
			item.Quantity, item.ReservedQuantity)
	}
	if !item.Active {
		t.Error("expected new item to be active")
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.ID != item.ID {
		t.Fatalf("expected to fetch item %d back", item.ID)
	}
}

func TestCreateBorrowItemKeepsFullStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, CreateItemParams{
		Name: "Projector", Unit: "piece", Kind: model.KindBorrow, InitialStock: 100,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Quantity != 100 || item.ReservedQuantity != 0 {
		t.Errorf("expected borrow intake without carve-out, got %d issuable and %d reserved",
			item.Quantity, item.ReservedQuantity)
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := GetItem(ctx, database, 999)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for missing item, got %+v", item)
	}
}

func TestListItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateItem(ctx, database, CreateItemParams{Name: "Paper", Unit: "pack", Kind: model.KindRequisition, InitialStock: 10})
	CreateItem(ctx, database, CreateItemParams{Name: "Camera", Unit: "piece", Kind: model.KindBorrow, InitialStock: 3})
	disabled, _ := CreateItem(ctx, database, CreateItemParams{Name: "Old printer", Unit: "piece", Kind: model.KindBorrow, InitialStock: 1})
	SetItemActive(ctx, database, disabled.ID, false)

	all, err := ListItems(ctx, database, "", false)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 active items, got %d", len(all))
	}

	borrow, _ := ListItems(ctx, database, model.KindBorrow, false)
	if len(borrow) != 1 {
		t.Errorf("expected 1 active borrow item, got %d", len(borrow))
	}

	withInactive, _ := ListItems(ctx, database, "", true)
	if len(withInactive) != 3 {
		t.Errorf("expected 3 items including inactive, got %d", len(withInactive))
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, CreateItemParams{
		Name: "Tripod", Unit: "piece", Kind: model.KindBorrow, InitialStock: 5,
	})

	if err := UpdateItem(ctx, database, item.ID, "Heavy tripod", "piece", true); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.Name != "Heavy tripod" || !got.BorrowRestricted {
		t.Errorf("expected updated name and restriction, got %q restricted=%v",
			got.Name, got.BorrowRestricted)
	}

	if err := UpdateItem(ctx, database, 999, "x", "y", false); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing item, got %v", err)
	}
}

func TestRestockItemAppliesCarveOut(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, CreateItemParams{
		Name: "Paper", Unit: "pack", Kind: model.KindRequisition, InitialStock: 100,
	})

	got, err := RestockItem(ctx, database, item.ID, 100)
	if err != nil {
		t.Fatalf("RestockItem: %v", err)
	}
	if got.Quantity != 198 || got.ReservedQuantity != 2 {
		t.Errorf("expected 198 issuable and 2 reserved after restock, got %d and %d",
			got.Quantity, got.ReservedQuantity)
	}
}

func TestRestockBorrowItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, CreateItemParams{
		Name: "Cable", Unit: "piece", Kind: model.KindBorrow, InitialStock: 5,
	})

	got, err := RestockItem(ctx, database, item.ID, 100)
	if err != nil {
		t.Fatalf("RestockItem: %v", err)
	}
	if got.Quantity != 105 || got.ReservedQuantity != 0 {
		t.Errorf("expected 105 issuable and no reserve on borrow restock, got %d and %d",
			got.Quantity, got.ReservedQuantity)
	}
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, CreateItemParams{
		Name: "Photo item", Unit: "piece", Kind: model.KindBorrow, InitialStock: 1,
	})

	imageData := []byte("fake image data")
	if err := SetItemImage(ctx, database, item.ID, imageData, "image/jpeg"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}

	data, mime, err := GetItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data back, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
}
