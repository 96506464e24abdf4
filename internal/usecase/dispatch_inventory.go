package usecase

import (
	"context"
	"fmt"

	"lifeos/internal/domain"
	"lifeos/internal/intent"
	"lifeos/internal/store"
)

const (
	purchaseCategory = "Shopping"
	saleCategory     = "Sales"
)

func itemID(i domain.InventoryItem) string   { return i.ID }
func itemName(i domain.InventoryItem) string { return i.Name }

func (d *Dispatcher) findItem(ctx context.Context, p intent.InventoryPayload, keep func(domain.InventoryItem) bool) (domain.InventoryItem, bool, error) {
	items, err := d.stores.Inventory.List(ctx)
	if err != nil {
		return domain.InventoryItem{}, false, listErr("inventory", err)
	}
	if keep != nil {
		items = filter(items, keep)
	}
	it, ok := resolveBySubstring(items, p.ID, p.Name, itemID, itemName)
	return it, ok, nil
}

// addInventory creates the item. With RecordPurchase and a positive cost
// the expense is recorded first and the item carries its id.
func (d *Dispatcher) addInventory(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.InventoryPayload)
	if p.Name == "" {
		return invalid(in.Action, "an item needs a name"), nil
	}
	it := domain.InventoryItem{
		Name:        p.Name,
		Category:    p.Category,
		Quantity:    1,
		Store:       p.Store,
		Status:      domain.InventoryActive,
		PurchasedAt: d.now(),
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.Cost != nil {
		it.Cost = *p.Cost
	}

	s := newSaga(in.Action)
	if p.RecordPurchase && it.Cost > 0 {
		category := it.Category
		if category == "" {
			category = purchaseCategory
		}
		id, err := d.stores.Finance.Create(ctx, domain.FinanceEntry{
			Type:        domain.Expense,
			Amount:      it.Cost,
			Category:    category,
			Description: it.Name,
			Date:        it.PurchasedAt,
			Source:      "inventory",
		})
		if err != nil {
			return Outcome{}, fmt.Errorf("record purchase: %w", err)
		}
		it.FinanceEntryID = id
		s.done("finance entry "+id, func(ctx context.Context) error {
			return d.stores.Finance.Delete(ctx, id)
		})
	}

	if _, err := d.stores.Inventory.Create(ctx, it); err != nil {
		return Outcome{}, s.fail(ctx, fmt.Errorf("create inventory item: %w", err))
	}
	return applied(in.Action, it.Name), nil
}

func (d *Dispatcher) updateInventory(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.InventoryPayload)
	it, ok, err := d.findItem(ctx, p, nil)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Name), nil
	}

	patch := store.Patch{}
	if p.Category != "" {
		patch["category"] = p.Category
	}
	if p.Store != "" {
		patch["store"] = p.Store
	}
	switch domain.InventoryStatus(p.Status) {
	case domain.InventoryActive, domain.InventorySold, domain.InventoryUsed:
		patch["status"] = p.Status
	}
	if p.Quantity != nil {
		patch["quantity"] = *p.Quantity
	}
	if p.Cost != nil {
		patch["cost"] = *p.Cost
	}
	if len(patch) == 0 {
		return invalid(in.Action, "nothing to change"), nil
	}
	if err := d.stores.Inventory.Update(ctx, it.ID, patch); err != nil {
		return Outcome{}, fmt.Errorf("update inventory item %s: %w", it.ID, err)
	}
	return applied(in.Action, it.Name), nil
}

// sellInventory marks an item sold and records the sale price, or the cost
// when no price is given, as income.
func (d *Dispatcher) sellInventory(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.InventoryPayload)
	it, ok, err := d.findItem(ctx, p, func(i domain.InventoryItem) bool { return i.Status != domain.InventorySold })
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Name), nil
	}

	s := newSaga(in.Action)
	if err := d.stores.Inventory.Update(ctx, it.ID, store.Patch{"status": string(domain.InventorySold)}); err != nil {
		return Outcome{}, fmt.Errorf("mark %s sold: %w", it.ID, err)
	}
	s.done("inventory item "+it.ID+" marked sold", func(ctx context.Context) error {
		return d.stores.Inventory.Update(ctx, it.ID, store.Patch{"status": string(it.Status)})
	})

	amount := it.Cost
	if p.Price != nil {
		amount = *p.Price
	}
	if amount <= 0 {
		return applied(in.Action, it.Name), nil
	}
	_, err = d.stores.Finance.Create(ctx, domain.FinanceEntry{
		Type:        domain.Income,
		Amount:      amount,
		Category:    saleCategory,
		Description: it.Name,
		Date:        d.now(),
		Source:      "inventory",
	})
	if err != nil {
		return Outcome{}, s.fail(ctx, fmt.Errorf("record sale: %w", err))
	}
	return applied(in.Action, it.Name), nil
}

func (d *Dispatcher) deleteInventory(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.InventoryPayload)
	it, ok, err := d.findItem(ctx, p, nil)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Name), nil
	}
	if err := d.stores.Inventory.Delete(ctx, it.ID); err != nil {
		return Outcome{}, fmt.Errorf("delete inventory item %s: %w", it.ID, err)
	}
	return applied(in.Action, it.Name), nil
}
