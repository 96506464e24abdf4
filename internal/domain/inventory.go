package domain

import "time"

type InventoryStatus string

const (
	InventoryActive InventoryStatus = "active"
	InventorySold   InventoryStatus = "sold"
	InventoryUsed   InventoryStatus = "used"
)

type InventoryItem struct {
	ID             string
	UserID         string
	Name           string
	Category       string
	Quantity       int
	Cost           float64
	Store          string
	Status         InventoryStatus
	FinanceEntryID string
	PurchasedAt    time.Time
}
