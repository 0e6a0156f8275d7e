package types

// InventoryItem is keyed by a physical-good item kind.
type InventoryItem struct {
	ID        ItemKind `firestore:"-" json:"id"`
	Name      string   `firestore:"name" json:"name"`
	Quantity  int      `firestore:"quantity" json:"quantity"`
	Threshold int      `firestore:"threshold" json:"threshold"`
}

func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.Threshold
}
