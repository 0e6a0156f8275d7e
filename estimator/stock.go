package estimator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-relieflink/db"
	"go-relieflink/metrics"
	"go-relieflink/types"
)

// StockLevel is an administrator's absolute count for one item kind.
type StockLevel struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// ApplyDelta adds delta to the item's quantity. Stock never drops below zero.
func ApplyDelta(item types.InventoryItem, delta int) (types.InventoryItem, error) {
	if item.Quantity+delta < 0 {
		return item, types.NewValidationError("delta", "only %d %s in stock", item.Quantity, item.ID)
	}
	item.Quantity += delta
	return item, nil
}

// Stock manages the inventory collection.
type Stock struct {
	store db.InventoryStore
	log   *zap.Logger
}

func NewStock(store db.InventoryStore, log *zap.Logger) *Stock {
	return &Stock{store: store, log: log.Named("inventory")}
}

func (s *Stock) List(ctx context.Context) ([]types.InventoryItem, error) {
	return s.store.ListInventory(ctx)
}

// Set creates or replaces the stock level of a physical good.
func (s *Stock) Set(ctx context.Context, kind types.ItemKind, level StockLevel) (types.InventoryItem, error) {
	if !kind.PhysicalGood() {
		return types.InventoryItem{}, types.NewValidationError("itemKind", "%q is not a stockable item", kind)
	}
	if level.Quantity < 0 {
		return types.InventoryItem{}, types.NewValidationError("quantity", "quantity cannot be negative")
	}
	if level.Threshold < 0 {
		return types.InventoryItem{}, types.NewValidationError("threshold", "threshold cannot be negative")
	}
	name := strings.TrimSpace(level.Name)
	if name == "" {
		name = kind.Label()
	}

	item := types.InventoryItem{ID: kind, Name: name, Quantity: level.Quantity, Threshold: level.Threshold}
	if err := s.store.SetInventoryItem(ctx, item); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("set_inventory").Inc()
		s.log.Error("failed to set stock", zap.String("item", string(kind)), zap.Error(err))
		return types.InventoryItem{}, err
	}
	s.log.Info("stock set", zap.String("item", string(kind)), zap.Int("quantity", item.Quantity))
	return item, nil
}

// Adjust applies a relative change, such as goods received or handed out.
func (s *Stock) Adjust(ctx context.Context, kind types.ItemKind, delta int) (types.InventoryItem, error) {
	if !kind.PhysicalGood() {
		return types.InventoryItem{}, types.NewValidationError("itemKind", "%q is not a stockable item", kind)
	}
	item, err := s.store.UpdateInventoryItem(ctx, kind, func(it *types.InventoryItem) error {
		adjusted, err := ApplyDelta(*it, delta)
		if err != nil {
			return err
		}
		*it = adjusted
		return nil
	})
	if err != nil {
		if types.IsRemote(err) {
			metrics.OperationErrorsTotal.WithLabelValues("adjust_inventory").Inc()
			s.log.Error("failed to adjust stock", zap.String("item", string(kind)), zap.Error(err))
		}
		return types.InventoryItem{}, err
	}
	s.log.Info("stock adjusted",
		zap.String("item", string(kind)),
		zap.Int("delta", delta),
		zap.Int("quantity", item.Quantity))
	return item, nil
}
