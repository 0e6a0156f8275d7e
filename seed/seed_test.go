package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-relieflink/db"
	"go-relieflink/types"
)

func TestRun_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	require.NoError(t, Run(ctx, store, zap.NewNop()))
	require.NoError(t, Run(ctx, store, zap.NewNop()))

	items, err := store.ListInventory(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 6)
	for _, item := range items {
		assert.True(t, item.ID.PhysicalGood(), item.ID)
	}

	all, err := store.ListShelters(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alerts, err := store.ListAlerts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, types.Flood, alerts[0].Type)
}

func TestRun_KeepsAdminChanges(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	require.NoError(t, Run(ctx, store, zap.NewNop()))

	require.NoError(t, store.SaveSettings(ctx, types.PlatformSettings{ActiveDisaster: types.Earthquake}))
	_, err := store.UpdateInventoryItem(ctx, types.Food, func(item *types.InventoryItem) error {
		item.Quantity = 3
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, Run(ctx, store, zap.NewNop()))

	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Earthquake, settings.ActiveDisaster)

	items, err := store.ListInventory(ctx)
	require.NoError(t, err)
	for _, item := range items {
		if item.ID == types.Food {
			assert.Equal(t, 3, item.Quantity)
		}
	}
}

func TestRun_FillsMissingInventory(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	require.NoError(t, store.SetInventoryItem(ctx, types.InventoryItem{ID: types.Water, Name: "Water", Quantity: 7, Threshold: 1}))

	require.NoError(t, Run(ctx, store, zap.NewNop()))

	items, err := store.ListInventory(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 6)
	for _, item := range items {
		if item.ID == types.Water {
			assert.Equal(t, 7, item.Quantity)
		}
	}
}
