package estimator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"go-relieflink/db"
	"go-relieflink/types"
)

// Source is the slice of the store the estimator reads.
type Source interface {
	ListRequests(ctx context.Context) ([]types.AidRequest, error)
	ListInventory(ctx context.Context) ([]types.InventoryItem, error)
}

var _ Source = (db.Store)(nil)

// Snapshot is the store state a report was computed from.
type Snapshot struct {
	Requests  []types.AidRequest
	Inventory []types.InventoryItem
}

// Load reads requests and inventory concurrently.
func Load(ctx context.Context, src Source) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		requests, err := src.ListRequests(gctx)
		if err != nil {
			return err
		}
		snap.Requests = requests
		return nil
	})
	g.Go(func() error {
		inventory, err := src.ListInventory(gctx)
		if err != nil {
			return err
		}
		snap.Inventory = inventory
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// EstimateFromStore loads the current state and computes the shortage table.
func EstimateFromStore(ctx context.Context, src Source) ([]ItemEstimate, error) {
	snap, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return Estimate(snap.Requests, snap.Inventory), nil
}
