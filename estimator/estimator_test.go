package estimator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-relieflink/db"
	"go-relieflink/types"
)

func req(status types.RequestStatus, items ...types.ItemKind) types.AidRequest {
	return types.AidRequest{Status: status, Items: items}
}

var stock = []types.InventoryItem{
	{ID: types.Food, Name: "Food Rations", Quantity: 1, Threshold: 5},
	{ID: types.Water, Name: "Water Bottles", Quantity: 10, Threshold: 5},
	{ID: types.Tents, Quantity: 0, Threshold: 0},
}

func byKind(estimates []ItemEstimate) map[types.ItemKind]ItemEstimate {
	m := make(map[types.ItemKind]ItemEstimate, len(estimates))
	for _, e := range estimates {
		m[e.ItemKind] = e
	}
	return m
}

func TestEstimate_ExcludesDelivered(t *testing.T) {
	requests := []types.AidRequest{
		req(types.StatusPending, types.Food, types.Water),
		req(types.StatusAssigned, types.Food, types.MedicalHelp),
		req(types.StatusDelivered, types.Food, types.Water, types.Tents),
		req(types.StatusPending, types.Water),
	}

	got := Estimate(requests, stock)
	require.Len(t, got, 3)
	assert.Equal(t, types.Food, got[0].ItemKind, "inventory order is kept")

	rows := byKind(got)
	assert.Equal(t, ItemEstimate{ItemKind: types.Food, Name: "Food Rations", Demand: 2, Available: 1, Shortage: 1, Sufficient: false, LowStock: true}, rows[types.Food])
	assert.Equal(t, 2, rows[types.Water].Demand)
	assert.Equal(t, 0, rows[types.Water].Shortage)
	assert.True(t, rows[types.Water].Sufficient)
	assert.Equal(t, 0, rows[types.Tents].Demand)
	assert.Equal(t, "Tents", rows[types.Tents].Name)
}

func TestEstimate_RequestLifecycleScenario(t *testing.T) {
	r := req(types.StatusPending, types.Food, types.Water)
	before := byKind(Estimate(nil, stock))

	pending := byKind(Estimate([]types.AidRequest{r}, stock))
	assert.Equal(t, before[types.Food].Demand+1, pending[types.Food].Demand)
	assert.Equal(t, before[types.Water].Demand+1, pending[types.Water].Demand)

	r.Status = types.StatusAssigned
	r.AssignedVolunteerID = "user2"
	assigned := byKind(Estimate([]types.AidRequest{r}, stock))
	assert.Equal(t, pending, assigned)

	r.Status = types.StatusDelivered
	delivered := byKind(Estimate([]types.AidRequest{r}, stock))
	assert.Equal(t, pending[types.Food].Demand-1, delivered[types.Food].Demand)
	assert.Equal(t, pending[types.Water].Demand-1, delivered[types.Water].Demand)
}

func TestOutstandingDemand_OrderIndependent(t *testing.T) {
	a := []types.AidRequest{
		req(types.StatusPending, types.Food),
		req(types.StatusAssigned, types.Food, types.Blankets),
		req(types.StatusDelivered, types.Blankets),
	}
	b := []types.AidRequest{a[2], a[0], a[1]}

	assert.Equal(t, OutstandingDemand(a), OutstandingDemand(b))
	assert.Equal(t, map[types.ItemKind]int{types.Food: 2, types.Blankets: 1}, OutstandingDemand(a))
}

func TestShortagesAndLowStock(t *testing.T) {
	requests := []types.AidRequest{req(types.StatusPending, types.Food), req(types.StatusPending, types.Food)}
	shortages := Shortages(Estimate(requests, stock))
	require.Len(t, shortages, 1)
	assert.Equal(t, types.Food, shortages[0].ItemKind)

	low := LowStock(stock)
	assert.Len(t, low, 2)
}

func TestDemandDistribution(t *testing.T) {
	requests := []types.AidRequest{
		req(types.StatusDelivered, types.Medicine, types.Water),
		req(types.StatusPending, types.Food, types.Water),
		req(types.StatusAssigned, types.Food, types.BoatTransport),
		req(types.StatusPending, types.Water),
	}

	got := DemandDistribution(requests)
	assert.Equal(t, []DemandCount{
		{ItemKind: types.Water, Count: 3},
		{ItemKind: types.Food, Count: 2},
		{ItemKind: types.Medicine, Count: 1},
		{ItemKind: types.BoatTransport, Count: 1},
	}, got)

	assert.Equal(t, []DemandCount{}, DemandDistribution(nil))
}

type failingSource struct {
	db.Store
}

func (failingSource) ListRequests(context.Context) ([]types.AidRequest, error) {
	return nil, errors.New("firestore unavailable")
}

func (failingSource) ListInventory(context.Context) ([]types.InventoryItem, error) {
	return stock, nil
}

func TestEstimateFromStore(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	for _, item := range stock {
		require.NoError(t, store.SetInventoryItem(ctx, item))
	}
	_, err := store.AddRequest(ctx, req(types.StatusPending, types.Tents))
	require.NoError(t, err)

	got, err := EstimateFromStore(ctx, store)
	require.NoError(t, err)
	rows := byKind(got)
	assert.Equal(t, 1, rows[types.Tents].Shortage)

	_, err = EstimateFromStore(ctx, failingSource{})
	assert.EqualError(t, err, "firestore unavailable")
}

func TestOutstandingDemand_CountsEachRequestOnce(t *testing.T) {
	requests := []types.AidRequest{req(types.StatusPending, types.Food, types.Food, types.MedicalHelp)}
	assert.Equal(t, map[types.ItemKind]int{types.Food: 1}, OutstandingDemand(requests))
}
