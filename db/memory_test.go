package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-relieflink/types"
)

func TestMemoryStore_RequestsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	req, err := store.AddRequest(ctx, types.AidRequest{
		VictimID: "victim-1",
		Location: "123 Main St",
		Items:    []types.ItemKind{types.Food},
		Status:   types.StatusPending,
	})
	require.NoError(t, err)
	require.NotEmpty(t, req.ID)

	req.Items[0] = types.Water

	stored, err := store.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.ItemKind{types.Food}, stored.Items)
}

func TestMemoryStore_UpdateRequestRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	req, err := store.AddRequest(ctx, types.AidRequest{Items: []types.ItemKind{types.Food}, Status: types.StatusPending})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = store.UpdateRequest(ctx, req.ID, func(r *types.AidRequest) error {
		r.Status = types.StatusDelivered
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := store.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, stored.Status)

	_, err = store.UpdateRequest(ctx, "missing", func(*types.AidRequest) error { return nil })
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMemoryStore_VolunteerTasks(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, r := range []types.AidRequest{
		{Status: types.StatusPending},
		{Status: types.StatusAssigned, AssignedVolunteerID: "vol-1"},
		{Status: types.StatusDelivered, AssignedVolunteerID: "vol-1"},
		{Status: types.StatusAssigned, AssignedVolunteerID: "vol-2"},
	} {
		_, err := store.AddRequest(ctx, r)
		require.NoError(t, err)
	}

	tasks, err := store.ListVolunteerTasks(ctx, "vol-1")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestMemoryStore_AlertsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	_, _ = store.AddAlert(ctx, types.DisasterAlert{Message: "older", CreatedAt: base})
	_, _ = store.AddAlert(ctx, types.DisasterAlert{Message: "newest", CreatedAt: base.Add(2 * time.Hour)})
	_, _ = store.AddAlert(ctx, types.DisasterAlert{Message: "middle", CreatedAt: base.Add(time.Hour)})

	alerts, err := store.ListAlerts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, "newest", alerts[0].Message)
	assert.Equal(t, "older", alerts[2].Message)

	latest, err := store.ListAlerts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "newest", latest[0].Message)
}

func TestMemoryStore_SaveProfileMerges(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	available := true

	require.NoError(t, store.SaveProfile(ctx, types.User{
		ID: "u1", Name: "Maria", Email: "maria@relief.link", Role: types.RoleVolunteer,
		PhoneNumber: "555-0100", Availability: &available,
	}))
	require.NoError(t, store.SaveProfile(ctx, types.User{
		ID: "u1", Name: "Maria Garcia", Email: "maria@relief.link", Role: types.RoleVolunteer,
	}))

	user, err := store.GetProfile(ctx, types.RoleVolunteer, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Garcia", user.Name)
	assert.Equal(t, "555-0100", user.PhoneNumber)
	require.NotNil(t, user.Availability)
	assert.True(t, *user.Availability)

	exists, err := store.ProfileExists(ctx, types.RoleAdmin, "u1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryStore_SettingsDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Flood, settings.ActiveDisaster)

	require.NoError(t, store.SaveSettings(ctx, types.PlatformSettings{ActiveDisaster: types.Fire}))
	settings, err = store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Fire, settings.ActiveDisaster)
}

func TestMemoryStore_CreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ok, err := store.InitSettings(ctx, types.PlatformSettings{ActiveDisaster: types.Heatwave})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.InitSettings(ctx, types.PlatformSettings{ActiveDisaster: types.Flood})
	require.NoError(t, err)
	assert.False(t, ok)
	settings, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Heatwave, settings.ActiveDisaster)

	ok, err = store.CreateInventoryItem(ctx, types.InventoryItem{ID: types.Tents, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.CreateInventoryItem(ctx, types.InventoryItem{ID: types.Tents, Quantity: 50})
	require.NoError(t, err)
	assert.False(t, ok)
	items, err := store.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestMemoryStore_VictimRequestsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	first, err := store.AddRequest(ctx, types.AidRequest{VictimID: "v1", CreatedAt: base})
	require.NoError(t, err)
	_, err = store.AddRequest(ctx, types.AidRequest{VictimID: "v2", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	second, err := store.AddRequest(ctx, types.AidRequest{VictimID: "v1", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)
	tied, err := store.AddRequest(ctx, types.AidRequest{VictimID: "v1", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)

	got, err := store.ListRequestsByVictim(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{tied.ID, second.ID, first.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
}
