package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-relieflink/db"
	"go-relieflink/types"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestEngine() (*Engine, *db.MemoryStore) {
	store := db.NewMemoryStore()
	e := NewEngine(store, zap.NewNop())
	e.now = func() time.Time { return fixedNow }
	return e, store
}

func createPending(t *testing.T, e *Engine) types.AidRequest {
	t.Helper()
	req, err := e.CreateRequest(context.Background(), Victim{ID: "victim-1", Name: "Family in North Sector"},
		"123 Main St, Cityville", []types.ItemKind{types.Food, types.Water})
	require.NoError(t, err)
	return req
}

// assignmentConsistent checks that the volunteer is set iff the request left pending.
func assignmentConsistent(r types.AidRequest) bool {
	hasVolunteer := r.AssignedVolunteerID != ""
	return hasVolunteer == (r.Status == types.StatusAssigned || r.Status == types.StatusDelivered)
}

func TestCreateRequest(t *testing.T) {
	e, _ := newTestEngine()
	req := createPending(t, e)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, types.StatusPending, req.Status)
	assert.Equal(t, fixedNow, req.CreatedAt)
	assert.Empty(t, req.AssignedVolunteerID)
	assert.Empty(t, req.AssignedVolunteerName)
	assert.True(t, assignmentConsistent(req))
}

func TestCreateRequest_Validation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		items    []types.ItemKind
		field    string
	}{
		{name: "empty_items", location: "X", items: nil, field: "items"},
		{name: "blank_location", location: "   ", items: []types.ItemKind{types.Food}, field: "location"},
		{name: "unknown_item", location: "X", items: []types.ItemKind{"rope"}, field: "items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newTestEngine()
			_, err := e.CreateRequest(context.Background(), Victim{ID: "v"}, tt.location, tt.items)

			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			all, _ := store.ListRequests(context.Background())
			assert.Empty(t, all)
		})
	}
}

func TestCreateRequest_CollapsesDuplicateItems(t *testing.T) {
	e, _ := newTestEngine()
	req, err := e.CreateRequest(context.Background(), Victim{ID: "v"}, "X",
		[]types.ItemKind{types.Water, types.Food, types.Water})
	require.NoError(t, err)
	assert.Equal(t, []types.ItemKind{types.Water, types.Food}, req.Items)
	assert.Equal(t, "Anonymous", req.VictimName)
}

func TestAssignVolunteer(t *testing.T) {
	e, _ := newTestEngine()
	req := createPending(t, e)

	assigned, err := e.AssignVolunteer(context.Background(), req.ID, "user2", "Maria Garcia")
	require.NoError(t, err)
	assert.Equal(t, types.StatusAssigned, assigned.Status)
	assert.Equal(t, "user2", assigned.AssignedVolunteerID)
	assert.Equal(t, "Maria Garcia", assigned.AssignedVolunteerName)
	assert.True(t, assignmentConsistent(assigned))
}

func TestAssignVolunteer_DoesNotOverwrite(t *testing.T) {
	e, store := newTestEngine()
	req := createPending(t, e)

	_, err := e.AssignVolunteer(context.Background(), req.ID, "user2", "Maria Garcia")
	require.NoError(t, err)

	_, err = e.AssignVolunteer(context.Background(), req.ID, "user3", "John Smith")
	var terr *types.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, types.StatusAssigned, terr.From)

	stored, err := store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, "user2", stored.AssignedVolunteerID)
	assert.Equal(t, "Maria Garcia", stored.AssignedVolunteerName)
}

func TestAssignVolunteer_Errors(t *testing.T) {
	e, _ := newTestEngine()
	req := createPending(t, e)

	_, err := e.AssignVolunteer(context.Background(), "missing", "user2", "Maria")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = e.AssignVolunteer(context.Background(), req.ID, "", "Maria")
	assert.True(t, types.IsValidation(err))
}

func TestAssignVolunteer_ConcurrentOnlyOneWins(t *testing.T) {
	e, store := newTestEngine()
	req := createPending(t, e)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.AssignVolunteer(context.Background(), req.ID, fmt.Sprintf("vol-%d", i), fmt.Sprintf("Volunteer %d", i))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, types.IsInvalidTransition(err))
	}
	assert.Equal(t, 1, succeeded)

	stored, err := store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.True(t, assignmentConsistent(stored))
}

func TestMarkDelivered(t *testing.T) {
	e, _ := newTestEngine()
	req := createPending(t, e)

	_, err := e.MarkDelivered(context.Background(), req.ID)
	var terr *types.InvalidTransitionError
	require.ErrorAs(t, err, &terr, "pending request cannot be delivered")
	assert.Equal(t, types.StatusPending, terr.From)

	_, err = e.AssignVolunteer(context.Background(), req.ID, "user2", "Maria Garcia")
	require.NoError(t, err)

	delivered, err := e.MarkDelivered(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)
	assert.Equal(t, fixedNow, *delivered.DeliveredAt)
	assert.Equal(t, "user2", delivered.AssignedVolunteerID)
	assert.True(t, assignmentConsistent(delivered))

	_, err = e.MarkDelivered(context.Background(), req.ID)
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, types.StatusDelivered, terr.From)
}

func TestConfirmDelivery_OnlyAssignee(t *testing.T) {
	e, _ := newTestEngine()
	req := createPending(t, e)
	_, err := e.AssignVolunteer(context.Background(), req.ID, "user2", "Maria Garcia")
	require.NoError(t, err)

	_, err = e.ConfirmDelivery(context.Background(), req.ID, "user3")
	assert.ErrorIs(t, err, types.ErrNotAssignee)

	delivered, err := e.ConfirmDelivery(context.Background(), req.ID, "user2")
	require.NoError(t, err)
	assert.Equal(t, types.StatusDelivered, delivered.Status)
}

func TestQueries(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	mine := createPending(t, e)
	_, err := e.CreateRequest(ctx, Victim{ID: "victim-2"}, "Elm Ct", []types.ItemKind{types.Water})
	require.NoError(t, err)
	_, err = e.AssignVolunteer(ctx, mine.ID, "user2", "Maria Garcia")
	require.NoError(t, err)

	victimRequests, err := e.RequestsForVictim(ctx, "victim-1")
	require.NoError(t, err)
	require.Len(t, victimRequests, 1)
	assert.Equal(t, mine.ID, victimRequests[0].ID)

	tasks, err := e.TasksForVolunteer(ctx, "user2")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	all, err := e.ListRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestQRCodeURL(t *testing.T) {
	assert.Equal(t,
		"https://api.qrserver.com/v1/create-qr-code/?data=req+1%2F2&size=200x200",
		QRCodeURL("req 1/2"))
}

func TestCheckOffered(t *testing.T) {
	assert.NoError(t, CheckOffered([]types.ItemKind{types.Food, types.BoatTransport}, types.Flood))
	assert.NoError(t, CheckOffered([]types.ItemKind{"rope"}, types.Fire))

	err := CheckOffered([]types.ItemKind{types.Water, types.BoatTransport}, types.Fire)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items", verr.Field)
	assert.Contains(t, err.Error(), "Boat Transport")
}
