package db

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"go-relieflink/types"
)

// MemoryStore is an in-process Store used by tests and the memory backend.
// Every read returns copies, so callers can never mutate stored state directly.
type MemoryStore struct {
	mu sync.RWMutex

	requests     map[string]types.AidRequest
	requestOrder []string
	alerts       []types.DisasterAlert
	shelters     map[string]types.Shelter
	inventory    map[types.ItemKind]types.InventoryItem
	profiles     map[types.Role]map[string]types.User
	settings     *types.PlatformSettings
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests:  make(map[string]types.AidRequest),
		shelters:  make(map[string]types.Shelter),
		inventory: make(map[types.ItemKind]types.InventoryItem),
		profiles:  make(map[types.Role]map[string]types.User),
	}
}

func (m *MemoryStore) Close() error { return nil }

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, types.ErrNotFound)
}

func copyRequest(r types.AidRequest) types.AidRequest {
	r.Items = append([]types.ItemKind(nil), r.Items...)
	if r.DeliveredAt != nil {
		t := *r.DeliveredAt
		r.DeliveredAt = &t
	}
	return r
}

func (m *MemoryStore) AddRequest(_ context.Context, req types.AidRequest) (types.AidRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req.ID = uuid.NewString()
	m.requests[req.ID] = copyRequest(req)
	m.requestOrder = append(m.requestOrder, req.ID)
	return copyRequest(req), nil
}

func (m *MemoryStore) GetRequest(_ context.Context, id string) (types.AidRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.requests[id]
	if !ok {
		return types.AidRequest{}, notFound("request", id)
	}
	return copyRequest(req), nil
}

func (m *MemoryStore) ListRequests(_ context.Context) ([]types.AidRequest, error) {
	return m.filterRequests(func(types.AidRequest) bool { return true }), nil
}

func (m *MemoryStore) ListRequestsByVictim(_ context.Context, victimID string) ([]types.AidRequest, error) {
	out := m.filterRequests(func(r types.AidRequest) bool { return r.VictimID == victimID })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) ListVolunteerTasks(_ context.Context, volunteerID string) ([]types.AidRequest, error) {
	return m.filterRequests(func(r types.AidRequest) bool {
		return r.AssignedVolunteerID == volunteerID &&
			(r.Status == types.StatusAssigned || r.Status == types.StatusDelivered)
	}), nil
}

func (m *MemoryStore) filterRequests(keep func(types.AidRequest) bool) []types.AidRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []types.AidRequest{}
	for _, id := range m.requestOrder {
		if r := m.requests[id]; keep(r) {
			out = append(out, copyRequest(r))
		}
	}
	return out
}

func (m *MemoryStore) UpdateRequest(_ context.Context, id string, mutate func(*types.AidRequest) error) (types.AidRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.requests[id]
	if !ok {
		return types.AidRequest{}, notFound("request", id)
	}
	req := copyRequest(stored)
	if err := mutate(&req); err != nil {
		return types.AidRequest{}, err
	}
	req.ID = id
	m.requests[id] = copyRequest(req)
	return req, nil
}

func (m *MemoryStore) AddAlert(_ context.Context, alert types.DisasterAlert) (types.DisasterAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	alert.ID = uuid.NewString()
	m.alerts = append(m.alerts, alert)
	return alert, nil
}

func (m *MemoryStore) ListAlerts(_ context.Context, limit int) ([]types.DisasterAlert, error) {
	m.mu.RLock()
	alerts := append([]types.DisasterAlert(nil), m.alerts...)
	m.mu.RUnlock()

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	if limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}
	if alerts == nil {
		alerts = []types.DisasterAlert{}
	}
	return alerts, nil
}

func (m *MemoryStore) AddShelter(_ context.Context, shelter types.Shelter) (types.Shelter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shelter.ID = uuid.NewString()
	m.shelters[shelter.ID] = shelter
	return shelter, nil
}

func (m *MemoryStore) GetShelter(_ context.Context, id string) (types.Shelter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shelter, ok := m.shelters[id]
	if !ok {
		return types.Shelter{}, notFound("shelter", id)
	}
	return shelter, nil
}

func (m *MemoryStore) ListShelters(_ context.Context) ([]types.Shelter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shelters := make([]types.Shelter, 0, len(m.shelters))
	for _, s := range m.shelters {
		shelters = append(shelters, s)
	}
	sort.Slice(shelters, func(i, j int) bool {
		if shelters[i].Name == shelters[j].Name {
			return shelters[i].ID < shelters[j].ID
		}
		return shelters[i].Name < shelters[j].Name
	})
	return shelters, nil
}

func (m *MemoryStore) UpdateShelter(_ context.Context, id string, mutate func(*types.Shelter) error) (types.Shelter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shelter, ok := m.shelters[id]
	if !ok {
		return types.Shelter{}, notFound("shelter", id)
	}
	if err := mutate(&shelter); err != nil {
		return types.Shelter{}, err
	}
	shelter.ID = id
	m.shelters[id] = shelter
	return shelter, nil
}

func (m *MemoryStore) ListInventory(_ context.Context) ([]types.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]types.InventoryItem, 0, len(m.inventory))
	for _, item := range m.inventory {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *MemoryStore) SetInventoryItem(_ context.Context, item types.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inventory[item.ID] = item
	return nil
}

func (m *MemoryStore) CreateInventoryItem(_ context.Context, item types.InventoryItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.inventory[item.ID]; ok {
		return false, nil
	}
	m.inventory[item.ID] = item
	return true, nil
}

func (m *MemoryStore) UpdateInventoryItem(_ context.Context, kind types.ItemKind, mutate func(*types.InventoryItem) error) (types.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.inventory[kind]
	if !ok {
		return types.InventoryItem{}, notFound("inventory item", string(kind))
	}
	if err := mutate(&item); err != nil {
		return types.InventoryItem{}, err
	}
	item.ID = kind
	m.inventory[kind] = item
	return item, nil
}

func (m *MemoryStore) ProfileExists(_ context.Context, role types.Role, uid string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.profiles[role][uid]
	return ok, nil
}

func (m *MemoryStore) GetProfile(_ context.Context, role types.Role, uid string) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.profiles[role][uid]
	if !ok {
		return types.User{}, notFound(role.Collection()+" profile", uid)
	}
	return user, nil
}

// SaveProfile mirrors Firestore's MergeAll: empty optional fields keep their stored value.
func (m *MemoryStore) SaveProfile(_ context.Context, user types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byID, ok := m.profiles[user.Role]
	if !ok {
		byID = make(map[string]types.User)
		m.profiles[user.Role] = byID
	}
	if existing, ok := byID[user.ID]; ok {
		if user.PhoneNumber == "" {
			user.PhoneNumber = existing.PhoneNumber
		}
		if user.Location == "" {
			user.Location = existing.Location
		}
		if user.Availability == nil {
			user.Availability = existing.Availability
		}
	}
	byID[user.ID] = user
	return nil
}

func (m *MemoryStore) ListProfiles(_ context.Context, role types.Role) ([]types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]types.User, 0, len(m.profiles[role]))
	for _, u := range m.profiles[role] {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name == users[j].Name {
			return users[i].ID < users[j].ID
		}
		return users[i].Name < users[j].Name
	})
	return users, nil
}

func (m *MemoryStore) GetSettings(_ context.Context) (types.PlatformSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return types.PlatformSettings{ActiveDisaster: types.DefaultDisaster}, nil
	}
	return *m.settings, nil
}

func (m *MemoryStore) SaveSettings(_ context.Context, settings types.PlatformSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = &settings
	return nil
}

func (m *MemoryStore) InitSettings(_ context.Context, settings types.PlatformSettings) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings != nil {
		return false, nil
	}
	m.settings = &settings
	return true, nil
}
