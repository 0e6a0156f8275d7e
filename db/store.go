package db

import (
	"context"

	"go-relieflink/types"
)

// RequestStore persists aid requests. UpdateRequest runs mutate against the
// latest stored copy and writes the result atomically; if mutate returns an
// error nothing is written and that error is returned unchanged.
type RequestStore interface {
	AddRequest(ctx context.Context, req types.AidRequest) (types.AidRequest, error)
	GetRequest(ctx context.Context, id string) (types.AidRequest, error)
	ListRequests(ctx context.Context) ([]types.AidRequest, error)
	// ListRequestsByVictim returns the victim's requests newest first.
	ListRequestsByVictim(ctx context.Context, victimID string) ([]types.AidRequest, error)
	ListVolunteerTasks(ctx context.Context, volunteerID string) ([]types.AidRequest, error)
	UpdateRequest(ctx context.Context, id string, mutate func(*types.AidRequest) error) (types.AidRequest, error)
}

// AlertStore is append-only.
type AlertStore interface {
	AddAlert(ctx context.Context, alert types.DisasterAlert) (types.DisasterAlert, error)
	// ListAlerts returns alerts newest first. limit <= 0 returns all of them.
	ListAlerts(ctx context.Context, limit int) ([]types.DisasterAlert, error)
}

type ShelterStore interface {
	AddShelter(ctx context.Context, shelter types.Shelter) (types.Shelter, error)
	GetShelter(ctx context.Context, id string) (types.Shelter, error)
	ListShelters(ctx context.Context) ([]types.Shelter, error)
	UpdateShelter(ctx context.Context, id string, mutate func(*types.Shelter) error) (types.Shelter, error)
}

// InventoryStore keys items by item kind; listing is ordered by kind.
type InventoryStore interface {
	ListInventory(ctx context.Context) ([]types.InventoryItem, error)
	SetInventoryItem(ctx context.Context, item types.InventoryItem) error
	// CreateInventoryItem writes item only if no item of that kind exists and
	// reports whether it did.
	CreateInventoryItem(ctx context.Context, item types.InventoryItem) (bool, error)
	UpdateInventoryItem(ctx context.Context, kind types.ItemKind, mutate func(*types.InventoryItem) error) (types.InventoryItem, error)
}

// ProfileStore keeps one profile collection per role.
type ProfileStore interface {
	ProfileExists(ctx context.Context, role types.Role, uid string) (bool, error)
	GetProfile(ctx context.Context, role types.Role, uid string) (types.User, error)
	// SaveProfile merges the non-empty profile fields into the role's collection.
	SaveProfile(ctx context.Context, user types.User) error
	ListProfiles(ctx context.Context, role types.Role) ([]types.User, error)
}

type SettingsStore interface {
	// GetSettings returns defaults when nothing has been saved yet.
	GetSettings(ctx context.Context) (types.PlatformSettings, error)
	SaveSettings(ctx context.Context, settings types.PlatformSettings) error
	// InitSettings saves settings unless some have already been saved.
	InitSettings(ctx context.Context, settings types.PlatformSettings) (bool, error)
}

type Store interface {
	RequestStore
	AlertStore
	ShelterStore
	InventoryStore
	ProfileStore
	SettingsStore
	Close() error
}
