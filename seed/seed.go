// Package seed loads a demo dataset into an empty store.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-relieflink/db"
	"go-relieflink/types"
)

var shelters = []types.Shelter{
	{Name: "Central High School Gym", Location: "200 School Rd, Cityville", Capacity: 250, CurrentOccupancy: 120, Latitude: 34.0522, Longitude: -118.2437},
	{Name: "Community Center", Location: "456 Oak Ave, Townburg", Capacity: 100, CurrentOccupancy: 100, Latitude: 34.0689, Longitude: -118.4452},
	{Name: "Hilltop Church Hall", Location: "12 Ridge Way, Villagetown", Capacity: 60, CurrentOccupancy: 15, Latitude: 34.1478, Longitude: -118.1445},
}

// inventory covers every physical good.
var inventory = []types.InventoryItem{
	{ID: types.Food, Name: "Food Rations", Quantity: 150, Threshold: 50},
	{ID: types.Water, Name: "Water Bottles", Quantity: 300, Threshold: 100},
	{ID: types.Medicine, Name: "Medicine Kits", Quantity: 20, Threshold: 25},
	{ID: types.LifeJackets, Name: "Life Jackets", Quantity: 40, Threshold: 20},
	{ID: types.Blankets, Name: "Blankets", Quantity: 80, Threshold: 30},
	{ID: types.Tents, Name: "Tents", Quantity: 10, Threshold: 15},
}

const floodWarning = "Major flood warning for the Cityville area. Please seek higher ground immediately."

// Run writes the demo data without clobbering anything already there:
// inventory items and settings are created only when absent, shelters and
// the opening alert only when their collections are empty.
func Run(ctx context.Context, store db.Store, log *zap.Logger) error {
	created := 0
	for _, item := range inventory {
		ok, err := store.CreateInventoryItem(ctx, item)
		if err != nil {
			return fmt.Errorf("seed inventory %s: %w", item.ID, err)
		}
		if ok {
			created++
		}
	}
	log.Info("seeded inventory", zap.Int("created", created), zap.Int("skipped", len(inventory)-created))

	existing, err := store.ListShelters(ctx)
	if err != nil {
		return fmt.Errorf("list shelters: %w", err)
	}
	if len(existing) == 0 {
		for _, s := range shelters {
			if _, err := store.AddShelter(ctx, s); err != nil {
				return fmt.Errorf("seed shelter %q: %w", s.Name, err)
			}
		}
		log.Info("seeded shelters", zap.Int("shelters", len(shelters)))
	} else {
		log.Info("shelters already present, skipping", zap.Int("shelters", len(existing)))
	}

	alerts, err := store.ListAlerts(ctx, 1)
	if err != nil {
		return fmt.Errorf("list alerts: %w", err)
	}
	if len(alerts) == 0 {
		alert := types.DisasterAlert{Type: types.Flood, Message: floodWarning, CreatedAt: time.Now().UTC()}
		if _, err := store.AddAlert(ctx, alert); err != nil {
			return fmt.Errorf("seed alert: %w", err)
		}
		log.Info("seeded opening alert")
	}

	ok, err := store.InitSettings(ctx, types.PlatformSettings{ActiveDisaster: types.DefaultDisaster})
	if err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if ok {
		log.Info("seeded settings", zap.String("activeDisaster", string(types.DefaultDisaster)))
	}
	return nil
}
