// Package estimator reconciles outstanding aid requests against stock on hand.
//
// Demand is a request count, not a quantity: each non-delivered request adds
// exactly one unit of demand for every physical-good kind it lists.
package estimator

import (
	"sort"

	"go-relieflink/types"
)

// ItemEstimate is one row of the stock vs. demand comparison.
type ItemEstimate struct {
	ItemKind   types.ItemKind `json:"itemKind"`
	Name       string         `json:"name"`
	Demand     int            `json:"demand"`
	Available  int            `json:"available"`
	Shortage   int            `json:"shortage"`
	Sufficient bool           `json:"sufficient"`
	LowStock   bool           `json:"lowStock"`
}

type DemandCount struct {
	ItemKind types.ItemKind `json:"itemKind"`
	Count    int            `json:"count"`
}

// OutstandingDemand counts, per physical-good kind, the non-delivered requests listing it.
func OutstandingDemand(requests []types.AidRequest) map[types.ItemKind]int {
	demand := make(map[types.ItemKind]int)
	for _, req := range requests {
		if !req.Outstanding() {
			continue
		}
		for _, kind := range types.ItemKinds {
			if kind.PhysicalGood() && req.HasItem(kind) {
				demand[kind]++
			}
		}
	}
	return demand
}

// Estimate returns one row per inventory item, in inventory order.
func Estimate(requests []types.AidRequest, inventory []types.InventoryItem) []ItemEstimate {
	demand := OutstandingDemand(requests)

	estimates := make([]ItemEstimate, 0, len(inventory))
	for _, item := range inventory {
		d := demand[item.ID]
		shortage := d - item.Quantity
		if shortage < 0 {
			shortage = 0
		}
		name := item.Name
		if name == "" {
			name = item.ID.Label()
		}
		estimates = append(estimates, ItemEstimate{
			ItemKind:   item.ID,
			Name:       name,
			Demand:     d,
			Available:  item.Quantity,
			Shortage:   shortage,
			Sufficient: shortage == 0,
			LowStock:   item.LowStock(),
		})
	}
	return estimates
}

// Shortages keeps only the rows whose demand exceeds stock.
func Shortages(estimates []ItemEstimate) []ItemEstimate {
	var out []ItemEstimate
	for _, e := range estimates {
		if e.Shortage > 0 {
			out = append(out, e)
		}
	}
	return out
}

func LowStock(inventory []types.InventoryItem) []types.InventoryItem {
	var out []types.InventoryItem
	for _, item := range inventory {
		if item.LowStock() {
			out = append(out, item)
		}
	}
	return out
}

// DemandDistribution counts every request regardless of status, for reporting.
// Results are sorted by count descending; equal counts keep first-encounter order.
func DemandDistribution(requests []types.AidRequest) []DemandCount {
	index := make(map[types.ItemKind]int)
	var counts []DemandCount
	for _, req := range requests {
		for _, kind := range req.Items {
			if !kind.Valid() {
				continue
			}
			i, ok := index[kind]
			if !ok {
				i = len(counts)
				index[kind] = i
				counts = append(counts, DemandCount{ItemKind: kind})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if counts == nil {
		counts = []DemandCount{}
	}
	return counts
}
