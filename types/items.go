package types

// ItemKind is one of the fixed kinds of aid a victim can ask for.
// Values match the strings stored in the requests and inventory collections.
type ItemKind string

const (
	Food          ItemKind = "food"
	Water         ItemKind = "water"
	Medicine      ItemKind = "medicine"
	MedicalHelp   ItemKind = "medical help"
	BoatTransport ItemKind = "boat transport"
	LifeJackets   ItemKind = "life jackets"
	Blankets      ItemKind = "blankets"
	Tents         ItemKind = "tents"
)

// ItemKinds lists every item kind in form order.
var ItemKinds = []ItemKind{Food, Water, Medicine, MedicalHelp, BoatTransport, LifeJackets, Blankets, Tents}

type itemInfo struct {
	label     string
	physical  bool
	disasters []DisasterType // nil means every disaster type
}

var itemCatalog = map[ItemKind]itemInfo{
	Food:          {label: "Food", physical: true},
	Water:         {label: "Water", physical: true},
	Medicine:      {label: "Medicine", physical: true},
	MedicalHelp:   {label: "Medical Help"},
	BoatTransport: {label: "Boat Transport", disasters: []DisasterType{Flood}},
	LifeJackets:   {label: "Life Jackets", physical: true, disasters: []DisasterType{Flood}},
	Blankets:      {label: "Blankets", physical: true},
	Tents:         {label: "Tents", physical: true},
}

func (k ItemKind) Valid() bool {
	_, ok := itemCatalog[k]
	return ok
}

// Label returns the human readable name of the kind.
func (k ItemKind) Label() string {
	if info, ok := itemCatalog[k]; ok {
		return info.label
	}
	return string(k)
}

// PhysicalGood reports whether the kind can be stocked in inventory.
// Services such as medical help or boat transport cannot.
func (k ItemKind) PhysicalGood() bool {
	return itemCatalog[k].physical
}

// OfferedFor reports whether victims can request this kind during the given disaster.
func (k ItemKind) OfferedFor(d DisasterType) bool {
	info, ok := itemCatalog[k]
	if !ok {
		return false
	}
	if info.disasters == nil {
		return true
	}
	for _, t := range info.disasters {
		if t == d {
			return true
		}
	}
	return false
}

// ItemsFor returns the kinds offered during a disaster, in form order.
func ItemsFor(d DisasterType) []ItemKind {
	var kinds []ItemKind
	for _, k := range ItemKinds {
		if k.OfferedFor(d) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
