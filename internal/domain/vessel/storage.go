package vessel

import "github.com/andrescamacho/orbit-go/internal/domain/shared"

// Item is a unit of cargo
type Item struct {
	Kind      string
	Mass      float64 // t
	DeckSpace float64 // m2
}

// Storage tracks the cargo carried on one trip. A zero limit is unbounded.
type Storage struct {
	owner        string
	maxCargo     float64
	maxDeckSpace float64
	items        []Item
	mass         float64
	deckSpace    float64
	trips        []Trip
}

func newStorage(owner string, specs *StorageSpecs) *Storage {
	return &Storage{owner: owner, maxCargo: specs.MaxCargo, maxDeckSpace: specs.MaxDeckSpace}
}

// Fits reports whether item can be added to the current load
func (s *Storage) Fits(item Item) bool {
	if s.maxCargo > 0 && s.mass+item.Mass > s.maxCargo+1e-9 {
		return false
	}
	if s.maxDeckSpace > 0 && s.deckSpace+item.DeckSpace > s.maxDeckSpace+1e-9 {
		return false
	}
	return true
}

// FitsEmpty reports whether item fits on an empty deck
func (s *Storage) FitsEmpty(item Item) bool {
	return (&Storage{maxCargo: s.maxCargo, maxDeckSpace: s.maxDeckSpace}).Fits(item)
}

// Load adds item, failing when it exceeds the remaining mass or deck space
func (s *Storage) Load(item Item) error {
	if !s.Fits(item) {
		return shared.NewVesselCapacityError(s.owner, item.Kind)
	}
	s.items = append(s.items, item)
	s.mass += item.Mass
	s.deckSpace += item.DeckSpace
	return nil
}

// Take removes and returns the first item of the given kind
func (s *Storage) Take(kind string) (Item, bool) {
	for i, item := range s.items {
		if item.Kind != kind {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.mass -= item.Mass
		s.deckSpace -= item.DeckSpace
		return item, true
	}
	return Item{}, false
}

// Count returns the number of items of kind on board
func (s *Storage) Count(kind string) int {
	n := 0
	for _, item := range s.items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

func (s *Storage) Len() int { return len(s.items) }

func (s *Storage) Mass() float64 { return s.mass }

func (s *Storage) DeckSpace() float64 { return s.deckSpace }

// Sets returns how many complete sets of the given items fit on an empty
// deck, or -1 when neither limit applies
func (s *Storage) Sets(items ...Item) int {
	var mass, deck float64
	for _, it := range items {
		mass += it.Mass
		deck += it.DeckSpace
	}
	n := -1
	if s.maxCargo > 0 && mass > 0 {
		n = int(s.maxCargo/mass + 1e-9)
	}
	if s.maxDeckSpace > 0 && deck > 0 {
		byDeck := int(s.maxDeckSpace/deck + 1e-9)
		if n < 0 || byDeck < n {
			n = byDeck
		}
	}
	return n
}

// Trip is a snapshot of the load carried on one trip
type Trip struct {
	Mass      float64
	DeckSpace float64
	Items     map[string]int
}

// RecordTrip snapshots the current load
func (s *Storage) RecordTrip() {
	counts := map[string]int{}
	for _, item := range s.items {
		counts[item.Kind]++
	}
	s.trips = append(s.trips, Trip{Mass: s.mass, DeckSpace: s.deckSpace, Items: counts})
}

func (s *Storage) Trips() []Trip {
	return append([]Trip(nil), s.trips...)
}

// Utilization summarizes cargo mass and deck space usage across recorded
// trips as fractions of the storage limits
type Utilization struct {
	Trips         int
	MaxCargo      float64
	MeanCargo     float64
	MaxDeckSpace  float64
	MeanDeckSpace float64
}

func (s *Storage) Utilization() Utilization {
	u := Utilization{Trips: len(s.trips)}
	if len(s.trips) == 0 {
		return u
	}
	var cargoSum, deckSum float64
	for _, t := range s.trips {
		cargo := ratio(t.Mass, s.maxCargo)
		deck := ratio(t.DeckSpace, s.maxDeckSpace)
		cargoSum += cargo
		deckSum += deck
		if cargo > u.MaxCargo {
			u.MaxCargo = cargo
		}
		if deck > u.MaxDeckSpace {
			u.MaxDeckSpace = deck
		}
	}
	u.MeanCargo = cargoSum / float64(len(s.trips))
	u.MeanDeckSpace = deckSum / float64(len(s.trips))
	return u
}

func ratio(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return v / limit
}
