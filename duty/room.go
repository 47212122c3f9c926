package duty

import (
	"fmt"
	"slices"
)

type Anomaly struct {
	Kind  AnomalyKind
	Items []string
}

type Room struct {
	name     RoomName
	baseline []string
	anomaly  *Anomaly
}

func newRoom(name RoomName, items []string) *Room {
	return &Room{
		name:     name,
		baseline: slices.Clone(items),
	}
}

func (r *Room) Name() RoomName {
	return r.name
}

// Baseline returns a copy of the room's unmodified items.
func (r *Room) Baseline() []string {
	return slices.Clone(r.baseline)
}

// Anomaly returns a copy of the active anomaly, if any.
func (r *Room) Anomaly() (Anomaly, bool) {
	if r.anomaly == nil {
		return Anomaly{}, false
	}
	return Anomaly{
		Kind:  r.anomaly.Kind,
		Items: slices.Clone(r.anomaly.Items),
	}, true
}

func (r *Room) HasAnomaly() bool {
	return r.anomaly != nil
}

// Hidden reports whether the room's camera feed is offline.
func (r *Room) Hidden() bool {
	return r.anomaly != nil && r.anomaly.Kind.HidesCamera()
}

// Observed returns what the camera currently shows for the room.
func (r *Room) Observed() []string {
	if r.anomaly != nil {
		return slices.Clone(r.anomaly.Items)
	}
	return slices.Clone(r.baseline)
}

// attach sets the active anomaly. It returns false when the room
// already carries one or when items would look like the baseline.
func (r *Room) attach(kind AnomalyKind, items []string) bool {
	if r.anomaly != nil {
		return false
	}
	if slices.Equal(r.baseline, items) {
		return false
	}
	r.anomaly = &Anomaly{
		Kind:  kind,
		Items: slices.Clone(items),
	}
	return true
}

func (r *Room) detach() {
	r.anomaly = nil
}

// Registry is the ordered set of rooms under surveillance.
type Registry struct {
	rooms []*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: []*Room{},
	}
}

// Add appends a room. Names are unique ignoring case.
func (rg *Registry) Add(name string, items []string) error {
	rn := NewRoomName(name)
	if rn == "" {
		return fmt.Errorf("%w: empty room name", ErrInvalidSetting)
	}
	if _, exists := rg.Lookup(string(rn)); exists {
		return fmt.Errorf("%w: %s", ErrRoomExists, rn)
	}
	rg.rooms = append(rg.rooms, newRoom(rn, items))
	return nil
}

func (rg *Registry) Len() int {
	return len(rg.rooms)
}

func (rg *Registry) At(i int) (*Room, error) {
	if i < 0 || i >= len(rg.rooms) {
		return nil, fmt.Errorf("%w: room %d of %d", ErrOutOfRange, i, len(rg.rooms))
	}
	return rg.rooms[i], nil
}

func (rg *Registry) Lookup(name string) (*Room, bool) {
	rn := NewRoomName(name)
	for _, r := range rg.rooms {
		if r.name == rn {
			return r, true
		}
	}
	return nil, false
}

func (rg *Registry) Rooms() []*Room {
	return slices.Clone(rg.rooms)
}

// Unchanged returns the rooms without an active anomaly, in order.
func (rg *Registry) Unchanged() []*Room {
	var rooms []*Room
	for _, r := range rg.rooms {
		if !r.HasAnomaly() {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

func (rg *Registry) WithAnomaly() []*Room {
	var rooms []*Room
	for _, r := range rg.rooms {
		if r.HasAnomaly() {
			rooms = append(rooms, r)
		}
	}
	return rooms
}
