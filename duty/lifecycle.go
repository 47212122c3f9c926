package duty

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tifye/onduty/assert"
)

// Lifecycle attaches anomalies to rooms and clears them again,
// keeping the counters in State in step with the rooms.
type Lifecycle struct {
	logger  *log.Logger
	catalog *Catalog
}

func NewLifecycle(logger *log.Logger, catalog *Catalog) *Lifecycle {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(catalog)
	return &Lifecycle{
		logger:  logger,
		catalog: catalog,
	}
}

// Create attaches an anomaly of kind to room with the given observable
// items. It returns false without touching anything when the room is
// already changed or when items are indistinguishable from the room's
// baseline. An unregistered kind is a configuration error.
func (l *Lifecycle) Create(st *State, room *Room, kind AnomalyKind, items []string) (bool, error) {
	assert.AssertNotNil(room)

	if !l.catalog.Contains(kind) {
		return false, fmt.Errorf("%w: %s", ErrUnregisteredAnomaly, kind)
	}

	if room.HasAnomaly() {
		l.logger.Debug("anomaly not added, room already has one", "anomaly", kind, "room", room.Name())
		return false, nil
	}

	if !room.attach(kind, items) {
		l.logger.Debug("anomaly not added, items match the room", "anomaly", kind, "room", room.Name(), "items", items)
		return false, nil
	}

	st.Active++
	st.SinceSpawn = 0
	l.logger.Debug("anomaly added", "anomaly", kind, "room", room.Name(), "items", items)
	return true, nil
}

// Clear removes the room's anomaly and counts it as found.
func (l *Lifecycle) Clear(st *State, room *Room) error {
	assert.AssertNotNil(room)

	if !room.HasAnomaly() {
		return fmt.Errorf("%w: %s", ErrNoAnomaly, room.Name())
	}

	room.detach()
	st.Active--
	st.Found++
	assert.AssertNonNegative("Active", st.Active)
	return nil
}
