package duty

import (
	"errors"
	"fmt"
)

// ErrConfig marks errors caused by how the game was set up rather
// than by anything the operator did. They are never retried.
var ErrConfig = errors.New("configuration error")

var (
	ErrUnregisteredAnomaly = fmt.Errorf("%w: anomaly kind not registered", ErrConfig)
	ErrTooFewRooms         = fmt.Errorf("%w: fewer rooms than the anomaly cap", ErrConfig)
	ErrNoRooms             = fmt.Errorf("%w: no rooms added to the game", ErrConfig)
	ErrCatalogSealed       = fmt.Errorf("%w: anomaly catalog is sealed", ErrConfig)
	ErrInvalidSetting      = fmt.Errorf("%w: invalid setting", ErrConfig)
)

var (
	ErrRoomExists = errors.New("room already exists")
	ErrNoAnomaly  = errors.New("room has no active anomaly")
	ErrOutOfRange = errors.New("selection out of range")
)
