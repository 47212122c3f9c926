package duty

type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// NoCamera is reported when every feed is offline.
const NoCamera = -1

type Navigator struct{}

// Advance moves the camera cursor one room in dir, wrapping around and
// skipping rooms whose feed is offline. At most one full loop over the
// registry is made. When every room is hidden the cursor is left where
// it was and (NoCamera, false) is returned.
func (Navigator) Advance(st *State, reg *Registry, dir Direction) (int, bool, error) {
	n := reg.Len()
	if n == 0 {
		return NoCamera, false, ErrNoRooms
	}

	step := 1
	if dir == Backward {
		step = -1
	}

	idx := st.Camera
	for range n {
		idx = ((idx+step)%n + n) % n
		if reg.rooms[idx].Hidden() {
			continue
		}
		st.Camera = idx
		return idx, true, nil
	}

	return NoCamera, false, nil
}
