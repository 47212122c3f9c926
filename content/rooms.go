package content

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tifye/onduty/duty"
)

// RoomSpec describes a room before it is registered.
type RoomSpec struct {
	Name  string
	Items []string
}

func DefaultRooms() []RoomSpec {
	return []RoomSpec{
		{
			Name:  "Living Room",
			Items: []string{`42" TV Playing Golf`, "Black Leather Sofa", "Circular Metal Coffee Table", "Wooden Bookshelf with 3 Shelves"},
		},
		{
			Name:  "Kitchen",
			Items: []string{"Gas Stove", "Retro Red Metal Refrigerator", "Oak Wooden Table", "4 Wooden Chairs"},
		},
		{
			Name:  "Bedroom",
			Items: []string{"Queen Size Bed", "Oak Wooden Nightstand", "Oak Wooden Dresser", "Oak Wooden Desk", "Oak Wooden Chair"},
		},
		{
			Name:  "Bathroom",
			Items: []string{"Toilet with Oak Seat", "Chrome Sink", "Shower with Blue Tiles", "Medicine Cabinet"},
		},
	}
}

// LoadRooms reads one room per line in the form name,item,item,...
// Blank lines are skipped and surrounding whitespace is trimmed.
func LoadRooms(r io.Reader) ([]RoomSpec, error) {
	var rooms []RoomSpec
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		fields := strings.Split(text, ",")
		name := strings.TrimSpace(fields[0])
		if name == "" {
			return nil, fmt.Errorf("line %d: missing room name", line)
		}

		items := make([]string, 0, len(fields)-1)
		for _, f := range fields[1:] {
			if item := strings.TrimSpace(f); item != "" {
				items = append(items, item)
			}
		}
		rooms = append(rooms, RoomSpec{Name: name, Items: items})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read rooms: %w", err)
	}
	if len(rooms) == 0 {
		return nil, duty.ErrNoRooms
	}
	return rooms, nil
}

// Registry registers rooms in order.
func Registry(rooms []RoomSpec) (*duty.Registry, error) {
	reg := duty.NewRegistry()
	for _, r := range rooms {
		if err := reg.Add(r.Name, r.Items); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
