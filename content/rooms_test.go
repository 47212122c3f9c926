package content

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tifye/onduty/duty"
)

func TestLoadRooms(t *testing.T) {
	in := `Garage, Red Car ,Toolbox
	
Attic,Old Trunk,Dusty Mirror,Rocking Horse
Closet
`
	rooms, err := LoadRooms(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []RoomSpec{
		{Name: "Garage", Items: []string{"Red Car", "Toolbox"}},
		{Name: "Attic", Items: []string{"Old Trunk", "Dusty Mirror", "Rocking Horse"}},
		{Name: "Closet", Items: []string{}},
	}, rooms)
}

func TestLoadRoomsErrors(t *testing.T) {
	_, err := LoadRooms(strings.NewReader("Garage,Car\n,Orphan item\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = LoadRooms(strings.NewReader("\n\n"))
	assert.ErrorIs(t, err, duty.ErrNoRooms)

	readErr := errors.New("disk on fire")
	_, err = LoadRooms(iotest.ErrReader(readErr))
	assert.ErrorIs(t, err, readErr)
}

func TestRegistry(t *testing.T) {
	reg, err := Registry(DefaultRooms())
	require.NoError(t, err)
	require.Equal(t, 4, reg.Len())

	kitchen, ok := reg.Lookup("kitchen")
	require.True(t, ok)
	assert.Equal(t, duty.RoomName("KITCHEN"), kitchen.Name())
	assert.Len(t, kitchen.Baseline(), 4)

	_, err = Registry([]RoomSpec{{Name: "Den"}, {Name: " den "}})
	assert.ErrorIs(t, err, duty.ErrRoomExists)
}
