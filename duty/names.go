package duty

import "strings"

// RoomName is the case-normalized identity of a room.
type RoomName string

func NewRoomName(s string) RoomName {
	return RoomName(strings.ToUpper(strings.TrimSpace(s)))
}

func (n RoomName) String() string {
	return string(n)
}

// AnomalyKind is the case-normalized name of a registered anomaly.
type AnomalyKind string

// CameraMalfunction hides the room's feed from camera navigation.
const CameraMalfunction AnomalyKind = "CAMERA MALFUNCTION"

func NewAnomalyKind(s string) AnomalyKind {
	return AnomalyKind(strings.ToUpper(strings.TrimSpace(s)))
}

func (k AnomalyKind) String() string {
	return string(k)
}

func (k AnomalyKind) HidesCamera() bool {
	return k == CameraMalfunction
}
