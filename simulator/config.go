package simulator

import (
	"time"

	"github.com/tifye/onduty/content"
	"github.com/tifye/onduty/duty"
)

type Config struct {
	Settings duty.Settings
	Rooms    []content.RoomSpec

	MaxTurns int
	// Longest real time the operator idles between two commands.
	MaxIdle time.Duration

	operator operatorConfig
}

type operatorConfig struct {
	// Chance out of 100 that the operator files a report on a turn
	ReportProbability uint
	// Chance out of 100 that a report names a room and kind that are
	// actually active instead of a random guess
	InformedReportProbability uint
	// Chance out of 100 that the operator walks the cameras backwards
	PrevProbability uint
}

// V1Config runs the stock house with the stock settings and a
// moderately attentive operator.
func V1Config() Config {
	return Config{
		Settings: duty.DefaultSettings(),
		Rooms:    content.DefaultRooms(),
		MaxTurns: 10_000,
		MaxIdle:  30 * time.Second,
		operator: operatorConfig{
			ReportProbability:         25,
			InformedReportProbability: 60,
			PrevProbability:           30,
		},
	}
}
