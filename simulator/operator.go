package simulator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tifye/onduty/assert"
	"github.com/tifye/onduty/duty"
)

// operator is a scripted player. It flips through cameras and now and
// then files a report, either about an anomaly it knows is there or a
// random guess.
type operator struct {
	logger *log.Logger
	game   *duty.Game
	rnd    *rand.Rand
	config operatorConfig

	// Used for metrics
	numViews    uint
	numOffline  uint
	numReports  uint
	numFound    uint
	numWrong    uint
	numPrevious uint
}

func newOperator(
	logger *log.Logger,
	game *duty.Game,
	rnd *rand.Rand,
	config operatorConfig,
) *operator {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(game)
	assert.AssertNotNil(rnd)

	return &operator{
		logger: logger,
		game:   game,
		rnd:    rnd,
		config: config,
	}
}

func (o *operator) String() string {
	return fmt.Sprintf(
		`reportProbability: %d%%
informedReportProbability: %d%%
prevProbability: %d%%
numViews: %d
numOffline: %d
numPrevious: %d
numReports: %d
numFound: %d
numWrong: %d
`, o.config.ReportProbability,
		o.config.InformedReportProbability,
		o.config.PrevProbability,
		o.numViews,
		o.numOffline,
		o.numPrevious,
		o.numReports,
		o.numFound,
		o.numWrong,
	)
}

func (o *operator) Step() error {
	if err := o.look(); err != nil {
		return err
	}

	if Chance(o.rnd, o.config.ReportProbability) {
		return o.report()
	}

	if Chance(o.rnd, o.config.PrevProbability) {
		o.numPrevious++
		_, _, err := o.game.Prev()
		return err
	}
	_, _, err := o.game.Next()
	return err
}

func (o *operator) look() error {
	v, err := o.game.View()
	if err != nil {
		return err
	}
	o.numViews++
	if v.Offline {
		o.numOffline++
		return nil
	}

	room, err := o.game.Rooms().At(v.Index)
	if err != nil {
		return err
	}
	assert.Assert(!room.Hidden(), "view shows a hidden room")
	assert.Assert(slices.Equal(v.Items, room.Observed()), "view does not match the room")
	return nil
}

func (o *operator) report() error {
	o.numReports++
	roomIdx, kindIdx := o.pick()

	before := o.game.State()
	found, err := o.game.Report(context.Background(), roomIdx, kindIdx)
	if err != nil {
		return err
	}
	after := o.game.State()

	if found {
		o.numFound++
		assert.Assert(after.Found == before.Found+1, "found report must count")
		assert.Assert(after.Active == before.Active-1, "found report must clear")
	} else {
		o.numWrong++
		assert.Assert(after.Found == before.Found, "wrong report must not count")
		assert.Assert(after.Active == before.Active, "wrong report must not clear")
	}
	o.logger.Debug("Operator reported", "room", roomIdx, "kind", kindIdx, "found", found)
	return nil
}

func (o *operator) pick() (roomIdx, kindIdx int) {
	rooms := o.game.Rooms().Rooms()
	kinds := o.game.Catalog().Kinds()

	if Chance(o.rnd, o.config.InformedReportProbability) {
		var active []int
		for i, r := range rooms {
			if r.HasAnomaly() {
				active = append(active, i)
			}
		}
		if len(active) > 0 {
			roomIdx = active[o.rnd.IntN(len(active))]
			a, _ := rooms[roomIdx].Anomaly()
			kindIdx = slices.Index(kinds, a.Kind)
			assert.Assert(kindIdx >= 0, "active kind missing from catalog")
			return roomIdx, kindIdx
		}
	}

	return o.rnd.IntN(len(rooms)), o.rnd.IntN(len(kinds))
}
