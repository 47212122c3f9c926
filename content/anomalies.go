package content

import (
	"math/rand/v2"
	"slices"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/tifye/onduty/assert"
	"github.com/tifye/onduty/duty"
)

const (
	MissingItem  duty.AnomalyKind = "MISSING ITEM"
	ItemMovement duty.AnomalyKind = "ITEM MOVEMENT"
	Typo         duty.AnomalyKind = "TYPO"
)

const defaultMaxAttempts = 32

// Mutator derives the items an anomaly shows from a room's baseline.
// It returns false when the anomaly cannot apply to those items.
type Mutator func(rnd *rand.Rand, baseline []string) ([]string, bool)

// Generator creates anomalies in random rooms. It implements
// duty.Spawner.
type Generator struct {
	logger      *log.Logger
	rnd         *rand.Rand
	kinds       []duty.AnomalyKind
	mutators    map[duty.AnomalyKind]Mutator
	maxAttempts int
}

// NewGenerator returns a generator that knows the stock anomalies.
func NewGenerator(logger *log.Logger, rnd *rand.Rand) *Generator {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(rnd)

	g := &Generator{
		logger:      logger,
		rnd:         rnd,
		mutators:    map[duty.AnomalyKind]Mutator{},
		maxAttempts: defaultMaxAttempts,
	}
	g.Handle(duty.CameraMalfunction, CameraMalfunction)
	g.Handle(MissingItem, RemoveItem)
	g.Handle(ItemMovement, SwapItems)
	g.Handle(Typo, InsertTypo)
	return g
}

// Handle sets the mutator used for kind.
func (g *Generator) Handle(kind duty.AnomalyKind, m Mutator) {
	assert.AssertNotNil(m)
	if _, ok := g.mutators[kind]; !ok {
		g.kinds = append(g.kinds, kind)
	}
	g.mutators[kind] = m
}

// Kinds lists the kinds the generator can create, in the order they
// were added. Suitable for building the catalog.
func (g *Generator) Kinds() []string {
	names := make([]string, len(g.kinds))
	for i, k := range g.kinds {
		names[i] = k.String()
	}
	return names
}

// Spawn picks a random clean room and a random catalog kind and tries
// to create the anomaly. Failed picks are retried a bounded number of
// times before giving up.
func (g *Generator) Spawn(game *duty.Game) (bool, error) {
	kinds := game.Catalog().Kinds()
	if len(kinds) == 0 {
		return false, nil
	}

	for range g.maxAttempts {
		free := game.Rooms().Unchanged()
		if len(free) == 0 {
			g.logger.Debug("no room left for an anomaly")
			return false, nil
		}
		room := free[g.rnd.IntN(len(free))]
		kind := kinds[g.rnd.IntN(len(kinds))]

		mutate, ok := g.mutators[kind]
		if !ok {
			g.logger.Warn("no mutator for anomaly", "kind", kind)
			continue
		}
		items, ok := mutate(g.rnd, room.Baseline())
		if !ok {
			g.logger.Debug("anomaly does not fit room", "kind", kind, "room", room.Name())
			continue
		}

		created, err := game.CreateAnomaly(kind, room, items)
		if err != nil {
			return false, err
		}
		if created {
			return true, nil
		}
	}

	g.logger.Warn("gave up creating anomaly", "attempts", g.maxAttempts)
	return false, nil
}

// CameraMalfunction blanks the feed.
func CameraMalfunction(_ *rand.Rand, _ []string) ([]string, bool) {
	return []string{}, true
}

func RemoveItem(rnd *rand.Rand, baseline []string) ([]string, bool) {
	if len(baseline) == 0 {
		return nil, false
	}
	i := rnd.IntN(len(baseline))
	return slices.Delete(slices.Clone(baseline), i, i+1), true
}

// SwapItems exchanges two distinct positions.
func SwapItems(rnd *rand.Rand, baseline []string) ([]string, bool) {
	n := len(baseline)
	if n < 2 {
		return nil, false
	}
	i := rnd.IntN(n)
	j := rnd.IntN(n - 1)
	if j >= i {
		j++
	}
	items := slices.Clone(baseline)
	items[i], items[j] = items[j], items[i]
	return items, true
}

var lookalikes = map[rune]rune{
	'B': 'P', 'C': '(', 'D': 'O', 'E': 'F', 'F': 'E', 'G': 'O', 'L': '[', 'M': 'W',
	'N': 'H', 'O': '0', 'P': 'B', 'Q': 'O', 'R': 'B', 'S': '$', 'T': 'I', 'V': 'U',
	'W': 'V', 'a': 'o', 'b': 'd', 'c': 'o', 'd': 'b', 'e': 'o', 'f': 't', 'g': 'q',
	'h': 'k', 'i': '!', 'k': 'h', 'l': '|', 'm': 'n', 'n': 'u', 'o': '0', 'p': 'q',
	'r': 'n', 's': 'z', 't': 'f', 'u': 'v', 'v': 'u', 'w': 'v', 'y': 'v', 'z': 's',
}

// InsertTypo picks one letter of one item and either doubles it or
// swaps it for a look-alike character. Letters without a look-alike
// are doubled.
func InsertTypo(rnd *rand.Rand, baseline []string) ([]string, bool) {
	if len(baseline) == 0 {
		return nil, false
	}
	idx := rnd.IntN(len(baseline))
	word := []rune(baseline[idx])

	var letters []int
	for i, r := range word {
		if unicode.IsLetter(r) {
			letters = append(letters, i)
		}
	}
	if len(letters) == 0 {
		return nil, false
	}
	pos := letters[rnd.IntN(len(letters))]

	sub, hasSub := lookalikes[word[pos]]
	if hasSub && rnd.IntN(2) == 0 {
		word[pos] = sub
	} else {
		word = slices.Insert(word, pos, word[pos])
	}

	items := slices.Clone(baseline)
	items[idx] = string(word)
	return items, true
}
