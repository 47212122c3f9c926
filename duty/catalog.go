package duty

import (
	"fmt"
	"slices"
)

// Catalog holds the anomaly kinds the game may create. It is filled
// during setup and sealed when a Game is built from it.
type Catalog struct {
	kinds  []AnomalyKind
	sealed bool
}

func NewCatalog(kinds ...string) (*Catalog, error) {
	c := &Catalog{
		kinds: []AnomalyKind{},
	}
	for _, k := range kinds {
		if err := c.Register(k); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a kind. Registering an existing kind is a noop.
func (c *Catalog) Register(name string) error {
	if c.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrCatalogSealed, name)
	}
	kind := NewAnomalyKind(name)
	if kind == "" {
		return fmt.Errorf("%w: empty anomaly kind", ErrInvalidSetting)
	}
	if c.Contains(kind) {
		return nil
	}
	c.kinds = append(c.kinds, kind)
	return nil
}

func (c *Catalog) Seal() {
	c.sealed = true
}

func (c *Catalog) Contains(kind AnomalyKind) bool {
	return slices.Contains(c.kinds, kind)
}

func (c *Catalog) Len() int {
	return len(c.kinds)
}

func (c *Catalog) At(i int) (AnomalyKind, error) {
	if i < 0 || i >= len(c.kinds) {
		return "", fmt.Errorf("%w: anomaly %d of %d", ErrOutOfRange, i, len(c.kinds))
	}
	return c.kinds[i], nil
}

func (c *Catalog) Kinds() []AnomalyKind {
	return slices.Clone(c.kinds)
}
