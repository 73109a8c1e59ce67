package catalog

// Item type tags as the client understands them.
const (
	TypePin   = 8
	TypeAward = 10
)

// Item is one immutable catalog entry.
type Item struct {
	ID      int64  `yaml:"id"`
	Name    string `yaml:"name"`
	Cost    int64  `yaml:"cost"`
	Type    int    `yaml:"type"`
	Patched bool   `yaml:"patched,omitempty"`
}

// IsPin reports whether the item is a pin.
func (i Item) IsPin() bool { return i.Type == TypePin }

// IsAward reports whether the item is an award.
func (i Item) IsAward() bool { return i.Type == TypeAward }

// Catalog is a read-only item definition lookup.
type Catalog struct {
	items map[int64]Item
}

// New builds a catalog from item definitions. Later duplicates win.
func New(items ...Item) *Catalog {
	m := make(map[int64]Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return &Catalog{items: m}
}

// Lookup returns the definition for id, if the catalog has one.
func (c *Catalog) Lookup(id int64) (Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Patched reports whether the item is administratively disabled.
// Unknown ids are not patched; they simply do not exist.
func (c *Catalog) Patched(id int64) bool {
	it, ok := c.items[id]
	return ok && it.Patched
}

// Len returns the number of defined items.
func (c *Catalog) Len() int { return len(c.items) }
