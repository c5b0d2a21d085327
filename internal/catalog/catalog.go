package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is an immutable, name-indexed set of ingredients.
type Catalog struct {
	items  []Ingredient
	byName map[string]int
}

// New validates the ingredients and builds a catalog. Names are unique
// case-insensitively.
func New(ingredients []Ingredient) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Ingredient, 0, len(ingredients)),
		byName: make(map[string]int, len(ingredients)),
	}

	var duplicates []string
	for _, ing := range ingredients {
		if err := ing.Validate(); err != nil {
			return nil, err
		}
		// canonical category spelling
		ing.Category, _ = ParseCategory(string(ing.Category))
		ing.Name = strings.TrimSpace(ing.Name)

		key := normalizeName(ing.Name)
		if _, exists := c.byName[key]; exists {
			duplicates = append(duplicates, ing.Name)
			continue
		}
		c.byName[key] = len(c.items)
		c.items = append(c.items, ing)
	}

	if len(duplicates) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, strings.Join(duplicates, ", "))
	}
	return c, nil
}

// Len returns the number of ingredients.
func (c *Catalog) Len() int {
	return len(c.items)
}

// lookup finds an ingredient by name.
func (c *Catalog) lookup(name string) (Ingredient, error) {
	idx, ok := c.byName[normalizeName(name)]
	if !ok {
		return Ingredient{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return c.items[idx], nil
}

// All returns a copy of every ingredient in insertion order.
func (c *Catalog) All() []Ingredient {
	out := make([]Ingredient, len(c.items))
	copy(out, c.items)
	return out
}

// Select returns the ingredients matching names, in the order given and
// without repeats. Names with no catalog entry are returned separately.
func (c *Catalog) Select(names []string) (found []Ingredient, missing []string) {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		key := normalizeName(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		idx, ok := c.byName[key]
		if !ok {
			missing = append(missing, name)
			continue
		}
		found = append(found, c.items[idx])
	}
	return found, missing
}

// ByCategory groups ingredients by category, each group sorted by name.
func (c *Catalog) ByCategory() map[Category][]Ingredient {
	groups := make(map[Category][]Ingredient)
	for _, ing := range c.items {
		groups[ing.Category] = append(groups[ing.Category], ing)
	}
	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i].Name < g[j].Name })
	}
	return groups
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
