package menu

import (
	"strings"

	"tableorder/models"
)

// DefaultGenericHeads are head nouns shared by several menu variants.
var DefaultGenericHeads = []string{"paneer", "burger", "sandwich", "pizza", "coffee"}

// StaticCatalog is an in-memory catalog built once from a menu document.
type StaticCatalog struct {
	items  []models.MenuItem
	byID   map[string]models.MenuItem
	byTerm map[string]models.MenuItem
	terms  []Term
	heads  []string
}

// NormalizeTerm lower-cases and trims a name or alias.
func NormalizeTerm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NewCatalog validates doc and indexes it. Every name and alias must resolve to exactly one item.
func NewCatalog(doc models.MenuDocument) (*StaticCatalog, error) {
	c := &StaticCatalog{
		byID:   make(map[string]models.MenuItem, len(doc.Items)),
		byTerm: make(map[string]models.MenuItem),
	}

	for _, raw := range doc.Items {
		item := models.MenuItem{
			ID:    strings.TrimSpace(raw.ID),
			Name:  strings.TrimSpace(raw.Name),
			Price: raw.Price,
		}
		if item.ID == "" {
			return nil, newCatalogError("invalidItem", "menu item %q has no id", raw.Name)
		}
		if item.Name == "" {
			return nil, newCatalogError("invalidItem", "menu item %s has no name", item.ID)
		}
		if item.Price < 0 {
			return nil, newCatalogError("invalidItem", "menu item %s has a negative price", item.ID)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, newCatalogError("duplicateItem", "menu item id %s appears twice", item.ID)
		}

		seen := map[string]bool{}
		for _, alias := range raw.Aliases {
			a := NormalizeTerm(alias)
			if a == "" || seen[a] || a == NormalizeTerm(item.Name) {
				continue
			}
			seen[a] = true
			item.Aliases = append(item.Aliases, a)
		}

		for _, term := range append([]string{NormalizeTerm(item.Name)}, item.Aliases...) {
			if other, dup := c.byTerm[term]; dup {
				return nil, newCatalogError("duplicateTerm", "%q resolves to both %s and %s", term, other.ID, item.ID)
			}
			c.byTerm[term] = item
			c.terms = append(c.terms, Term{Text: term, Item: item})
		}

		c.byID[item.ID] = item
		c.items = append(c.items, item)
	}

	heads := doc.GenericHeads
	if heads == nil {
		heads = DefaultGenericHeads
	}
	for _, h := range heads {
		if h = NormalizeTerm(h); h != "" {
			c.heads = append(c.heads, h)
		}
	}

	return c, nil
}

func (c *StaticCatalog) ListItems() []models.MenuItem {
	out := make([]models.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *StaticCatalog) GetItem(id string) (models.MenuItem, bool) {
	item, ok := c.byID[id]
	return item, ok
}

func (c *StaticCatalog) Lookup(name string) (models.MenuItem, bool) {
	item, ok := c.byTerm[NormalizeTerm(name)]
	return item, ok
}

func (c *StaticCatalog) Terms() []Term {
	out := make([]Term, len(c.terms))
	copy(out, c.terms)
	return out
}

func (c *StaticCatalog) GenericHeads() []string {
	out := make([]string, len(c.heads))
	copy(out, c.heads)
	return out
}

// Names returns the canonical item names in catalog order.
func Names(c Catalog) []string {
	items := c.ListItems()
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
