package menu

import "tableorder/models"

// Catalog is the read-only menu. Implementations are immutable after load.
type Catalog interface {
	ListItems() []models.MenuItem
	GetItem(id string) (models.MenuItem, bool)
	// Lookup resolves a canonical name or alias, case and surrounding space insensitive.
	Lookup(name string) (models.MenuItem, bool)
	// Terms returns every normalized name and alias with the item it resolves to.
	Terms() []Term
	GenericHeads() []string
}

// Term is a normalized name or alias.
type Term struct {
	Text string
	Item models.MenuItem
}
