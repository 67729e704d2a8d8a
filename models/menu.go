package models

// MenuItem is one catalog entry. Names and aliases resolve to exactly one item.
type MenuItem struct {
	ID      string   `bson:"id" json:"id"`
	Name    string   `bson:"name" json:"name"`
	Price   float64  `bson:"price" json:"price"`
	Aliases []string `bson:"aliases,omitempty" json:"aliases,omitempty"`
}

// MenuDocument is the on-disk shape of the menu catalog.
type MenuDocument struct {
	Items        []MenuItem `json:"items"`
	GenericHeads []string   `json:"generic_heads,omitempty"`
}
