package models

// MaxItemQuantity bounds the quantity a single add or remove may request.
const MaxItemQuantity = 10

// CartLine is one distinct item in a cart.
type CartLine struct {
	ItemID   string  `bson:"item_id" json:"item_id"`
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

// Cart holds at most one line per item id and never a line with quantity <= 0.
type Cart []CartLine

// ClampQuantity bounds a requested quantity to [1, MaxItemQuantity].
func ClampQuantity(qty int) int {
	if qty < 1 {
		return 1
	}
	if qty > MaxItemQuantity {
		return MaxItemQuantity
	}
	return qty
}

// Clone returns a copy that can be mutated without touching c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) indexOf(itemID string) int {
	for i, line := range c {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

// Quantity reports how many of itemID the cart holds.
func (c Cart) Quantity(itemID string) int {
	if i := c.indexOf(itemID); i >= 0 {
		return c[i].Quantity
	}
	return 0
}

// Add merges qty of item into an existing line or appends a new one.
func (c Cart) Add(item MenuItem, qty int) Cart {
	out := c.Clone()
	if i := out.indexOf(item.ID); i >= 0 {
		out[i].Quantity += qty
		return out
	}
	return append(out, CartLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: qty,
	})
}

// Remove decrements the line for itemID by qty and drops it once it reaches zero.
// The second return value is false when the cart held no such line.
func (c Cart) Remove(itemID string, qty int) (Cart, bool) {
	out := c.Clone()
	i := out.indexOf(itemID)
	if i < 0 {
		return out, false
	}
	out[i].Quantity -= qty
	if out[i].Quantity <= 0 {
		out = append(out[:i], out[i+1:]...)
	}
	return out, true
}

// Total is the sum of price * quantity over every line.
func (c Cart) Total() float64 {
	var total float64
	for _, line := range c {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
