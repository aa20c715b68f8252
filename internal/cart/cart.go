package cart

// Product is the read-only snapshot a cart line holds. The catalog owns the
// real record; a price change upstream does not rewrite lines already added.
type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Image      string `json:"image,omitempty"`
	CategoryID int64  `json:"category_id,omitempty"`
}

type Item struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart holds one shopper's selections. Lines are unique by product id and keep
// insertion order for stable display; quantity never drops below 1 — an update
// that would, removes the line instead.
type Cart struct {
	items []Item
}

// AddItem merges by product id: an existing line gains one, otherwise a new
// line with quantity 1 is appended. Always succeeds.
func (c *Cart) AddItem(p Product) {
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
}

// RemoveItem drops the line for productID. Absent id is a no-op, not an error.
func (c *Cart) RemoveItem(productID int64) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the line quantity. qty <= 0 removes the line; an absent
// product id is a no-op. No upper bound here — stock limits are the server's
// concern.
func (c *Cart) SetQuantity(productID int64, qty int) {
	if qty <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = qty
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

// TotalItems is the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// TotalCents is the display total from the snapshot prices. The server
// recomputes the authoritative amount at order time.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, it := range c.items {
		total += it.Product.PriceCents * int64(it.Quantity)
	}
	return total
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Items returns a copy so callers cannot mutate lines behind the cart's back.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}
