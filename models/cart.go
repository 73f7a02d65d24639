package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CartLine is what the customer picked: the name and unit price are the
// values shown when the product was added.
type CartLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps product id to its line. It is never persisted.
type Cart map[uint]CartLine

// Add puts qty units of a product in the cart, merging with an existing
// line. The price snapshot of an existing line is kept.
func (c Cart) Add(productID uint, name string, price decimal.Decimal, qty int) CartLine {
	line, ok := c[productID]
	if !ok {
		line = CartLine{ProductID: productID, Name: name, Price: price}
	}
	line.Quantity += qty
	c[productID] = line
	return line
}

// Clone returns an independent copy.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, line := range c {
		out[id] = line
	}
	return out
}

// Lines returns the cart lines ordered by product id.
func (c Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c))
	for _, line := range c {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

// Total is the sum of quantity x price over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}
