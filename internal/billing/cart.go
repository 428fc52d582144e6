package billing

import (
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
)

// CartLine is one product in the cart with the quantity being sold. The
// product is a snapshot taken when the line was added; stock clamping uses
// the snapshot's quantity.
type CartLine struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart holds the lines of an in-progress sale in insertion order. It is not
// safe for concurrent use; the session store serializes access.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID string) int {
	for i := range c.lines {
		if c.lines[i].Product.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddLine adds a product to the cart with quantity 1, or increments the
// existing line by 1. The increment path does no stock check; clamping is
// applied when the quantity is set explicitly.
func (c *Cart) AddLine(product models.Product) {
	if i := c.find(product.ProductID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, CartLine{Product: product, Quantity: 1})
}

// SetQuantity sets a line's quantity, clamped to the product's available
// stock. A quantity of zero or less removes the line. Unknown product ids
// are ignored.
func (c *Cart) SetQuantity(productID string, qty int) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.removeAt(i)
		return
	}
	if stock := c.lines[i].Product.Quantity; qty > stock {
		qty = stock
	}
	if qty <= 0 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity = qty
}

// RemoveLine removes the line for productID, if present.
func (c *Cart) RemoveLine(productID string) {
	if i := c.find(productID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Clear drops all lines.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Size() int {
	return len(c.lines)
}
