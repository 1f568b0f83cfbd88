// Package cart tracks per-product order quantities and prices the order.
package cart

import (
	"fmt"
	"strconv"
	"strings"

	"pos-storefront/model"
)

// Tracker holds the quantity ordered per product id. Quantities never go
// below zero and have no upper bound.
type Tracker struct {
	quantities map[int64]int
}

func NewTracker() *Tracker {
	return &Tracker{quantities: make(map[int64]int)}
}

// FromQuantities restores a tracker from stored quantities. Negative values
// are clamped to zero.
func FromQuantities(q map[int64]int) *Tracker {
	t := NewTracker()
	for id, n := range q {
		if n < 0 {
			n = 0
		}
		t.quantities[id] = n
	}
	return t
}

func (t *Tracker) Add(productID int64) int {
	t.quantities[productID]++
	return t.quantities[productID]
}

func (t *Tracker) Remove(productID int64) int {
	n := t.quantities[productID] - 1
	if n < 0 {
		n = 0
	}
	t.quantities[productID] = n
	return n
}

func (t *Tracker) Reset() {
	t.quantities = make(map[int64]int)
}

// Quantities returns a copy of the tracked quantities.
func (t *Tracker) Quantities() map[int64]int {
	out := make(map[int64]int, len(t.quantities))
	for id, n := range t.quantities {
		out[id] = n
	}
	return out
}

// Line pairs a catalog product with the quantity ordered.
type Line struct {
	Product  model.Product
	Quantity int
}

// Lines pairs every product with its quantity, keeping catalog order.
// Products not in the catalog are ignored.
func Lines(products []model.Product, quantities map[int64]int) []Line {
	lines := make([]Line, 0, len(products))
	for _, p := range products {
		lines = append(lines, Line{Product: p, Quantity: quantities[p.ID]})
	}
	return lines
}

// Ordered returns the lines with a positive quantity.
func Ordered(lines []Line) []Line {
	var out []Line
	for _, l := range lines {
		if l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out
}

// Details converts ordered lines into order detail rows.
func Details(lines []Line) []model.OrderDetail {
	var out []model.OrderDetail
	for _, l := range Ordered(lines) {
		out = append(out, model.OrderDetail{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return out
}

// Total sums effective price times quantity in line order. The float is
// accumulated as is; rounding happens only when formatting.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		total += l.Product.EffectivePrice() * float64(l.Quantity)
	}
	return total
}

// FormatCurrency renders v as R$ with two decimals and a decimal comma.
func FormatCurrency(v float64) string {
	return "R$" + strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// ParseCurrency reads back a value produced by FormatCurrency. Every
// character other than digits, ',' and '.' is dropped.
func ParseCurrency(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',':
			b.WriteRune('.')
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid currency %q: %w", s, err)
	}
	return v, nil
}

// DisplayedTotal is the total as the order screen shows it, read back as a
// number. This is the amount stored on the order.
func DisplayedTotal(lines []Line) float64 {
	v, err := ParseCurrency(FormatCurrency(Total(lines)))
	if err != nil {
		return 0
	}
	return v
}
