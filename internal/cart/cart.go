// Package cart holds the session cart state and its mutation rules. Entries
// snapshot the product at add-time: a later price change in the catalog does
// not touch a cart that already contains the product.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/mkowalczyk/plant_shop/internal/models"
)

type Entry struct {
	ProductID uint            `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// Add merges the product into the cart: an entry with the same product id
// gets its quantity bumped by one, otherwise a new quantity-1 entry is
// appended with the product's current name, price and image.
func Add(entries []Entry, p models.Product) []Entry {
	for i := range entries {
		if entries[i].ProductID == p.ID {
			entries[i].Quantity++
			return entries
		}
	}

	return append(entries, Entry{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  1,
	})
}

// SetQuantity overwrites the quantity of the matching entry with whatever the
// caller sent. The entry is never pruned, even at zero, and an unknown
// product id leaves the cart untouched.
func SetQuantity(entries []Entry, productID uint, quantity int) []Entry {
	for i := range entries {
		if entries[i].ProductID == productID {
			entries[i].Quantity = quantity
			break
		}
	}
	return entries
}

// Total sums price times quantity over the snapshotted entries.
func Total(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total
}
