// Package budget implements the builder's working state and money math: the
// ephemeral cart, the conversions between cart items and persisted line
// items, and the totals aggregation.
package budget

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

const tempIDPrefix = "temp-"

// CartItem is one row of the budget builder. IDs are either the persisted
// line item id or a temp- id for rows not yet saved. ProductID is a weak
// reference: storage does not keep it, so items reloaded from line items
// carry nil.
type CartItem struct {
	ID        string     `json:"id"`
	ProductID *uuid.UUID `json:"product_id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Code      string     `json:"code,omitempty"`
	Image     string     `json:"image,omitempty"`
	Alt       string     `json:"alt,omitempty"`
	UnitPrice float64    `json:"unit_price"`
	Cost      float64    `json:"cost"`
	Labor     float64    `json:"labor"`
	Profit    float64    `json:"profit"`
	Quantity  int        `json:"quantity"`
}

// Cart is the in-memory builder state. It is not safe for concurrent use;
// each request works on its own copy.
type Cart struct {
	Items []CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// NewTempID mints an identifier for an item that has not been persisted yet.
func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id was minted by NewTempID.
func IsTempID(id string) bool {
	return len(id) > len(tempIDPrefix) && id[:len(tempIDPrefix)] == tempIDPrefix
}

// Add puts a product into the cart. Adding a product already present merges
// into the existing row by bumping its quantity; the cart never holds two
// rows for the same product.
func (c *Cart) Add(product models.Product, quantity int, categoryName string) {
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.Items {
		if c.Items[i].ProductID != nil && *c.Items[i].ProductID == product.ID {
			c.Items[i].Quantity += quantity
			return
		}
	}

	productID := product.ID
	if categoryName == "" {
		categoryName = DefaultCategory
	}
	c.Items = append(c.Items, CartItem{
		ID:        NewTempID(),
		ProductID: &productID,
		Name:      product.Name,
		Category:  categoryName,
		Code:      deref(product.Code),
		Image:     deref(product.Image),
		Alt:       deref(product.Alt),
		UnitPrice: product.FinalPrice,
		Cost:      product.Cost,
		Labor:     product.Labor,
		Profit:    product.Profit,
		Quantity:  quantity,
	})
}

// UpdateQuantity sets the quantity of the identified item. A quantity of zero
// or less removes the item.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	if quantity <= 0 {
		c.Remove(id)
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("cart item %q not found", id)
}

// Remove deletes the identified item. Removing an absent id is a no-op.
func (c *Cart) Remove(id string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
