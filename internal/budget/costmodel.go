package budget

import (
	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

const (
	// DefaultCategory is assigned when an item carries no category.
	DefaultCategory = "General"
	// DefaultItemName is assigned when an item carries no name.
	DefaultItemName = "Producto sin nombre"
	// MaxMarkupPercent caps the back-computed markup so it fits the
	// numeric(6,2) column.
	MaxMarkupPercent = 999.99
)

// ImageLookup recovers a catalog image for a reloaded item. Storage drops the
// product reference, so the only recovery is an exact name match.
type ImageLookup interface {
	ImageByName(name string) (image string, ok bool)
}

// NoLookup is an ImageLookup that never matches.
type NoLookup struct{}

func (NoLookup) ImageByName(string) (string, bool) { return "", false }

// ToCartItem reconstructs a builder row from its persisted form. The sale
// price is derived from cost and markup; a zero cost always derives a zero
// price regardless of the stored markup. The product linkage is lost in
// storage, so ProductID is nil and the image comes from an exact-name catalog
// match when one exists.
func ToCartItem(row models.LineItem, lookup ImageLookup) CartItem {
	cost := row.UnitCost
	unitPrice := cost * (1 + row.Markup/100)
	profit := unitPrice - cost

	quantity := row.Quantity
	if quantity < 1 {
		quantity = 1
	}

	var image string
	if lookup != nil {
		if img, ok := lookup.ImageByName(row.Name); ok {
			image = img
		}
	}

	return CartItem{
		ID:        row.ID.String(),
		ProductID: nil,
		Name:      row.Name,
		Category:  row.Category,
		Image:     image,
		UnitPrice: unitPrice,
		Cost:      cost,
		Labor:     row.LaborCost,
		Profit:    profit,
		Quantity:  quantity,
	}
}

// ToLineItem converts a builder row to its persisted form. Storage keeps
// cost + markup instead of the price: markup is back-computed from the price
// and clamped to MaxMarkupPercent, and a zero or negative cost stores a zero
// markup (the price cannot be reconstructed from it, which the load path
// honors by deriving a zero price). Labor passes through untouched in both
// directions.
func ToLineItem(projectID uuid.UUID, item CartItem) models.LineItem {
	cost := item.Cost
	price := item.UnitPrice

	markup := 0.0
	if cost > 0 {
		markup = (price - cost) / cost * 100
		if markup > MaxMarkupPercent {
			markup = MaxMarkupPercent
		}
	}

	name := item.Name
	if name == "" {
		name = DefaultItemName
	}
	category := item.Category
	if category == "" {
		category = DefaultCategory
	}
	quantity := item.Quantity
	if quantity < 1 {
		quantity = 1
	}

	return models.LineItem{
		ProjectID: projectID,
		Name:      name,
		Category:  category,
		Quantity:  quantity,
		UnitCost:  cost,
		Markup:    markup,
		LaborCost: item.Labor,
	}
}
