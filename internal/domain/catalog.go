package domain

import "time"

type Category struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Slug      string `db:"slug"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

type Product struct {
	ID          string     `db:"id"`
	CategoryID  string     `db:"category_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Tags        StringList `db:"tags"`
	Active      bool       `db:"active"`
	CreatedAt   string     `db:"created_at"`
	UpdatedAt   string     `db:"updated_at"`
}

// Variant is a purchasable SKU: one color/size/material combination of a
// product. A variant referenced by historical orders is never deleted.
type Variant struct {
	ID        string     `db:"id"`
	ProductID string     `db:"product_id"`
	SKU       string     `db:"sku"`
	Color     string     `db:"color"`
	Size      string     `db:"size"`
	Material  string     `db:"material"`
	Images    StringList `db:"images"`
	Active    bool       `db:"active"`
	CreatedAt string     `db:"created_at"`
	UpdatedAt string     `db:"updated_at"`
}

// Pricing holds the price record for a variant. Amounts are VND (đồng).
// SalePrice applies only inside [SaleStart, SaleEnd] when those are set;
// a sale with no window is always on.
type Pricing struct {
	VariantID string `db:"variant_id"`
	BasePrice int64  `db:"base_price"`
	SalePrice int64  `db:"sale_price"` // 0 = no sale
	SaleStart string `db:"sale_start"` // RFC3339, "" = open
	SaleEnd   string `db:"sale_end"`
}

// EffectiveAt resolves the unit price at the given instant.
func (p Pricing) EffectiveAt(now time.Time) int64 {
	if p.SalePrice <= 0 {
		return p.BasePrice
	}
	if p.SaleStart != "" {
		if t, err := time.Parse(time.RFC3339, p.SaleStart); err != nil || now.Before(t) {
			return p.BasePrice
		}
	}
	if p.SaleEnd != "" {
		if t, err := time.Parse(time.RFC3339, p.SaleEnd); err != nil || now.After(t) {
			return p.BasePrice
		}
	}
	return p.SalePrice
}

// Inventory tracks stock counters for a variant.
type Inventory struct {
	VariantID string `db:"variant_id"`
	Quantity  int    `db:"quantity"`
	Reserved  int    `db:"reserved"`
	UpdatedAt string `db:"updated_at"`
}

// Available is the quantity that may still be sold.
func (i Inventory) Available() int { return i.Quantity - i.Reserved }

// ShippingZone maps a set of cities to a flat fee, optionally waived above
// a subtotal threshold. Zones are evaluated in Position order, first match
// wins.
type ShippingZone struct {
	ID            string     `db:"id"`
	Name          string     `db:"name"`
	Cities        StringList `db:"cities"`
	Fee           int64      `db:"fee"`
	FreeThreshold int64      `db:"free_threshold"` // 0 = never free
	Position      int        `db:"position"`
}
