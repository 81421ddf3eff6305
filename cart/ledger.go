// Package cart holds the session cart ledger: an ordered list of line
// items merged by (product, size, color) identity, with derived money
// totals and a write-through persisted snapshot.
package cart

import (
	"log"
	"time"

	"github.com/burhanistore/storefront-api/catalog"
	"github.com/burhanistore/storefront-api/models"
)

// Shipping fee tiers. These breakpoints and fees are published pricing
// policy; keep them exactly in sync with the storefront.
const (
	freeShippingAbove  = 1200.0
	reducedShippingMin = 700.0
	reducedShippingFee = 30.0
	standardShipping   = 50.0
)

// LineItem is one cart row. Prices are a display snapshot taken at add
// time; the order flow re-reads authoritative prices and stock.
type LineItem struct {
	ProductID       uint      `json:"product_id"`
	ProductName     string    `json:"product_name"`
	Quantity        int       `json:"quantity"`
	SelectedSize    string    `json:"selected_size,omitempty"`
	SelectedColor   string    `json:"selected_color,omitempty"`
	ColorVariantID  *uint     `json:"color_variant_id,omitempty"`
	OriginalPrice   float64   `json:"original_price"`
	DiscountedPrice *float64  `json:"discounted_price,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

// UnitPrice applies the discounted price only when it is non-zero and
// strictly below the original price.
func (li LineItem) UnitPrice() float64 {
	if li.DiscountedPrice != nil && *li.DiscountedPrice > 0 && *li.DiscountedPrice < li.OriginalPrice {
		return *li.DiscountedPrice
	}
	return li.OriginalPrice
}

// matches implements cart line identity: same product, size and color.
// The variant id is deliberately not part of the key; color names are
// unique per product, so it cannot diverge from the color.
func (li LineItem) matches(productID uint, size, color string) bool {
	return li.ProductID == productID && li.SelectedSize == size && li.SelectedColor == color
}

// SnapshotStore persists the full cart as one atomic snapshot.
type SnapshotStore interface {
	Load() ([]LineItem, error)
	Save(items []LineItem) error
	Clear() error
}

// Ledger owns the in-memory cart for one session. It is not safe for
// concurrent use; each request loads its own instance from the store.
type Ledger struct {
	items []LineItem
	store SnapshotStore
}

// NewLedger loads the persisted snapshot for the session. A load failure
// starts an empty cart rather than failing the session.
func NewLedger(store SnapshotStore) *Ledger {
	items, err := store.Load()
	if err != nil {
		log.Printf("cart: snapshot load failed, starting empty: %v", err)
		items = nil
	}
	return &Ledger{items: items, store: store}
}

// Items returns a copy of the cart rows in insertion order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Add merges quantity into an existing row with the same identity key,
// or appends a new row. Non-positive quantities are a no-op; the
// authoritative stock bound is enforced at order placement, not here.
func (l *Ledger) Add(p *models.Product, quantity int, size, color string) {
	if quantity <= 0 {
		return
	}
	for i := range l.items {
		if l.items[i].matches(p.ID, size, color) {
			l.items[i].Quantity += quantity
			l.persist()
			return
		}
	}
	res := catalog.Resolve(p, color)
	l.items = append(l.items, LineItem{
		ProductID:       p.ID,
		ProductName:     p.Name,
		Quantity:        quantity,
		SelectedSize:    size,
		SelectedColor:   color,
		ColorVariantID:  res.VariantID,
		OriginalPrice:   p.OriginalPrice,
		DiscountedPrice: p.DiscountedPrice,
		ImageURL:        primaryImageURL(p, res.VariantID),
		AddedAt:         time.Now(),
	})
	l.persist()
}

// Remove deletes every row matching the identity key (normally 0 or 1).
func (l *Ledger) Remove(productID uint, size, color string) {
	kept := l.items[:0]
	for _, li := range l.items {
		if !li.matches(productID, size, color) {
			kept = append(kept, li)
		}
	}
	if len(kept) == len(l.items) {
		return
	}
	l.items = kept
	l.persist()
}

// UpdateQuantity replaces a row's quantity in place, preserving its
// position. Quantities below 1 are ignored so a stray zero can never
// silently empty a row; use Remove for deletion.
func (l *Ledger) UpdateQuantity(productID uint, size, color string, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range l.items {
		if l.items[i].matches(productID, size, color) {
			l.items[i].Quantity = quantity
			l.persist()
			return
		}
	}
}

// Absorb merges another snapshot's rows into this ledger, used when an
// anonymous session cart is folded into a user cart at login. Rows with
// a matching identity key add their quantities; the rest are appended.
func (l *Ledger) Absorb(items []LineItem) {
	if len(items) == 0 {
		return
	}
	for _, in := range items {
		merged := false
		for i := range l.items {
			if l.items[i].matches(in.ProductID, in.SelectedSize, in.SelectedColor) {
				l.items[i].Quantity += in.Quantity
				merged = true
				break
			}
		}
		if !merged {
			l.items = append(l.items, in)
		}
	}
	l.persist()
}

// Clear empties the ledger and removes the persisted snapshot.
func (l *Ledger) Clear() {
	l.items = nil
	if err := l.store.Clear(); err != nil {
		log.Printf("cart: snapshot clear failed: %v", err)
	}
}

// Subtotal sums unit price times quantity across all rows.
func (l *Ledger) Subtotal() float64 {
	var total float64
	for _, li := range l.items {
		total += li.UnitPrice() * float64(li.Quantity)
	}
	return total
}

// ShippingFee maps a subtotal onto the shipping tier table:
// 0 ships free (nothing to ship), above 1200 ships free, 700 up to and
// including 1200 costs 30, anything below 700 costs 50.
func ShippingFee(subtotal float64) float64 {
	switch {
	case subtotal == 0:
		return 0
	case subtotal > freeShippingAbove:
		return 0
	case subtotal >= reducedShippingMin:
		return reducedShippingFee
	default:
		return standardShipping
	}
}

// GrandTotal is the subtotal plus its shipping fee.
func (l *Ledger) GrandTotal() float64 {
	sub := l.Subtotal()
	return sub + ShippingFee(sub)
}

// ItemCount is the sum of quantities, not the number of rows.
func (l *Ledger) ItemCount() int {
	var n int
	for _, li := range l.items {
		n += li.Quantity
	}
	return n
}

// persist writes the full snapshot through to the store. On failure the
// in-memory state stays authoritative for this session; the next
// successful write reconciles storage.
func (l *Ledger) persist() {
	if err := l.store.Save(l.items); err != nil {
		log.Printf("cart: snapshot save failed, keeping in-memory state: %v", err)
	}
}

func primaryImageURL(p *models.Product, variantID *uint) string {
	if variantID != nil {
		for i := range p.ColorVariants {
			v := &p.ColorVariants[i]
			if v.ID != *variantID {
				continue
			}
			for _, img := range v.Images {
				if img.IsPrimary {
					return img.ImageURL
				}
			}
			if len(v.Images) > 0 {
				return v.Images[0].ImageURL
			}
		}
	}
	for _, img := range p.Images {
		if img.ColorVariantID == nil && img.IsPrimary {
			return img.ImageURL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].ImageURL
	}
	return ""
}
