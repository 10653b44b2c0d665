package cart

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// LineItem is one product entry in the cart with its own quantity.
//
// UnitPrice and SalePrice are decimal currency amounts. A zero SalePrice
// means "not discounted" - the zero value is never a legitimate sale price.
type LineItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	SalePrice decimal.Decimal // zero = no discount
	ImageRef  string
	Quantity  int
}

// OnSale reports whether the sale price takes effect.
// A sale price only applies when it is positive and strictly below the
// unit price; anything else (absent, zero, negative, or >= unit price)
// is ignored and the unit price governs.
func (li LineItem) OnSale() bool {
	return li.SalePrice.IsPositive() && li.SalePrice.LessThan(li.UnitPrice)
}

// EffectiveUnitPrice returns the price a single unit contributes to the
// cart total: the sale price when it takes effect, the unit price otherwise.
func (li LineItem) EffectiveUnitPrice() decimal.Decimal {
	if li.OnSale() {
		return li.SalePrice
	}
	return li.UnitPrice
}

// Items is the ordered line-item collection. See the package doc for the
// invariants it maintains.
type Items []LineItem

// Add merges a product into the collection.
//
// If a line item with the same ProductID already exists its quantity
// increases by qty (additive accumulation, never overwrite); otherwise a
// new line item is appended. qty below 1 is treated as 1 - an add always
// adds at least one unit. Stock validation is the remote system's concern;
// Add cannot fail.
func Add(items Items, item LineItem, qty int) Items {
	if qty < 1 {
		qty = 1
	}

	out := items.clone()

	if idx := indexOf(out, item.ProductID); idx >= 0 {
		out[idx].Quantity += qty
		return out
	}

	item.Name = norm.NFC.String(item.Name)
	item.Quantity = qty
	return append(out, item)
}

// Remove drops the line item with the given product ID.
// Removing an absent product is a no-op, not an error.
func Remove(items Items, productID string) Items {
	idx := indexOf(items, productID)
	if idx < 0 {
		return items.clone()
	}

	out := make(Items, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return out
}

// SetQuantity sets the matching line item's quantity to max(1, qty).
// Quantities are clamped upward to 1 - this operation never removes a line,
// even when the caller passes zero or a negative value (removal is Remove's
// job). Setting quantity on an absent product is a no-op.
func SetQuantity(items Items, productID string, qty int) Items {
	idx := indexOf(items, productID)
	if idx < 0 {
		return items.clone()
	}

	if qty < 1 {
		qty = 1
	}

	out := items.clone()
	out[idx].Quantity = qty
	return out
}

// Total sums effective unit price x quantity across all line items.
// No rounding is applied beyond natural decimal arithmetic.
func Total(items Items) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return total
}

// Count sums quantities across all line items.
func Count(items Items) int {
	n := 0
	for _, li := range items {
		n += li.Quantity
	}
	return n
}

// Normalize sanitizes items arriving from an external copy (remote fetch or
// a persisted snapshot): product names are NFC-normalized, entries with a
// blank product ID or a quantity below 1 are dropped, and duplicate product
// IDs are merged additively. First-seen order is preserved.
//
// In-tab state never violates the invariants, but the external copies are
// caches the store cannot vouch for.
func Normalize(items Items) Items {
	out := make(Items, 0, len(items))

	for _, li := range items {
		if strings.TrimSpace(li.ProductID) == "" || li.Quantity < 1 {
			continue
		}
		li.Name = norm.NFC.String(li.Name)

		if idx := indexOf(out, li.ProductID); idx >= 0 {
			out[idx].Quantity += li.Quantity
			continue
		}
		out = append(out, li)
	}

	return out
}

// clone returns a copy safe to hand out or mutate.
// The empty collection clones to a non-nil empty slice so callers can
// distinguish "loaded an empty cart" from "nothing loaded".
func (items Items) clone() Items {
	out := make(Items, len(items))
	copy(out, items)
	return out
}

// Clone returns an independent copy of the collection.
func (items Items) Clone() Items {
	return items.clone()
}

func indexOf(items Items, productID string) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
