package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Wire format shared by the Remote Cart Service payloads and the local
// snapshot store. One document shape for both:
//
//	{"items":[{"productId":"A","name":"Widget","price":10,"quantity":2}, ...]}
//
// Prices travel as JSON numbers (json.Number on the way out avoids the
// quoted-string form decimal.Decimal would otherwise produce). salePrice
// and image are omitted when unset.

type wireItem struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	SalePrice json.Number `json:"salePrice,omitempty"`
	Image     string      `json:"image,omitempty"`
	Quantity  int         `json:"quantity"`
}

type wireCart struct {
	Items []wireItem `json:"items"`
}

// MarshalItems serializes the collection to the wire document.
func MarshalItems(items Items) ([]byte, error) {
	doc := wireCart{Items: make([]wireItem, 0, len(items))}

	for _, li := range items {
		w := wireItem{
			ProductID: li.ProductID,
			Name:      li.Name,
			Price:     json.Number(li.UnitPrice.String()),
			Image:     li.ImageRef,
			Quantity:  li.Quantity,
		}
		if !li.SalePrice.IsZero() {
			w.SalePrice = json.Number(li.SalePrice.String())
		}
		doc.Items = append(doc.Items, w)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal cart: %w", err)
	}
	return data, nil
}

// UnmarshalItems parses a wire document back into a normalized collection.
//
// A document without an "items" key decodes to an empty collection - the
// caller treats that the same as "no cart". Malformed JSON or an unparseable
// price returns an error; callers recover by treating the source as empty.
func UnmarshalItems(data []byte) (Items, error) {
	var doc wireCart
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	items := make(Items, 0, len(doc.Items))
	for _, w := range doc.Items {
		unit, err := parsePrice(w.Price)
		if err != nil {
			return nil, fmt.Errorf("unmarshal cart: product %q: %w", w.ProductID, err)
		}
		sale, err := parsePrice(w.SalePrice)
		if err != nil {
			return nil, fmt.Errorf("unmarshal cart: product %q: %w", w.ProductID, err)
		}

		items = append(items, LineItem{
			ProductID: w.ProductID,
			Name:      w.Name,
			UnitPrice: unit,
			SalePrice: sale,
			ImageRef:  w.Image,
			Quantity:  w.Quantity,
		})
	}

	return Normalize(items), nil
}

// parsePrice converts a wire price to a decimal. An absent price ("") reads
// as zero, which downstream logic treats as "unset".
func parsePrice(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", n, err)
	}
	return d, nil
}
