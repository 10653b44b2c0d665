package cli

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/roach88/cartsync/internal/cart"
)

// cartView is the JSON payload shared by every command that prints the
// cart. Amounts are fixed-point strings so precision survives the wire.
type cartView struct {
	Items []itemView `json:"items"`
	Count int        `json:"count"`
	Total string     `json:"total"`
}

type itemView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	SalePrice string `json:"sale_price,omitempty"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

func newCartView(items cart.Items) cartView {
	v := cartView{
		Items: make([]itemView, 0, len(items)),
		Count: cart.Count(items),
		Total: cart.Total(items).StringFixed(2),
	}
	for _, it := range items {
		iv := itemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2),
		}
		if it.OnSale() {
			iv.SalePrice = it.SalePrice.StringFixed(2)
		}
		v.Items = append(v.Items, iv)
	}
	return v
}

var amountPrinter = message.NewPrinter(language.English)

// formatAmount renders an amount for humans, with digit grouping.
func formatAmount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return amountPrinter.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// renderCartText writes the human-readable cart listing.
func renderCartText(w io.Writer, items cart.Items) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Cart is empty.")
		return
	}
	for _, it := range items {
		price := formatAmount(it.EffectiveUnitPrice())
		if it.OnSale() {
			fmt.Fprintf(w, "  %d x %s @ %s (was %s)  [%s]\n",
				it.Quantity, it.Name, price, formatAmount(it.UnitPrice), it.ProductID)
		} else {
			fmt.Fprintf(w, "  %d x %s @ %s  [%s]\n",
				it.Quantity, it.Name, price, it.ProductID)
		}
	}
	fmt.Fprintf(w, "Items: %d  Total: %s\n", cart.Count(items), formatAmount(cart.Total(items)))
}
