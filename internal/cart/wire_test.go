package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalItems_RoundTrip(t *testing.T) {
	items := Items{
		{ProductID: "A", Name: "Widget", UnitPrice: dec("10"), Quantity: 2},
		{ProductID: "B", Name: "Gadget", UnitPrice: dec("19.99"), SalePrice: dec("14.99"), ImageRef: "img/b.png", Quantity: 1},
	}

	data, err := MarshalItems(items)
	require.NoError(t, err)

	got, err := UnmarshalItems(data)
	require.NoError(t, err)

	// Structural equality: same items, same quantities, order preserved.
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ProductID)
	assert.Equal(t, "B", got[1].ProductID)
	assert.True(t, got[0].UnitPrice.Equal(items[0].UnitPrice))
	assert.True(t, got[1].SalePrice.Equal(items[1].SalePrice))
	assert.Equal(t, items[1].ImageRef, got[1].ImageRef)
	assert.Equal(t, items[0].Quantity, got[0].Quantity)
	assert.Equal(t, items[1].Quantity, got[1].Quantity)
}

func TestMarshalItems_PricesAreJSONNumbers(t *testing.T) {
	items := Items{{ProductID: "A", Name: "Widget", UnitPrice: dec("10.5"), Quantity: 1}}

	data, err := MarshalItems(items)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"price":10.5`, "prices must not be quoted")
	assert.NotContains(t, string(data), "salePrice", "unset sale price is omitted")
}

func TestMarshalItems_Empty(t *testing.T) {
	data, err := MarshalItems(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))
}

func TestUnmarshalItems_MissingItemsKey(t *testing.T) {
	got, err := UnmarshalItems([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, got, "a document without items reads as an empty cart")
}

func TestUnmarshalItems_QuotedPricesAccepted(t *testing.T) {
	// Some backends quote decimal amounts; the codec accepts both forms.
	got, err := UnmarshalItems([]byte(`{"items":[{"productId":"A","name":"W","price":"10.50","quantity":2}]}`))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.True(t, got[0].UnitPrice.Equal(dec("10.50")))
}

func TestUnmarshalItems_MalformedJSON(t *testing.T) {
	_, err := UnmarshalItems([]byte(`{"items":[`))
	assert.Error(t, err)
}

func TestUnmarshalItems_InvalidPrice(t *testing.T) {
	_, err := UnmarshalItems([]byte(`{"items":[{"productId":"A","price":"ten","quantity":1}]}`))
	assert.Error(t, err)
}

func TestUnmarshalItems_NormalizesResult(t *testing.T) {
	// Duplicate product IDs from an external copy merge additively.
	got, err := UnmarshalItems([]byte(`{"items":[
		{"productId":"A","name":"W","price":10,"quantity":2},
		{"productId":"A","name":"W","price":10,"quantity":3}
	]}`))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Quantity)
}
