package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/example/sassynary-shop/internal/domain/cart"
	"github.com/example/sassynary-shop/internal/domain/catalog"
	"github.com/example/sassynary-shop/internal/domain/order"
)

func TestRupees(t *testing.T) {
	assert.Equal(t, "₹375.00", Rupees(decimal.NewFromInt(375)))
	assert.Equal(t, "₹0.30", Rupees(decimal.RequireFromString("0.3")))
}

func TestRenderSummary_DMOrder(t *testing.T) {
	lines := []cart.Line{
		{Product: catalog.Product{ID: 1, Name: "Extra Spicy", Price: decimal.RequireFromString("125.00")}, Quantity: 3},
		{Product: catalog.Product{ID: 99, Name: "Mystery Box", Price: decimal.RequireFromString("250.00")}, Quantity: 1},
	}
	q := Quote{Subtotal: decimal.NewFromInt(625), Total: decimal.NewFromInt(625)}

	got := RenderSummary("SN-123456", lines, q, "", validShipping())

	want := "Hi Sassynary! 🎀\n\n" +
		"I just placed an order on your website!\n\n" +
		"Order ID: SN-123456\n\n" +
		"ITEMS:\n" +
		"• Extra Spicy (x3) - ₹375.00\n" +
		"• Mystery Box (x1) - ₹250.00\n\n" +
		"TOTAL: ₹625.00\n\n" +
		"SHIPPING TO:\n" +
		"Asha Rao\n" +
		"12 MG Road, Bengaluru - 560001\n" +
		"Phone: +91 98765 43210\n\n" +
		"Please let me know how to proceed with payment! ✨"
	assert.Equal(t, want, got)
}

func TestRenderSummary_CODBreakdown(t *testing.T) {
	lines := []cart.Line{
		{Product: catalog.Product{ID: 1, Name: "Extra Spicy", Price: decimal.RequireFromString("150.00")}, Quantity: 2},
	}
	q := Quote{
		Subtotal:  decimal.NewFromInt(300),
		Surcharge: decimal.NewFromInt(49),
		Total:     decimal.NewFromInt(349),
	}

	got := RenderSummary("SN-123456", lines, q, order.PaymentCOD, validShipping())

	assert.Contains(t, got, "SUBTOTAL: ₹300.00\nCOD FEE: ₹49.00\nTOTAL: ₹349.00\n\n")
	assert.Contains(t, got, "PAYMENT: Cash on delivery\n")
	assert.NotContains(t, got, "SHIPPING: ")
}
