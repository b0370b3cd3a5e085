package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/sassynary-shop/internal/domain/cart"
	"github.com/example/sassynary-shop/internal/domain/order"
)

var paymentLabels = map[order.PaymentMethod]string{
	order.PaymentCard: "Card",
	order.PaymentUPI:  "UPI",
	order.PaymentCOD:  "Cash on delivery",
}

// Rupees formats an amount the way the summary and e-mails show it: ₹375.00.
func Rupees(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

// RenderSummary builds the plain-text order message pasted into the DM.
func RenderSummary(orderID string, lines []cart.Line, q Quote, method order.PaymentMethod, ship order.ShippingInfo) string {
	var b strings.Builder

	b.WriteString("Hi Sassynary! 🎀\n\n")
	b.WriteString("I just placed an order on your website!\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n\n", orderID)

	b.WriteString("ITEMS:\n")
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s (x%d) - %s", l.Product.Name, l.Quantity, Rupees(l.LineTotal()))
	}
	b.WriteString("\n\n")

	if !q.Surcharge.IsZero() || !q.ShippingFee.IsZero() {
		fmt.Fprintf(&b, "SUBTOTAL: %s\n", Rupees(q.Subtotal))
		if !q.ShippingFee.IsZero() {
			fmt.Fprintf(&b, "SHIPPING: %s\n", Rupees(q.ShippingFee))
		}
		if !q.Surcharge.IsZero() {
			fmt.Fprintf(&b, "COD FEE: %s\n", Rupees(q.Surcharge))
		}
	}
	fmt.Fprintf(&b, "TOTAL: %s\n\n", Rupees(q.Total))

	if label, ok := paymentLabels[method]; ok {
		fmt.Fprintf(&b, "PAYMENT: %s\n\n", label)
	}

	b.WriteString("SHIPPING TO:\n")
	fmt.Fprintf(&b, "%s %s\n", ship.FirstName, ship.LastName)
	fmt.Fprintf(&b, "%s, %s - %s\n", ship.Address, ship.City, ship.PostalCode)
	fmt.Fprintf(&b, "Phone: %s\n\n", ship.Phone)

	b.WriteString("Please let me know how to proceed with payment! ✨")
	return b.String()
}
