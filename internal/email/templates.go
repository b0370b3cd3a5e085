package email

import (
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderItem represents an item in an order for email purposes
type OrderItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderConfirmation is everything the confirmation e-mail shows.
type OrderConfirmation struct {
	To            string
	CustomerName  string
	OrderID       string
	Items         []OrderItem
	Total         decimal.Decimal
	PaymentMethod string
	DMLink        string
}

var confirmationTemplate = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"rupees": formatRupees,
}).Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #f9a8d4 0%, #c084fc 100%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you{{if .CustomerName}}, {{.CustomerName}}{{end}}!</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">We've received your order and saved it while we wait for your message.</p>

		<div style="background: #fdf2f8; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order ID</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">{{.OrderID}}</p>
		</div>

		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #fdf2f8;">
					<th style="padding: 12px; text-align: left;">Item</th>
					<th style="padding: 12px; text-align: center;">Qty</th>
					<th style="padding: 12px; text-align: right;">Price</th>
					<th style="padding: 12px; text-align: right;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
				{{- range .Items}}
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">{{.Name}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{rupees .UnitPrice}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{rupees .LineTotal}}</td>
				</tr>
				{{- end}}
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #fdf2f8; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Total</span>
			<span style="font-size: 24px; font-weight: bold; color: #db2777; margin-left: 10px;">{{rupees .Total}}</span>
		</div>
		{{- if .PaymentMethod}}
		<p>Payment method: {{.PaymentMethod}}</p>
		{{- end}}

		<p>To finish your order, <a href="{{.DMLink}}">message us on Instagram</a> with your order ID and we'll confirm payment and delivery.</p>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This e-mail was sent automatically. Reply on Instagram if anything looks wrong.
		</p>
	</div>
</body>
</html>`))

// BuildOrderConfirmationBody builds the HTML body for order confirmation email
func BuildOrderConfirmationBody(c OrderConfirmation) (string, error) {
	var b strings.Builder
	if err := confirmationTemplate.Execute(&b, c); err != nil {
		return "", err
	}
	return b.String(), nil
}

// formatRupees renders an amount with Indian digit grouping: ₹1,25,000.00.
func formatRupees(d decimal.Decimal) string {
	str := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(str, ".")

	var groups []string
	if len(whole) > 3 {
		groups = append(groups, whole[len(whole)-3:])
		whole = whole[:len(whole)-3]
		for len(whole) > 2 {
			groups = append([]string{whole[len(whole)-2:]}, groups...)
			whole = whole[:len(whole)-2]
		}
	}
	groups = append([]string{whole}, groups...)

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "₹" + strings.Join(groups, ",") + "." + frac
}
