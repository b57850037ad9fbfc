package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"checkout-service/models"

	"go.uber.org/zap"
)

// InvoiceKind selects the email variant sent for an order.
type InvoiceKind string

const (
	KindOrderConfirmation   InvoiceKind = "order_confirmation"
	KindPaymentConfirmation InvoiceKind = "payment_confirmation"
)

const invoiceHTML = `<html>
<body>
  <h2>{{.Heading}}</h2>
  <p>Invoice <b>INV-{{.Order.OrderNumber}}</b></p>
  <p>
    Order status: {{.Order.Status}}<br/>
    Payment status: {{.Order.PaymentStatus}}
  </p>
  <p>
    <b>Bill To:</b><br/>
    {{.Order.ShippingName}}<br/>
    {{.Order.ShippingAddress}}<br/>
    {{.Order.ShippingCity}}, {{.Order.ShippingState}} - {{.Order.ShippingPincode}}<br/>
    Phone: {{.Order.ShippingPhone}}
  </p>
  <table border="1" cellpadding="6" cellspacing="0">
    <tr><th>Product</th><th>Quantity</th><th>Unit Price</th><th>Total</th></tr>
    {{range .Order.Items}}
    <tr>
      <td>{{.ProductName}}</td>
      <td>{{.Quantity}}</td>
      <td>{{.ProductPrice}}</td>
      <td>{{.TotalPrice}}</td>
    </tr>
    {{end}}
    <tr><td colspan="3">Subtotal</td><td>{{.Order.TotalAmount}}</td></tr>
    <tr><td colspan="3">Tax (18%)</td><td>{{.Order.TaxAmount}}</td></tr>
    <tr><td colspan="3">Shipping</td><td>{{.Order.ShippingCharges}}</td></tr>
    <tr><td colspan="3"><b>Total</b></td><td><b>{{.Order.FinalAmount}}</b></td></tr>
  </table>
</body>
</html>`

var invoiceTmpl = template.Must(template.New("invoice").Parse(invoiceHTML))

// InvoiceMailer renders an invoice for an order and delivers it through an
// EmailSender. Callers treat delivery as best-effort; errors are returned so
// the caller can log and degrade, never to abort the surrounding operation.
type InvoiceMailer struct {
	sender EmailSender
	logger *zap.Logger
}

func NewInvoiceMailer(sender EmailSender, logger *zap.Logger) *InvoiceMailer {
	return &InvoiceMailer{sender: sender, logger: logger}
}

func (m *InvoiceMailer) DeliverInvoice(ctx context.Context, order *models.Order, kind InvoiceKind) error {
	if order.ShippingEmail == "" {
		return fmt.Errorf("order %s has no recipient email", order.ID)
	}

	var subject, heading string
	if kind == KindPaymentConfirmation {
		subject = fmt.Sprintf("Payment Confirmed - Invoice #%s", order.OrderNumber)
		heading = "Payment Confirmed"
	} else {
		subject = fmt.Sprintf("Order Confirmed - Invoice #%s", order.OrderNumber)
		heading = "Order Confirmed"
	}

	var buf bytes.Buffer
	data := struct {
		Order   *models.Order
		Heading string
	}{order, heading}
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}

	res, err := m.sender.SendEmail(ctx, order.ShippingEmail, subject, buf.String())
	if err != nil {
		return err
	}

	m.logger.Info("Invoice delivered",
		zap.String("order_id", order.ID.String()),
		zap.String("kind", string(kind)),
		zap.String("message_id", res.MessageID),
	)
	return nil
}
