// internal/pkg/email/templates.go
package email

const orderConfirmationTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
    <h1 style="color: #F2BD12;">{{.SiteName}}</h1>
    <p>Hello {{.UserName}},</p>
    <p>Thank you for your order <strong>{{.OrderNumber}}</strong> placed on {{.OrderDate}}.</p>
    <table style="width: 100%; border-collapse: collapse;">
      {{range .Items}}
      <tr>
        <td>{{.Name}} &times; {{.Quantity}}</td>
        <td style="text-align: right;">&#8377;{{.Total}}</td>
      </tr>
      {{end}}
      <tr><td>Subtotal</td><td style="text-align: right;">&#8377;{{.Subtotal}}</td></tr>
      <tr><td>Tax</td><td style="text-align: right;">&#8377;{{.Tax}}</td></tr>
      <tr><td>Delivery fee</td><td style="text-align: right;">&#8377;{{.DeliveryFee}}</td></tr>
      <tr><td><strong>Total</strong></td><td style="text-align: right;"><strong>&#8377;{{.Total}}</strong></td></tr>
    </table>
    <p>Delivering to: {{.Address}}, {{.City}} {{.ZipCode}}</p>
    {{if .OrderURL}}<p><a href="{{.OrderURL}}">View your orders</a></p>{{end}}
    <hr>
    <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
  </div>
</body>
</html>`

const ackTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.SiteName}}</title></head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
    <h1 style="color: #F2BD12;">{{.Heading}}</h1>
    <p>Hello{{if .UserName}} {{.UserName}}{{end}},</p>
    <p>{{.Message}}</p>
    <p>Best regards,<br>{{.SiteName}} Team</p>
    <hr>
    <p style="font-size: 12px; color: #666;">&copy; {{.Year}} {{.SiteName}}. All rights reserved.</p>
  </div>
</body>
</html>`
