// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/config"
	"github.com/your-org/foodie-backend/internal/domain/order"
)

// ProviderNone disables sending
const ProviderNone = "none"

// EmailService handles all email operations
type EmailService struct {
	config    config.EmailConfig
	templates map[EmailType]*template.Template
	client    *http.Client
	endpoints map[string]string
	logger    *logrus.Logger
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger *logrus.Logger) *EmailService {
	return &EmailService{
		config: cfg.Email,
		templates: map[EmailType]*template.Template{
			EmailTypeOrderConfirmation: template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
			EmailTypeFeedbackAck:       template.Must(template.New("feedback_ack").Parse(ackTemplate)),
			EmailTypePartnerAck:        template.Must(template.New("partner_ack").Parse(ackTemplate)),
		},
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoints: map[string]string{
			"resend":     "https://api.resend.com/emails",
			"sendgrid":   "https://api.sendgrid.com/v3/mail/send",
			"mailersend": "https://api.mailersend.com/v1/email",
		},
		logger: logger,
	}
}

// Enabled reports whether a provider is configured
func (s *EmailService) Enabled() bool {
	return s.config.Provider != "" && s.config.Provider != ProviderNone
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.Provider {
	case "", ProviderNone:
		s.logger.WithFields(logrus.Fields{"type": email.Type, "to": email.To}).Debug("email provider disabled, skipping")
		return nil
	case "smtp":
		return s.sendSMTPEmail(email)
	case "resend":
		return s.sendResendEmail(ctx, email)
	case "sendgrid":
		return s.sendSendGridEmail(ctx, email)
	case "mailersend":
		return s.sendMailerSendEmail(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.Provider)
	}
}

// SendOrderConfirmation emails the receipt of a placed order
func (s *EmailService) SendOrderConfirmation(ctx context.Context, o *order.Order) error {
	view := order.NewView(o)
	data := OrderConfirmationData{
		EmailTemplateData: GetBaseTemplateData(s.config.FromName, s.config.BaseURL, o.DeliveryInfo.FullName, o.DeliveryInfo.Email),
		OrderNumber:       o.OrderNumber,
		OrderDate:         view.Date,
		Subtotal:          view.Subtotal,
		Tax:               view.Tax,
		DeliveryFee:       view.DeliveryFee,
		Total:             view.Total,
		Address:           o.DeliveryInfo.Address,
		City:              o.DeliveryInfo.City,
		ZipCode:           o.DeliveryInfo.ZipCode,
	}
	if s.config.BaseURL != "" {
		data.OrderURL = s.config.BaseURL + "/html/order-history.html"
	}
	for _, line := range view.Lines {
		data.Items = append(data.Items, OrderItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
			Total:    line.LineTotal,
		})
	}

	htmlContent, err := s.renderTemplate(EmailTypeOrderConfirmation, data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{o.DeliveryInfo.Email},
		Subject:     fmt.Sprintf("Order Confirmation - %s", o.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
		Data: map[string]interface{}{
			"order_number": o.OrderNumber,
			"order_total":  view.Total,
		},
	})
}

// SendFeedbackAck thanks a visitor for their feedback
func (s *EmailService) SendFeedbackAck(ctx context.Context, to, category string) error {
	return s.sendAck(ctx, EmailTypeFeedbackAck, to, "", "We received your feedback",
		fmt.Sprintf("Thank you for your feedback about %q. Our team reads every message.", category))
}

// SendPartnerAck confirms a partner application
func (s *EmailService) SendPartnerAck(ctx context.Context, to, ownerName, restaurant string) error {
	return s.sendAck(ctx, EmailTypePartnerAck, to, ownerName, "Thanks for partnering with us",
		fmt.Sprintf("We received the application for %s. Our team will reach out soon.", restaurant))
}

func (s *EmailService) sendAck(ctx context.Context, kind EmailType, to, name, heading, message string) error {
	data := AckData{
		EmailTemplateData: GetBaseTemplateData(s.config.FromName, s.config.BaseURL, name, to),
		Heading:           heading,
		Message:           message,
	}

	htmlContent, err := s.renderTemplate(kind, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", kind, err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{to},
		Subject:     heading,
		HTMLContent: htmlContent,
		Type:        kind,
	})
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(kind EmailType, data interface{}) (string, error) {
	tmpl, exists := s.templates[kind]
	if !exists {
		return "", fmt.Errorf("template %s not found", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", kind, err)
	}

	return buf.String(), nil
}
