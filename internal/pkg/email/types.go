// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeFeedbackAck       EmailType = "feedback_ack"
	EmailTypePartnerAck        EmailType = "partner_ack"
)

// Email represents an email message
type Email struct {
	To          []string               `json:"to"`
	Subject     string                 `json:"subject"`
	HTMLContent string                 `json:"html_content"`
	Type        EmailType              `json:"type"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName   string
	SiteURL    string
	SupportURL string
	UserName   string
	UserEmail  string
	Year       int
}

// OrderConfirmationData contains data for the order confirmation email
type OrderConfirmationData struct {
	EmailTemplateData
	OrderNumber string
	OrderDate   string
	Items       []OrderItem
	Subtotal    string
	Tax         string
	DeliveryFee string
	Total       string
	Address     string
	City        string
	ZipCode     string
	OrderURL    string
}

// OrderItem is one line of the confirmation email
type OrderItem struct {
	Name     string
	Quantity int
	Price    string
	Total    string
}

// AckData contains data for form acknowledgement emails
type AckData struct {
	EmailTemplateData
	Heading string
	Message string
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(siteName, siteURL, userName, userEmail string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:   siteName,
		SiteURL:    siteURL,
		SupportURL: siteURL + "/support",
		UserName:   userName,
		UserEmail:  userEmail,
		Year:       time.Now().Year(),
	}
}
