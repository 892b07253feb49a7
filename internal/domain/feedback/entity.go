// internal/domain/feedback/entity.go
package feedback

import "time"

// Feedback is a message sent from the feedback page
type Feedback struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ClientID  string    `gorm:"index;size:64" json:"-"`
	Category  string    `gorm:"size:64;not null" json:"category"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Feedback) TableName() string {
	return "feedback"
}

// PartnerApplication is a restaurant asking to join
type PartnerApplication struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ClientID       string    `gorm:"index;size:64" json:"-"`
	RestaurantName string    `gorm:"size:255;not null" json:"restaurant_name"`
	OwnerName      string    `gorm:"size:255;not null" json:"owner_name"`
	Email          string    `gorm:"size:255;not null" json:"email"`
	Phone          string    `gorm:"size:32;not null" json:"phone"`
	City           string    `gorm:"size:128;not null" json:"city"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName overrides the table name
func (PartnerApplication) TableName() string {
	return "partner_applications"
}

// FeedbackRequest is the feedback modal form
type FeedbackRequest struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Email    string `json:"email"`
}

// PartnerRequest is the partner-with-us form
type PartnerRequest struct {
	RestaurantName string `json:"restaurant_name"`
	OwnerName      string `json:"owner_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	City           string `json:"city"`
}

// Receipt is returned after a form is stored
type Receipt struct {
	ID    string `json:"id"`
	Toast string `json:"toast"`
}
