// internal/domain/feedback/service.go
package feedback

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Toast texts
const (
	FeedbackToast = "Thank you for your feedback!"
	PartnerToast  = "Thanks for your interest! Our team will reach out soon."
)

const maxMessageLength = 2000

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(\+91\s?)?[0-9]{10}$`)
)

// Acknowledger emails a thank-you after a form is stored
type Acknowledger interface {
	SendFeedbackAck(ctx context.Context, to, category string) error
	SendPartnerAck(ctx context.Context, to, ownerName, restaurant string) error
}

// Service stores feedback and partner applications
type Service struct {
	db      *gorm.DB
	ack     Acknowledger
	logger  *logrus.Logger
	timeout time.Duration
}

// NewService creates a feedback service. ack may be nil.
func NewService(db *gorm.DB, ack Acknowledger, logger *logrus.Logger) *Service {
	return &Service{db: db, ack: ack, logger: logger, timeout: 30 * time.Second}
}

// SubmitFeedback validates and stores a feedback message
func (s *Service) SubmitFeedback(ctx context.Context, clientID string, req FeedbackRequest) (*Receipt, error) {
	fb := Feedback{
		ID:       uuid.New().String(),
		ClientID: clientID,
		Category: strings.TrimSpace(req.Category),
		Message:  strings.TrimSpace(req.Message),
		Email:    strings.TrimSpace(req.Email),
	}

	errs := apperror.FieldErrors{}
	errs.Require(map[string]string{"category": fb.Category, "message": fb.Message})
	if len(fb.Message) > maxMessageLength {
		errs["message"] = fmt.Sprintf("Please keep your message under %d characters", maxMessageLength)
	}
	if fb.Email != "" && !emailPattern.MatchString(fb.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if err := errs.Err("submit feedback"); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&fb).Error; err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	if fb.Email != "" {
		s.acknowledge(ctx, fb.ID, func(ctx context.Context) error {
			return s.ack.SendFeedbackAck(ctx, fb.Email, fb.Category)
		})
	}
	return &Receipt{ID: fb.ID, Toast: FeedbackToast}, nil
}

// SubmitPartner validates and stores a partner application
func (s *Service) SubmitPartner(ctx context.Context, clientID string, req PartnerRequest) (*Receipt, error) {
	app := PartnerApplication{
		ID:             uuid.New().String(),
		ClientID:       clientID,
		RestaurantName: strings.TrimSpace(req.RestaurantName),
		OwnerName:      strings.TrimSpace(req.OwnerName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		City:           strings.TrimSpace(req.City),
	}

	errs := apperror.FieldErrors{}
	errs.Require(map[string]string{
		"restaurant_name": app.RestaurantName,
		"owner_name":      app.OwnerName,
		"email":           app.Email,
		"phone":           app.Phone,
		"city":            app.City,
	})
	if app.Email != "" && !emailPattern.MatchString(app.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if app.Phone != "" && !phonePattern.MatchString(app.Phone) {
		errs["phone"] = "Enter valid Indian number"
	}
	if err := errs.Err("submit partner application"); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return nil, fmt.Errorf("failed to store partner application: %w", err)
	}

	s.acknowledge(ctx, app.ID, func(ctx context.Context) error {
		return s.ack.SendPartnerAck(ctx, app.Email, app.OwnerName, app.RestaurantName)
	})
	return &Receipt{ID: app.ID, Toast: PartnerToast}, nil
}

// acknowledge sends the email in the background; failures are only logged
func (s *Service) acknowledge(ctx context.Context, id string, send func(context.Context) error) {
	if s.ack == nil {
		return
	}
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	go func() {
		defer cancel()
		if err := send(bg); err != nil && s.logger != nil {
			s.logger.WithError(err).WithField("submission_id", id).Warn("failed to send acknowledgement")
		}
	}()
}
