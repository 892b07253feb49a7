// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound is returned when no order matches
	ErrOrderNotFound = errors.New("order not found")
	// ErrAttemptRecorded is returned when the payment attempt already has an order
	ErrAttemptRecorded = errors.New("order already recorded for attempt")
)

const numberAttempts = 5

// EventPublisher announces placed orders to other systems
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *Order) error
}

// Notifier tells the customer about their order
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, o *Order) error
}

// Service appends and reads the order history. There is no update path.
type Service struct {
	db        *gorm.DB
	publisher EventPublisher
	notifier  Notifier
	logger    *logrus.Logger
	timeout   time.Duration
}

// NewService creates a new order service. publisher and notifier may be nil.
func NewService(db *gorm.DB, publisher EventPublisher, notifier Notifier, logger *logrus.Logger) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		timeout:   10 * time.Second,
	}
}

// Append stores a new order and fires the follow-up notifications.
// A unique clash on the order number moves it forward by one millisecond
// and the insert is retried.
func (s *Service) Append(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now().UTC()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = NumberFor(o.Timestamp)
	}

	var err error
	for i := 0; i < numberAttempts; i++ {
		err = s.db.WithContext(ctx).Create(o).Error
		if err == nil || !isUniqueViolation(err) {
			break
		}
		if o.AttemptID != "" {
			if _, findErr := s.FindByAttempt(ctx, o.AttemptID); findErr == nil {
				err = ErrAttemptRecorded
				break
			}
		}
		o.OrderNumber = NumberFor(o.Timestamp.Add(time.Duration(i+1) * time.Millisecond))
	}
	if err != nil {
		return fmt.Errorf("failed to append order: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"order_number": o.OrderNumber,
			"client_id":    o.ClientID,
			"total":        o.Total.StringFixed(2),
		}).Info("order placed")
	}

	s.announce(ctx, o)
	return nil
}

// announce runs the best-effort side effects without holding up the caller
func (s *Service) announce(ctx context.Context, o *Order) {
	if s.publisher == nil && s.notifier == nil {
		return
	}
	snapshot := *o
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)

	go func() {
		defer cancel()
		if s.publisher != nil {
			if err := s.publisher.PublishOrderPlaced(bg, &snapshot); err != nil {
				s.warn(err, snapshot.OrderNumber, "failed to publish order event")
			}
		}
		if s.notifier != nil && snapshot.DeliveryInfo.Email != "" {
			if err := s.notifier.SendOrderConfirmation(bg, &snapshot); err != nil {
				s.warn(err, snapshot.OrderNumber, "failed to send order confirmation")
			}
		}
	}()
}

// isUniqueViolation matches the translated gorm error and the raw driver
// messages of postgres and sqlite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

func (s *Service) warn(err error, number, msg string) {
	if s.logger != nil {
		s.logger.WithError(err).WithField("order_number", number).Warn(msg)
	}
}

// List returns a client's orders, most recent first
func (s *Service) List(ctx context.Context, clientID string) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// Get returns one of the client's orders by its number
func (s *Service) Get(ctx context.Context, clientID, number string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND order_number = ?", clientID, number).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// FindByAttempt returns the order created by a payment attempt
func (s *Service) FindByAttempt(ctx context.Context, attemptID string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}
