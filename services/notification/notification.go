package notification

import (
	"context"
	"fmt"

	"homely/services/customer"
	"homely/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService delivers FCM pushes for booking lifecycle events.
type NotificationService interface {
	SendBookingPlaced(ctx context.Context, customerID, orderID string) error
	SendDraftReminder(ctx context.Context, customerID, draftID string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	customers customer.Provider
}

func NewDefaultNotificationService(customers customer.Provider) (*DefaultNotificationService, error) {
	if customers == nil {
		return nil, fmt.Errorf("notification service initialization error: customer provider is nil")
	}
	return &DefaultNotificationService{customers: customers}, nil
}

// SendBookingPlaced pushes the post-submission confirmation.
func (s *DefaultNotificationService) SendBookingPlaced(ctx context.Context, customerID, orderID string) error {
	return s.send(ctx, customerID, "Booking placed",
		"Your booking was submitted successfully.",
		map[string]string{"orderId": orderID, "event": "booking_placed"})
}

// SendDraftReminder pushes the abandoned-draft nudge.
func (s *DefaultNotificationService) SendDraftReminder(ctx context.Context, customerID, draftID string) error {
	return s.send(ctx, customerID, "Finish your booking",
		"Your booking draft is about to expire.",
		map[string]string{"draftId": draftID, "event": "draft_reminder"})
}

func (s *DefaultNotificationService) send(ctx context.Context, customerID, title, body string, data map[string]string) error {
	cust, err := s.customers.Current(ctx, customerID)
	if err != nil {
		return fmt.Errorf("notification: could not resolve customer %s: %w", customerID, err)
	}
	if cust.FCMToken == "" {
		return fmt.Errorf("notification: customer %s has no FCM token", customerID)
	}

	msg := &messaging.Message{
		Token: cust.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("notification: failed to send FCM message: %w", err)
	}
	return nil
}
