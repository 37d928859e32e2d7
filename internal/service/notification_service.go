package service

import (
	"context"
	"strings"

	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/pkg/mailer"
	"okada-agent-be/pkg/events"
	pktNats "okada-agent-be/pkg/nats" // Renamed to avoid collision
)

const notificationConsumer = "notification-worker"

// SessionNotifier pushes a frame to every live connection of a chat session.
// Typically implemented by the WebSocket Hub.
type SessionNotifier interface {
	Send(sessionID string, frame interface{})
}

// AppointmentNotification is the websocket frame sent when a booking is confirmed.
type AppointmentNotification struct {
	Type string                      `json:"type"`
	Data events.AppointmentConfirmed `json:"data"`
}

type NotificationService struct {
	subscriber *pktNats.Subscriber
	mailer     mailer.IEmailService
	delivery   SessionNotifier
	logger     logger.ILogger
}

// NewNotificationService accepts nil for any of subscriber, mail and delivery.
func NewNotificationService(sub *pktNats.Subscriber, mail mailer.IEmailService, delivery SessionNotifier, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		mailer:     mail,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event bus, confirmations are delivered in-process", nil)
		return nil
	}
	err := s.subscriber.Subscribe(ctx, events.TypeAppointmentConfirmed, notificationConsumer, s.handleEvent)
	if err != nil {
		return err
	}
	s.logger.Info("NotificationService", "Notification service started", map[string]interface{}{"event": events.TypeAppointmentConfirmed})
	return nil
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.BaseEvent) error {
	return s.DeliverConfirmation(ctx, events.AppointmentConfirmedFrom(event))
}

// DeliverConfirmation pushes the booking to the chat session and mails the
// organizer and attendees. A mail error is returned so the bus redelivers.
func (s *NotificationService) DeliverConfirmation(ctx context.Context, appt events.AppointmentConfirmed) error {
	if s.delivery != nil && appt.ChatSessionID != "" {
		s.delivery.Send(appt.ChatSessionID, AppointmentNotification{Type: events.TypeAppointmentConfirmed, Data: appt})
	}

	recipients := Recipients(appt)
	if s.mailer == nil || len(recipients) == 0 {
		return nil
	}

	err := s.mailer.SendAppointmentConfirmation(recipients, mailer.Appointment{
		Title:    appt.Title,
		Location: appt.Location,
		When:     appt.When,
	})
	if err != nil {
		s.logger.Error("NotificationService", "Failed to send confirmation mail", map[string]interface{}{
			"appointment_id": appt.AppointmentID,
			"error":          err.Error(),
		})
		return err
	}
	s.logger.Info("NotificationService", "Confirmation mail sent", map[string]interface{}{
		"appointment_id": appt.AppointmentID,
		"recipients":     len(recipients),
	})
	return nil
}

// Recipients is the organizer followed by the attendees, without duplicates.
func Recipients(appt events.AppointmentConfirmed) []string {
	seen := make(map[string]bool)
	var out []string
	for _, addr := range append([]string{appt.OrganizerEmail}, appt.AttendeeEmails...) {
		key := strings.ToLower(strings.TrimSpace(addr))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(addr))
	}
	return out
}
