package service

import (
	"context"

	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/workflow/appointment"
	"okada-agent-be/pkg/events"

	"github.com/google/uuid"
)

// ConfirmationDelivery handles a confirmed booking in-process. It is used
// when no event bus is configured or publishing fails.
type ConfirmationDelivery interface {
	DeliverConfirmation(ctx context.Context, appt events.AppointmentConfirmed) error
}

type IAppointmentService interface {
	Start(ctx context.Context, req *dto.StartAppointmentRequest) *dto.AppointmentResponse
	Continue(ctx context.Context, sessionId string, req *dto.ContinueAppointmentRequest) *dto.AppointmentResponse
	Confirm(ctx context.Context, sessionId string) *dto.AppointmentResponse
	Cancel(ctx context.Context, sessionId string) *dto.AppointmentResponse
}

type appointmentService struct {
	manager  *appointment.Manager
	events   EventPublisher
	delivery ConfirmationDelivery
	logger   logger.ILogger
}

// NewAppointmentService wraps manager and registers itself as its
// confirmation hook. eventPublisher and delivery may be nil.
func NewAppointmentService(manager *appointment.Manager, eventPublisher EventPublisher, delivery ConfirmationDelivery, log logger.ILogger) IAppointmentService {
	s := &appointmentService{
		manager:  manager,
		events:   eventPublisher,
		delivery: delivery,
		logger:   log,
	}
	manager.WithConfirmationHook(s)
	return s
}

func (s *appointmentService) Start(ctx context.Context, req *dto.StartAppointmentRequest) *dto.AppointmentResponse {
	kind := appointment.KindViewing
	if req.Maintenance {
		kind = appointment.KindMaintenance
	}
	return ToAppointmentResponse(s.manager.Start(ctx, req.UserId, req.Message, kind))
}

func (s *appointmentService) Continue(ctx context.Context, sessionId string, req *dto.ContinueAppointmentRequest) *dto.AppointmentResponse {
	return ToAppointmentResponse(s.manager.Continue(ctx, parseSessionID(sessionId), req.Message))
}

func (s *appointmentService) Confirm(ctx context.Context, sessionId string) *dto.AppointmentResponse {
	return ToAppointmentResponse(s.manager.Confirm(ctx, parseSessionID(sessionId)))
}

func (s *appointmentService) Cancel(ctx context.Context, sessionId string) *dto.AppointmentResponse {
	return ToAppointmentResponse(s.manager.Cancel(ctx, parseSessionID(sessionId)))
}

// AppointmentConfirmed publishes the booking to the bus, or hands it to the
// local delivery when there is no bus.
func (s *appointmentService) AppointmentConfirmed(ctx context.Context, session *entity.AppointmentSession) {
	appt := events.AppointmentConfirmed{
		AppointmentID:  session.Id.String(),
		ChatSessionID:  session.UserId,
		Title:          session.CollectedData.Title,
		Location:       session.CollectedData.Location,
		When:           appointment.FormatWhen(session.CollectedData),
		OrganizerEmail: session.CollectedData.OrganizerEmail,
		AttendeeEmails: session.CollectedData.AttendeeEmails,
	}

	if s.events != nil {
		err := s.events.Publish(ctx, appt.Event())
		if err == nil {
			return
		}
		s.logger.Warn("AppointmentService", "Failed to publish appointment_confirmed, delivering locally", map[string]interface{}{
			"appointment_id": appt.AppointmentID,
			"error":          err.Error(),
		})
	}

	if s.delivery == nil {
		return
	}
	go func(ctx context.Context) {
		if err := s.delivery.DeliverConfirmation(ctx, appt); err != nil {
			s.logger.Error("AppointmentService", "Local confirmation delivery failed", map[string]interface{}{
				"appointment_id": appt.AppointmentID,
				"error":          err.Error(),
			})
		}
	}(context.WithoutCancel(ctx))
}

// parseSessionID maps a malformed id to uuid.Nil, which no session has, so
// the workflow answers with its not-found message.
func parseSessionID(id string) uuid.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}

func ToAppointmentResponse(r appointment.Response) *dto.AppointmentResponse {
	res := &dto.AppointmentResponse{
		Success:   r.Success,
		Message:   r.Message,
		SessionId: r.SessionID,
		StepName:  r.StepName,
		NextStep:  r.NextStep,
		Status:    string(r.Status),
	}
	if r.Appointment != nil {
		res.Appointment = &dto.AppointmentDataDTO{
			Title:           r.Appointment.Title,
			Location:        r.Appointment.Location,
			Date:            r.Appointment.Date,
			DurationMinutes: r.Appointment.DurationMinutes,
			AttendeeEmails:  r.Appointment.AttendeeEmails,
			Description:     r.Appointment.Description,
			OrganizerEmail:  r.Appointment.OrganizerEmail,
		}
	}
	if r.Error != nil {
		res.Error = &dto.AppointmentErrorDTO{Code: r.Error.Code, Message: r.Error.Message}
	}
	return res
}
