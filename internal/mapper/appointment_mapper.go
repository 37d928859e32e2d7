package mapper

import (
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/model"

	"gorm.io/datatypes"
)

type AppointmentMapper struct{}

func NewAppointmentMapper() *AppointmentMapper {
	return &AppointmentMapper{}
}

func (m *AppointmentMapper) ToEntity(s *model.AppointmentSession) *entity.AppointmentSession {
	if s == nil {
		return nil
	}

	data := s.CollectedData.Data()
	history := make([]entity.AppointmentHistoryEntry, len(s.ConversationHistory))
	for i, h := range s.ConversationHistory {
		history[i] = entity.AppointmentHistoryEntry{Message: h.Message, Timestamp: h.Timestamp}
	}

	return &entity.AppointmentSession{
		Id:     s.Id,
		UserId: s.UserId,
		Status: entity.AppointmentStatus(s.Status),
		CollectedData: entity.AppointmentData{
			Title:                data.Title,
			Location:             data.Location,
			Date:                 data.Date,
			DurationMinutes:      data.DurationMinutes,
			AttendeeEmails:       append([]string(nil), data.AttendeeEmails...),
			Description:          data.Description,
			OrganizerEmail:       data.OrganizerEmail,
			ConfirmationResponse: data.ConfirmationResponse,
		},
		MissingFields:       append([]string(nil), s.MissingFields...),
		ConversationHistory: history,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (m *AppointmentMapper) ToModel(s *entity.AppointmentSession) *model.AppointmentSession {
	if s == nil {
		return nil
	}

	d := s.CollectedData
	history := make([]model.AppointmentHistoryEntry, len(s.ConversationHistory))
	for i, h := range s.ConversationHistory {
		history[i] = model.AppointmentHistoryEntry{Message: h.Message, Timestamp: h.Timestamp}
	}
	missing := s.MissingFields
	if missing == nil {
		missing = []string{}
	}

	return &model.AppointmentSession{
		Id:     s.Id,
		UserId: s.UserId,
		Status: string(s.Status),
		CollectedData: datatypes.NewJSONType(model.AppointmentData{
			Title:                d.Title,
			Location:             d.Location,
			Date:                 d.Date,
			DurationMinutes:      d.DurationMinutes,
			AttendeeEmails:       d.AttendeeEmails,
			Description:          d.Description,
			OrganizerEmail:       d.OrganizerEmail,
			ConfirmationResponse: d.ConfirmationResponse,
		}),
		MissingFields:       datatypes.NewJSONSlice(missing),
		ConversationHistory: datatypes.NewJSONSlice(history),
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}
