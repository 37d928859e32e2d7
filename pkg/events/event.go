package events

import "time"

// Event types published on the bus. The subject is "agent.<type>".
const (
	TypeTurnCompleted        = "turn_completed"
	TypeAppointmentConfirmed = "appointment_confirmed"
	TypeDocumentsIngested    = "documents_ingested"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "turn_completed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// String reads a string field from the payload.
func (e BaseEvent) String(key string) string {
	v, _ := e.Data[key].(string)
	return v
}

// Strings reads a list of strings from the payload. JSON decoding turns
// lists into []interface{}, so both shapes are accepted.
func (e BaseEvent) Strings(key string) []string {
	switch v := e.Data[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func NewTurnCompleted(sessionID, strategy string, path []string, appended int) BaseEvent {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"strategy":   strategy,
			"path":       path,
			"appended":   appended,
		},
		OccurredAt: time.Now(),
	}
}

// AppointmentConfirmed carries what the notification side needs to tell the
// organizer and attendees.
type AppointmentConfirmed struct {
	AppointmentID  string
	ChatSessionID  string
	Title          string
	Location       string
	When           string
	OrganizerEmail string
	AttendeeEmails []string
}

func (a AppointmentConfirmed) Event() BaseEvent {
	return BaseEvent{
		Type: TypeAppointmentConfirmed,
		Data: map[string]interface{}{
			"appointment_id":  a.AppointmentID,
			"chat_session_id": a.ChatSessionID,
			"title":           a.Title,
			"location":        a.Location,
			"when":            a.When,
			"organizer_email": a.OrganizerEmail,
			"attendee_emails": a.AttendeeEmails,
		},
		OccurredAt: time.Now(),
	}
}

// AppointmentConfirmedFrom rebuilds the payload of a received event.
func AppointmentConfirmedFrom(e BaseEvent) AppointmentConfirmed {
	return AppointmentConfirmed{
		AppointmentID:  e.String("appointment_id"),
		ChatSessionID:  e.String("chat_session_id"),
		Title:          e.String("title"),
		Location:       e.String("location"),
		When:           e.String("when"),
		OrganizerEmail: e.String("organizer_email"),
		AttendeeEmails: e.Strings("attendee_emails"),
	}
}

func NewDocumentsIngested(sessionID, source string, chunks int) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentsIngested,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"source":     source,
			"chunks":     chunks,
		},
		OccurredAt: time.Now(),
	}
}
