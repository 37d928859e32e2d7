package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentConfirmed_SurvivesTheWire(t *testing.T) {
	sent := AppointmentConfirmed{
		AppointmentID:  "a-1",
		ChatSessionID:  "chat-1",
		Title:          "Property Viewing",
		Location:       "the office",
		When:           "Monday, October 19, 2026 at 2:00 PM",
		OrganizerEmail: "owner@example.com",
		AttendeeEmails: []string{"a@example.com", "b@example.com"},
	}

	raw, err := json.Marshal(sent.Event().Payload())
	require.NoError(t, err)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &data))

	got := AppointmentConfirmedFrom(BaseEvent{Type: TypeAppointmentConfirmed, Data: data})
	assert.Equal(t, sent, got)
}

func TestBaseEvent_MissingFields(t *testing.T) {
	e := BaseEvent{Data: map[string]interface{}{"n": 3}}
	assert.Empty(t, e.String("n"))
	assert.Nil(t, e.Strings("missing"))
}
