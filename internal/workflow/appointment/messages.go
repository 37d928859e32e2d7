package appointment

import (
	"fmt"
	"strings"

	"okada-agent-be/internal/entity"
	"okada-agent-be/pkg/intent"
)

const (
	sessionNotFoundMessage = "Sorry, I couldn't find your appointment booking session. Let's start over."
	startFailedMessage     = "Sorry, I encountered an issue starting the appointment booking. Please try again."
	responseFailedMessage  = "Sorry, there was an issue processing your response. Could you please try again?"
	confirmFailedMessage   = "Sorry, there was an issue confirming your appointment. Please try again."
	cancelledMessage       = "No problem! Your appointment booking has been cancelled. Feel free to ask me anything else or start a new appointment booking whenever you're ready."
	cancelFailedMessage    = "Sorry, there was an issue cancelling your appointment booking. Please try again."
	dateLayout             = "Monday, January 2, 2006 at 3:04 PM"
)

var fieldQuestions = map[string]string{
	intent.FieldLocation: "Where would you like to have this meeting? You can give an address, an office location, or say it should be virtual.",
	intent.FieldDateTime: "When would you like to schedule this meeting? Please let me know your preferred date and time.",
}

func questionFor(field string) string {
	if q, ok := fieldQuestions[field]; ok {
		return q
	}
	return fmt.Sprintf("I need a bit more information about the %s. Could you please provide it?", strings.ReplaceAll(field, "_", " "))
}

// FormatWhen renders the booking date the way it is shown to users.
func FormatWhen(d entity.AppointmentData) string {
	if d.Date == nil {
		return "to be decided"
	}
	return d.Date.Format(dateLayout)
}

func details(d entity.AppointmentData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", d.Title)
	fmt.Fprintf(&b, "Location: %s\n", d.Location)
	fmt.Fprintf(&b, "Date & Time: %s\n", FormatWhen(d))
	fmt.Fprintf(&b, "Duration: %d minutes", d.DurationMinutes)
	if len(d.AttendeeEmails) > 0 {
		fmt.Fprintf(&b, "\nAttendees: %s", strings.Join(d.AttendeeEmails, ", "))
	}
	return b.String()
}

func summaryMessage(d entity.AppointmentData) string {
	return "Perfect! I have all the details for your appointment. Please review:\n\n" +
		details(d) +
		"\n\nWould you like me to confirm this appointment? (yes/no)"
}

func confirmedMessage(d entity.AppointmentData) string {
	return "Your appointment is confirmed!\n\n" + details(d) +
		"\n\nYou will receive a confirmation e-mail with these details shortly."
}

func closedMessage(status entity.AppointmentStatus) string {
	return fmt.Sprintf("This appointment booking is already %s. Let me know if you'd like to start a new one.", status)
}
