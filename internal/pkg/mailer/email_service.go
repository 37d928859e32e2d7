package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// Appointment is what a confirmation mail needs to show.
type Appointment struct {
	Title    string
	Location string
	When     string
}

type IEmailService interface {
	SendAppointmentConfirmation(to []string, appt Appointment) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// BuildAppointmentConfirmation renders the confirmation message without sending it.
func BuildAppointmentConfirmation(from string, to []string, appt Appointment) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", fmt.Sprintf("Confirmed: %s", appt.Title))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your appointment is confirmed</h2>
			<p><strong>%s</strong></p>
			<p>Location: %s</p>
			<p>When: %s</p>
			<p>Reply to this email if you need to reschedule.</p>
		</div>
	`, html.EscapeString(appt.Title), html.EscapeString(appt.Location), html.EscapeString(appt.When))

	m.SetBody("text/html", body)
	return m
}

func (s *emailService) SendAppointmentConfirmation(to []string, appt Appointment) error {
	if len(to) == 0 {
		return nil
	}
	m := BuildAppointmentConfirmation(s.senderEmail, to, appt)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send confirmation to %v: %w", to, err)
	}
	return nil
}
