package appointment

import (
	"context"
	"regexp"
	"strings"
	"time"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/pkg/intent"

	"github.com/google/uuid"
)

// Kind selects the default title of a new booking.
type Kind int

const (
	KindViewing Kind = iota
	KindMaintenance
)

var (
	maintenanceDetail = regexp.MustCompile(`(?i)\b(?:fix|repair|broken|leaking|issue with)\s+(?:my\s+|the\s+)?(.+)`)
	dateToken         = regexp.MustCompile(`(?i)\b(today|tomorrow|tonight|monday|tuesday|wednesday|thursday|friday|saturday|sunday|next week|next month|\d{1,2}[/-]\d{1,2}([/-]\d{2,4})?|\d{1,2}(:\d{2})?\s*(am|pm))\b`)
	requestWords      = regexp.MustCompile(`(?i)\b(schedule|appointment|meeting|book|arrange|set up)\b`)
)

// ConfirmationHook is told about every booking that reaches confirmed.
type ConfirmationHook interface {
	AppointmentConfirmed(ctx context.Context, session *entity.AppointmentSession)
}

// Manager drives the booking dialogue. Every status transition is decided
// by nextStep.
type Manager struct {
	store       SessionStore
	detector    *intent.AppointmentDetector
	hook        ConfirmationHook
	cfg         Config
	affirmative []*regexp.Regexp
	negative    []*regexp.Regexp
	logger      logger.ILogger
	now         func() time.Time
}

func NewManager(store SessionStore, detector *intent.AppointmentDetector, cfg Config, log logger.ILogger) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		store:       store,
		detector:    detector,
		cfg:         cfg,
		affirmative: keywordPatterns(cfg.AffirmativeKeywords),
		negative:    keywordPatterns(cfg.NegativeKeywords),
		logger:      log,
		now:         time.Now,
	}
}

// WithConfirmationHook registers the receiver of confirmed bookings.
func (m *Manager) WithConfirmationHook(hook ConfirmationHook) *Manager {
	m.hook = hook
	return m
}

// WithClock overrides the clock used for the "date is in the future" check.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// ActiveSession returns the booking userID is in the middle of, if any.
func (m *Manager) ActiveSession(ctx context.Context, userID string) (*entity.AppointmentSession, error) {
	return m.store.FindActive(ctx, userID)
}

// Start opens a new booking for userID seeded from the first message.
func (m *Manager) Start(ctx context.Context, userID, message string, kind Kind) Response {
	m.logger.Info("AppointmentWorkflow", "starting booking", map[string]interface{}{"user_id": userID, "kind": kind})

	session := &entity.AppointmentSession{
		Id:     uuid.New(),
		UserId: userID,
		Status: entity.AppointmentPending,
		CollectedData: entity.AppointmentData{
			Title:           m.initialTitle(message, kind),
			DurationMinutes: m.cfg.DefaultDurationMinutes,
			OrganizerEmail:  organizer(userID),
		},
		ConversationHistory: []entity.AppointmentHistoryEntry{{Message: message, Timestamp: m.now()}},
	}

	fields := m.detector.Extract(message)
	m.merge(&session.CollectedData, fields)
	if kind == KindViewing && fields.Title != "" {
		session.CollectedData.Title = fields.Title
	}

	resp, err := m.nextStep(ctx, session)
	if err != nil {
		m.logger.Error("AppointmentWorkflow", "failed to start booking", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return failure(startFailedMessage, CodeStartError, err)
	}
	return resp
}

// Continue feeds a user reply into an existing booking.
func (m *Manager) Continue(ctx context.Context, sessionID uuid.UUID, reply string) Response {
	session, err := m.store.Load(ctx, sessionID)
	if err != nil {
		m.logger.Error("AppointmentWorkflow", "failed to load session", map[string]interface{}{"session_id": sessionID.String(), "error": err.Error()})
		return failure(responseFailedMessage, CodeResponseError, err)
	}
	if session == nil {
		return failure(sessionNotFoundMessage, CodeSessionNotFound, nil)
	}
	if !session.Status.IsActive() && session.Status != entity.AppointmentPending {
		resp := failure(closedMessage(session.Status), CodeSessionClosed, nil)
		resp.SessionID = session.Id.String()
		resp.Status = session.Status
		return resp
	}

	session.ConversationHistory = append(session.ConversationHistory, entity.AppointmentHistoryEntry{
		Message:   reply,
		Timestamp: m.now(),
	})
	m.absorb(ctx, session, reply)

	resp, err := m.nextStep(ctx, session)
	if err != nil {
		m.logger.Error("AppointmentWorkflow", "failed to process reply", map[string]interface{}{"session_id": sessionID.String(), "error": err.Error()})
		return failure(responseFailedMessage, CodeResponseError, err)
	}
	return resp
}

// Confirm finalises a booking directly, as the confirm button does. A booking
// that still misses required fields gets the next question instead.
func (m *Manager) Confirm(ctx context.Context, sessionID uuid.UUID) Response {
	session, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return failure(confirmFailedMessage, CodeConfirmationError, err)
	}
	if session == nil {
		return failure(sessionNotFoundMessage, CodeSessionNotFound, nil)
	}
	switch session.Status {
	case entity.AppointmentCancelled:
		return failure(closedMessage(session.Status), CodeSessionClosed, nil)
	case entity.AppointmentConfirmed, entity.AppointmentCompleted:
		return Response{
			Success:     true,
			Message:     confirmedMessage(session.CollectedData),
			SessionID:   session.Id.String(),
			StepName:    StepConfirmed,
			Status:      session.Status,
			Appointment: &session.CollectedData,
		}
	}

	if len(m.missingFields(session.CollectedData)) == 0 {
		session.Status = entity.AppointmentConfirming
		session.CollectedData.ConfirmationResponse = entity.ConfirmationConfirmed
	}
	resp, err := m.nextStep(ctx, session)
	if err != nil {
		m.logger.Error("AppointmentWorkflow", "failed to confirm booking", map[string]interface{}{"session_id": sessionID.String(), "error": err.Error()})
		return failure(confirmFailedMessage, CodeConfirmationError, err)
	}
	return resp
}

// Cancel abandons a booking. Cancelling an unknown session still succeeds.
func (m *Manager) Cancel(ctx context.Context, sessionID uuid.UUID) Response {
	session, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return failure(cancelFailedMessage, CodeCancellationFailed, err)
	}
	if session == nil {
		return Response{Success: true, Message: cancelledMessage, SessionID: sessionID.String(), StepName: StepCancelled, Status: entity.AppointmentCancelled}
	}

	session.Status = entity.AppointmentConfirming
	session.CollectedData.ConfirmationResponse = entity.ConfirmationCancelled
	resp, err := m.nextStep(ctx, session)
	if err != nil {
		return failure(cancelFailedMessage, CodeCancellationFailed, err)
	}
	return resp
}

// nextStep decides the session's new status from its data, persists it and
// returns the message for the user.
func (m *Manager) nextStep(ctx context.Context, session *entity.AppointmentSession) (Response, error) {
	data := &session.CollectedData

	if session.Status == entity.AppointmentConfirming {
		switch data.ConfirmationResponse {
		case entity.ConfirmationConfirmed:
			return m.finish(ctx, session, entity.AppointmentConfirmed, StepConfirmed, confirmedMessage(*data))
		case entity.ConfirmationCancelled:
			return m.finish(ctx, session, entity.AppointmentCancelled, StepCancelled, cancelledMessage)
		}
	}

	session.MissingFields = m.missingFields(*data)
	resp := Response{Success: true, SessionID: session.Id.String()}

	if len(session.MissingFields) > 0 {
		session.Status = entity.AppointmentCollectingInfo
		resp.StepName = StepCollecting
		resp.NextStep = session.MissingFields[0]
		resp.Message = questionFor(session.MissingFields[0])
	} else {
		session.Status = entity.AppointmentConfirming
		resp.StepName = StepConfirmation
		resp.Message = summaryMessage(*data)
	}

	if err := m.store.Save(ctx, session); err != nil {
		return Response{}, err
	}
	resp.Status = session.Status
	resp.Appointment = data
	return resp, nil
}

func (m *Manager) finish(ctx context.Context, session *entity.AppointmentSession, status entity.AppointmentStatus, step, message string) (Response, error) {
	session.Status = status
	session.MissingFields = m.missingFields(session.CollectedData)
	if err := m.store.Save(ctx, session); err != nil {
		return Response{}, err
	}

	m.logger.Info("AppointmentWorkflow", "booking finished", map[string]interface{}{"session_id": session.Id.String(), "status": string(status)})
	if status == entity.AppointmentConfirmed && m.hook != nil {
		m.hook.AppointmentConfirmed(ctx, session)
	}

	return Response{
		Success:     true,
		Message:     message,
		SessionID:   session.Id.String(),
		StepName:    step,
		Status:      status,
		Appointment: &session.CollectedData,
	}, nil
}

// absorb interprets a reply. While confirming, a yes/no keyword is recorded
// and nothing else is read from the reply.
func (m *Manager) absorb(ctx context.Context, session *entity.AppointmentSession, reply string) {
	data := &session.CollectedData

	if session.Status == entity.AppointmentConfirming {
		if answer := m.confirmation(reply); answer != "" {
			data.ConfirmationResponse = answer
			return
		}
	}

	det := m.detector.Detect(ctx, reply)
	fields := det.Fields
	if !det.IsRequest {
		fields = intent.AppointmentFields{}
	}
	m.merge(data, fields)

	// Questions and new requests never replace a collected value.
	if requestWords.MatchString(reply) || strings.Contains(reply, "?") {
		return
	}

	extracted := m.detector.Extract(reply)
	if dateToken.MatchString(reply) && extracted.Date != nil && extracted.Date.After(m.now()) {
		data.Date = extracted.Date
	}

	switch {
	case extracted.Location != "":
		data.Location = extracted.Location
	case strings.TrimSpace(data.Location) == "" && awaiting(session, intent.FieldLocation) && !dateToken.MatchString(reply):
		// the whole reply answers "where?"
		if location := strings.TrimRight(strings.TrimSpace(reply), ".!"); location != "" {
			data.Location = location
		}
	}
}

// awaiting reports whether field is the question the user was last asked.
func awaiting(session *entity.AppointmentSession, field string) bool {
	return session.Status == entity.AppointmentCollectingInfo &&
		len(session.MissingFields) > 0 && session.MissingFields[0] == field
}

// merge copies newly found values into data without overwriting set fields.
func (m *Manager) merge(data *entity.AppointmentData, f intent.AppointmentFields) {
	if strings.TrimSpace(data.Location) == "" && f.Location != "" {
		data.Location = f.Location
	}
	if f.Date != nil && (data.Date == nil || !data.Date.After(m.now())) {
		data.Date = f.Date
	}
	for _, email := range f.Emails {
		if !containsFold(data.AttendeeEmails, email) {
			data.AttendeeEmails = append(data.AttendeeEmails, email)
		}
	}
}

// confirmation matches reply against the keyword sets, affirmative first.
// Keywords match whole words only, so "book" does not read as "ok".
func (m *Manager) confirmation(reply string) string {
	if matchesAny(m.affirmative, reply) {
		return entity.ConfirmationConfirmed
	}
	if matchesAny(m.negative, reply) {
		return entity.ConfirmationCancelled
	}
	return ""
}

func keywordPatterns(keywords []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		words := strings.Fields(regexp.QuoteMeta(strings.ToLower(k)))
		out = append(out, regexp.MustCompile(`(?i)\b`+strings.Join(words, `\s+`)+`\b`))
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// missingFields lists the required fields still absent, in configured order.
func (m *Manager) missingFields(data entity.AppointmentData) []string {
	absent := intent.AppointmentFields{Location: data.Location, Date: data.Date}.Missing(m.now())
	var out []string
	for _, field := range m.cfg.FieldPriority {
		for _, a := range absent {
			if a == field {
				out = append(out, field)
			}
		}
	}
	for _, a := range absent {
		if !contains(out, a) {
			out = append(out, a)
		}
	}
	return out
}

func (m *Manager) initialTitle(message string, kind Kind) string {
	if kind != KindMaintenance {
		return m.cfg.ViewingTitle
	}
	if match := maintenanceDetail.FindStringSubmatch(message); match != nil {
		if detail := strings.TrimRight(strings.TrimSpace(match[1]), ".!?"); detail != "" {
			return m.cfg.MaintenanceTitle + ": " + detail
		}
	}
	return m.cfg.MaintenanceTitle
}

func organizer(userID string) string {
	if strings.Contains(userID, "@") {
		return userID
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
