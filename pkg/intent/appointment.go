package intent

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/pkg/llm"
)

// Required appointment fields, named as the workflow reports them.
const (
	FieldLocation = "location"
	FieldDateTime = "date_time"
)

// AppointmentScoring isolates the constants of the appointment regex score.
type AppointmentScoring struct {
	TriggerBase float64
	TriggerStep float64
	TriggerCap  float64
	DetailBoost float64
}

var DefaultAppointmentScoring = AppointmentScoring{
	TriggerBase: 0.4,
	TriggerStep: 0.2,
	TriggerCap:  0.8,
	DetailBoost: 0.1,
}

func mustCompileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

var appointmentTriggers = mustCompileAll(
	`\b(book|schedule|set up|arrange|make)\s+(an?\s+)?(appointment|meeting|call|session)\b`,
	`\bi\s+(want|need|would like)\s+to\s+(book|schedule|set up|arrange|make)`,
	`\b(can|could)\s+(i|we)\s+(book|schedule|set up|arrange|make)`,
	`\b(let's|lets)\s+(meet|schedule|set up a meeting)\b`,
	`\b(need|want)\s+to\s+(meet|have a meeting)\b`,
	`\b(schedule|set up)\s+(a|the)\s+(meeting|call|appointment)\b`,
	`\b(free|available)\s+(on|at|for|tomorrow|next week|this week)\b`,
	`\b(when\s+(can|are you)\s+)?(available|free)\b`,
	`\bmeet\s+(on|at|tomorrow|next week|this week)\b`,
	`\b(put it in|add to|block)\s+(my|the)\s+calendar\b`,
	`\bcalendar\s+(invite|invitation|meeting)\b`,
	`\bsend\s+(me\s+)?(a\s+)?(calendar\s+)?(invite|invitation)\b`,
)

var (
	datePatterns = mustCompileAll(
		`\b(tomorrow|today|next week|this week|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`,
		`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{1,2}(st|nd|rd|th)?\s+(of\s+)?\w+)\b`,
		`\bon\s+(\w+,?\s*\w*\s*\d{1,2}(st|nd|rd|th)?)\b`,
	)
	timePatterns = mustCompileAll(
		`\b(\d{1,2}(:\d{2})?\s*(am|pm))\b`,
		`\bat\s+(\d{1,2}(:\d{2})?\s*(am|pm)?)\b`,
		`\b(morning|afternoon|evening|noon)\b`,
	)
	locationPatterns = mustCompileAll(
		`\bat\s+((?:the\s+)?(?:office|building|location|address|room\s+\d+))\b`,
		`\bin\s+((?:the\s+)?(?:conference room|meeting room|office))\b`,
		`\b(\d+\s+[a-zA-Z0-9\s,.-]+?(?:street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|ln|lane|ct|court|pl|place))\b`,
	)
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	titlePatterns = mustCompileAll(
		`\b(?:meeting|appointment|call|session)\s+(?:about|for|regarding)\s+(.+)`,
	)
	titleCutoff = regexp.MustCompile(`(?i)\s+(?:on|at|tomorrow|today|next|this)\b`)
)

// AppointmentFields are the booking details found in a single message.
type AppointmentFields struct {
	Title    string
	Location string
	Date     *time.Time
	Emails   []string
}

// AppointmentDetection is the outcome of Detect. Fields is only populated
// when IsRequest is true.
type AppointmentDetection struct {
	IsRequest     bool
	Confidence    float64
	PatternScore  float64
	ModelScore    float64
	Fields        AppointmentFields
	MissingFields []string
}

type AppointmentDetector struct {
	scorer  modelScorer
	dates   *DateParser
	scoring AppointmentScoring
	now     func() time.Time
}

// NewAppointmentDetector builds a detector. provider may be nil, in which
// case the model contributes zero confidence.
func NewAppointmentDetector(provider llm.LLMProvider, dates *DateParser, log logger.ILogger, timeout time.Duration) *AppointmentDetector {
	if dates == nil {
		dates = NewDateParser(DefaultDateDefaults)
	}
	return &AppointmentDetector{
		scorer:  modelScorer{provider: provider, logger: log, timeout: timeout, module: "AppointmentDetector"},
		dates:   dates,
		scoring: DefaultAppointmentScoring,
		now:     time.Now,
	}
}

// WithClock overrides the reference time used to resolve relative dates.
func (d *AppointmentDetector) WithClock(now func() time.Time) *AppointmentDetector {
	d.now = now
	return d
}

func (d *AppointmentDetector) Detect(ctx context.Context, message string) AppointmentDetection {
	pattern := d.PatternScore(message)
	model := d.scorer.score(ctx, fmt.Sprintf(appointmentConfidencePrompt, message))
	confidence := Combine(pattern, model)

	det := AppointmentDetection{
		IsRequest:    confidence > Threshold,
		Confidence:   confidence,
		PatternScore: pattern,
		ModelScore:   model,
	}
	if det.IsRequest {
		det.Fields = d.Extract(message)
		det.MissingFields = det.Fields.Missing(d.now())
	}
	return det
}

// PatternScore is the regex half of the confidence: a score for the number
// of triggers hit plus a boost for every category of detail present.
func (d *AppointmentDetector) PatternScore(message string) float64 {
	triggers := 0
	for _, re := range appointmentTriggers {
		if re.MatchString(message) {
			triggers++
		}
	}

	score := 0.0
	if triggers > 0 {
		score = math.Min(d.scoring.TriggerCap, d.scoring.TriggerBase+d.scoring.TriggerStep*float64(triggers))
	}

	details := [][]*regexp.Regexp{datePatterns, timePatterns, locationPatterns, titlePatterns}
	for _, set := range details {
		if matchesAny(set, message) {
			score += d.scoring.DetailBoost
		}
	}
	if emailPattern.MatchString(message) {
		score += d.scoring.DetailBoost
	}
	return math.Min(1, score)
}

// Extract pulls booking details out of message without scoring it.
func (d *AppointmentDetector) Extract(message string) AppointmentFields {
	var f AppointmentFields

	if t, ok := d.dates.Parse(message, d.now()); ok {
		f.Date = &t
	}
	f.Location = firstCapture(locationPatterns, message)
	f.Emails = uniqueMatches(emailPattern, message)

	if title := firstCapture(titlePatterns, message); title != "" {
		if loc := titleCutoff.FindStringIndex(title); loc != nil {
			title = title[:loc[0]]
		}
		f.Title = strings.TrimRight(strings.TrimSpace(title), ".!?,")
	}
	return f
}

// Missing lists the required fields that are absent, in location, date_time
// order. A date that is not strictly after now counts as missing.
func (f AppointmentFields) Missing(now time.Time) []string {
	var missing []string
	if strings.TrimSpace(f.Location) == "" {
		missing = append(missing, FieldLocation)
	}
	if f.Date == nil || !f.Date.After(now) {
		missing = append(missing, FieldDateTime)
	}
	return missing
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func firstCapture(res []*regexp.Regexp, s string) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(s); len(m) > 1 {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

func uniqueMatches(re *regexp.Regexp, s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range re.FindAllString(s, -1) {
		key := strings.ToLower(m)
		if !seen[key] {
			seen[key] = true
			out = append(out, m)
		}
	}
	return out
}

const appointmentConfidencePrompt = `Rate how likely it is that the following message asks to schedule an appointment, meeting or call.
Answer with a single number between 0 and 1 and nothing else.

Message: %s`
