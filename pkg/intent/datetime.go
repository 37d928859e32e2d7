package intent

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateDefaults are the hours used when a message names a day but no clock time.
type DateDefaults struct {
	DefaultHour   int `yaml:"default_hour"`
	MorningHour   int `yaml:"morning_hour"`
	AfternoonHour int `yaml:"afternoon_hour"`
}

var DefaultDateDefaults = DateDefaults{
	DefaultHour:   14,
	MorningHour:   10,
	AfternoonHour: 14,
}

var (
	clockPattern     = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm|a\.m\.|p\.m\.)|\b\d{1,2}:\d{2}\b|\b(noon|midnight)\b`)
	morningPattern   = regexp.MustCompile(`(?i)\bmorning\b`)
	afternoonPattern = regexp.MustCompile(`(?i)\b(afternoon|evening|pm)\b`)
)

// DateParser resolves natural language dates ("tomorrow", "next tuesday at
// 3pm", "12/05/2026") relative to a base time.
type DateParser struct {
	parser   *when.Parser
	defaults DateDefaults
}

func NewDateParser(defaults DateDefaults) *DateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateParser{parser: w, defaults: defaults}
}

// Parse returns the first date found in text. When the text carries no
// explicit clock time the configured default hour is applied.
func (p *DateParser) Parse(text string, base time.Time) (time.Time, bool) {
	r, err := p.parser.Parse(text, base)
	if err != nil || r == nil {
		return time.Time{}, false
	}

	t := r.Time
	if clockPattern.MatchString(text) {
		return t.Truncate(time.Minute), true
	}

	hour := p.defaults.DefaultHour
	lower := strings.ToLower(text)
	switch {
	case morningPattern.MatchString(lower):
		hour = p.defaults.MorningHour
	case afternoonPattern.MatchString(lower):
		hour = p.defaults.AfternoonHour
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location()), true
}
