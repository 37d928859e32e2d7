package appointment

import "okada-agent-be/pkg/intent"

// Config holds the tunable parts of the booking dialogue. It can be loaded
// from the workflow YAML file.
type Config struct {
	FieldPriority          []string            `yaml:"field_priority"`
	Dates                  intent.DateDefaults `yaml:"dates"`
	DefaultDurationMinutes int                 `yaml:"default_duration_minutes"`
	ViewingTitle           string              `yaml:"viewing_title"`
	MaintenanceTitle       string              `yaml:"maintenance_title"`
	AffirmativeKeywords    []string            `yaml:"affirmative_keywords"`
	NegativeKeywords       []string            `yaml:"negative_keywords"`
}

func DefaultConfig() Config {
	return Config{
		FieldPriority:          []string{intent.FieldLocation, intent.FieldDateTime},
		Dates:                  intent.DefaultDateDefaults,
		DefaultDurationMinutes: 60,
		ViewingTitle:           "Property Viewing",
		MaintenanceTitle:       "Maintenance Request",
		AffirmativeKeywords:    []string{"yes", "confirm", "ok", "okay", "sure", "correct", "right", "approve", "proceed", "go ahead"},
		NegativeKeywords:       []string{"no", "cancel", "stop", "abort", "never mind", "not now"},
	}
}

// withDefaults fills the zero values of c from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.FieldPriority) == 0 {
		c.FieldPriority = d.FieldPriority
	}
	if c.Dates == (intent.DateDefaults{}) {
		c.Dates = d.Dates
	}
	if c.DefaultDurationMinutes <= 0 {
		c.DefaultDurationMinutes = d.DefaultDurationMinutes
	}
	if c.ViewingTitle == "" {
		c.ViewingTitle = d.ViewingTitle
	}
	if c.MaintenanceTitle == "" {
		c.MaintenanceTitle = d.MaintenanceTitle
	}
	if len(c.AffirmativeKeywords) == 0 {
		c.AffirmativeKeywords = d.AffirmativeKeywords
	}
	if len(c.NegativeKeywords) == 0 {
		c.NegativeKeywords = d.NegativeKeywords
	}
	return c
}
