package classifier

// Base confidences per category.
const (
	GreetingConfidence       = 0.9
	ThankYouConfidence       = 0.9
	HelpConfidence           = 0.8
	AppointmentConfidence    = 0.8
	ConversationalConfidence = 0.6
	MaintenanceConfidence    = 0.9

	// UnknownConfidence is emitted when nothing reaches AcceptThreshold.
	UnknownConfidence = 0.3
	AcceptThreshold   = 0.4

	// PropertyWorkflowThreshold must be exceeded for a property search to
	// get the full workflow instead of a fallback response.
	PropertyWorkflowThreshold = 0.8
)

// PropertyScoring holds the additive increments used to score property
// related messages. Every matched sub-pattern adds its increment.
type PropertyScoring struct {
	DirectPattern         float64
	RecommendationPattern float64
	ActionKeywords        float64
	SuggestKeywords       float64
	TopN                  float64
	Price                 float64
	Features              float64
	Address               float64

	DirectCap         float64
	RecommendationCap float64
	GeneralCap        float64

	// DirectFloor is the minimum direct score for a direct query verdict.
	DirectFloor float64
	// RecommendationFloor is the minimum recommendation score for a recommendation verdict.
	RecommendationFloor float64
	// Inclusion is the score a property result must exceed to be considered at all.
	Inclusion float64
}

var DefaultPropertyScoring = PropertyScoring{
	DirectPattern:         0.3,
	RecommendationPattern: 0.4,
	ActionKeywords:        0.4,
	SuggestKeywords:       0.5,
	TopN:                  0.5,
	Price:                 0.2,
	Features:              0.2,
	Address:               0.6,

	DirectCap:         0.9,
	RecommendationCap: 0.8,
	GeneralCap:        0.7,

	DirectFloor:         0.5,
	RecommendationFloor: 0.3,
	Inclusion:           0.3,
}
