package classifier

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
)

type category struct {
	messageType MessageType
	confidence  float64
	reason      string
	patterns    []*regexp.Regexp
}

// FastClassifier categorises messages with regular expressions and keyword
// scoring only. It never calls out to a model and is safe for concurrent use.
type FastClassifier struct {
	scoring PropertyScoring
	leading []category
	tail    []category
}

func NewFastClassifier() *FastClassifier {
	return NewFastClassifierWithScoring(DefaultPropertyScoring)
}

func NewFastClassifierWithScoring(scoring PropertyScoring) *FastClassifier {
	return &FastClassifier{
		scoring: scoring,
		leading: []category{
			{Greeting, GreetingConfidence, "greeting pattern matched", greetingPatterns},
			{ThankYou, ThankYouConfidence, "thank you pattern matched", thankYouPatterns},
			{HelpRequest, HelpConfidence, "help request pattern matched", helpPatterns},
			{AppointmentRequest, AppointmentConfidence, "appointment pattern matched", appointmentPatterns},
		},
		tail: []category{
			{Conversational, ConversationalConfidence, "conversational pattern matched", conversationalPatterns},
		},
	}
}

// Normalize lower-cases and trims the message, collapses whitespace runs and
// reduces repeated terminal punctuation to a single period.
func Normalize(message string) string {
	s := strings.ToLower(strings.TrimSpace(message))
	s = whitespaceRun.ReplaceAllString(s, " ")
	return punctuationRun.ReplaceAllString(s, ".")
}

// Classify returns the single best classification for message. Maintenance
// requests short-circuit every other category.
func (c *FastClassifier) Classify(message string, userCtx *UserContext) Classification {
	normalized := Normalize(message)

	if anyMatch(maintenancePatterns, normalized) {
		return Classification{
			MessageType:           AppointmentRequest,
			Confidence:            MaintenanceConfidence,
			ProcessingStrategy:    MaintenanceWorkflow,
			EstimatedResponseTime: 3 * time.Second,
			Reasoning:             "maintenance request detected",
		}
	}

	results := c.Candidates(normalized)
	best := results[0]

	strategy, requiresIndex, estimate := strategyFor(best)
	estimate = adjustEstimate(estimate, strategy, userCtx)

	return Classification{
		MessageType:           best.MessageType,
		Confidence:            best.Confidence,
		ProcessingStrategy:    strategy,
		RequiresIndex:         requiresIndex,
		EstimatedResponseTime: estimate,
		Reasoning:             best.Reasoning,
	}
}

// Candidate is one scored category before strategy selection.
type Candidate struct {
	MessageType MessageType
	Confidence  float64
	Reasoning   string
}

// Candidates scores an already normalized message against every category
// and returns the results ordered by descending confidence. Ties keep
// registration order. The slice is never empty.
func (c *FastClassifier) Candidates(normalized string) []Candidate {
	var results []Candidate

	for _, cat := range c.leading {
		if anyMatch(cat.patterns, normalized) {
			results = append(results, Candidate{cat.messageType, cat.confidence, cat.reason})
		}
	}

	if prop := c.scoreProperty(normalized); prop.Confidence > c.scoring.Inclusion {
		results = append(results, prop)
	}

	for _, cat := range c.tail {
		if anyMatch(cat.patterns, normalized) {
			results = append(results, Candidate{cat.messageType, cat.confidence, cat.reason})
		}
	}

	maxConfidence := 0.0
	for _, r := range results {
		maxConfidence = math.Max(maxConfidence, r.Confidence)
	}
	if len(results) == 0 || maxConfidence < AcceptThreshold {
		results = append(results, Candidate{Unknown, UnknownConfidence, "no clear patterns found"})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}

func (c *FastClassifier) scoreProperty(s string) Candidate {
	sc := c.scoring
	var (
		direct, recommend float64
		reasons           []string
		directHit         bool
	)

	for _, re := range directQueryPatterns {
		if re.MatchString(s) {
			direct += sc.DirectPattern
			if !directHit {
				reasons = append(reasons, "direct query pattern")
				directHit = true
			}
		}
	}

	recHit := false
	for _, re := range recommendationPatterns {
		if re.MatchString(s) {
			recommend += sc.RecommendationPattern
			if !recHit {
				reasons = append(reasons, "recommendation pattern")
				recHit = true
			}
		}
	}

	hasProperty := containsAny(s, propertyKeywords)
	if hasProperty && containsAny(s, actionKeywords) {
		direct += sc.ActionKeywords
		reasons = append(reasons, "action+property keywords")
	}
	if hasProperty && containsAny(s, suggestKeywords) {
		recommend += sc.SuggestKeywords
		reasons = append(reasons, "suggest+property keywords")
	}

	topN := topNPattern.MatchString(s)
	if topN {
		direct += sc.TopN
		reasons = append(reasons, "top N pattern")
	}
	if pricePattern.MatchString(s) {
		direct += sc.Price
		reasons = append(reasons, "price mentioned")
	}
	if featurePattern.MatchString(s) {
		direct += sc.Features
		reasons = append(reasons, "specific features")
	}
	if addressPattern.MatchString(s) {
		direct += sc.Address
		reasons = append(reasons, "specific address")
	}

	detail := strings.Join(reasons, ", ")
	switch {
	case direct > recommend && direct > sc.DirectFloor:
		kind := PropertySearch
		if directHit || topN {
			kind = DirectPropertyQuery
		}
		return Candidate{kind, math.Min(sc.DirectCap, direct), "Direct property query: " + detail}
	case recommend > sc.RecommendationFloor:
		return Candidate{PropertySearch, math.Min(sc.RecommendationCap, recommend), "Recommendation request: " + detail}
	default:
		return Candidate{PropertySearch, math.Min(sc.GeneralCap, math.Max(direct, recommend)), "General property search: " + detail}
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func strategyFor(c Candidate) (ProcessingStrategy, bool, time.Duration) {
	switch c.MessageType {
	case Greeting, ThankYou, Conversational:
		return QuickResponse, false, time.Second
	case HelpRequest:
		return QuickResponse, false, 1500 * time.Millisecond
	case DirectPropertyQuery:
		return DirectSearch, true, 3 * time.Second
	case PropertySearch:
		if c.Confidence > PropertyWorkflowThreshold {
			return PropertyWorkflow, true, 4 * time.Second
		}
		return FallbackResponse, false, 2 * time.Second
	case AppointmentRequest:
		return AppointmentWorkflow, false, 3 * time.Second
	default:
		return FallbackResponse, false, 5 * time.Second
	}
}

func adjustEstimate(d time.Duration, strategy ProcessingStrategy, userCtx *UserContext) time.Duration {
	if userCtx == nil {
		return d
	}
	factor := 1.0
	if userCtx.PreviousInteractions > 5 {
		factor *= 0.9
	}
	if userCtx.HasPreferences && strategy == PropertyWorkflow {
		factor *= 0.8
	}
	return time.Duration(float64(d) * factor)
}

func (c Classification) String() string {
	return fmt.Sprintf("%s (%.2f) -> %s", c.MessageType, c.Confidence, c.ProcessingStrategy)
}
