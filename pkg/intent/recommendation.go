package intent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/pkg/llm"
)

const (
	recommendationHit  = 0.9
	recommendationMiss = 0.1
)

var recommendationTriggers = mustCompileAll(
	`\b(?:suggest|recommend|find|show)\s+(?:me\s+)?(?:a\s+|some\s+)?(?:property|properties|apartment|apartments|listing|listings|place|places)\b`,
	`\b(?:any|got any)\s+(?:good\s+)?(?:property|properties|apartment|apartments|listing|listings|place|places)\s+(?:for\s+me|available)\b`,
	`\b(?:what\s+do\s+you\s+have|what\s+properties)\b`,
	`\b(?:looking\s+for|searching\s+for)\s+(?:a\s+|some\s+)?(?:property|apartment|place)\b`,
)

var (
	budgetPattern   = regexp.MustCompile(`(?i)\b(under|below|less than|around|about|over|above|more than)\s+\$?(\d[\d,]*(?:\.\d+)?)\s*(k)?\b`)
	streetPattern   = regexp.MustCompile(`\b(\w+\s+(?:St|Ave|Street|Avenue|Broadway))\b`)
	neighbourhoodRe = regexp.MustCompile(`\b(?:in|near)\s+([A-Z][\w.]*(?:\s+[A-Z][\w.]*)*)`)
)

type BudgetOperator string

const (
	BudgetUnder  BudgetOperator = "under"
	BudgetOver   BudgetOperator = "over"
	BudgetAround BudgetOperator = "around"
)

type Budget struct {
	Operator BudgetOperator `json:"operator"`
	Amount   float64        `json:"amount"`
}

type RecommendationFields struct {
	Budget   *Budget `json:"budget,omitempty"`
	Location string  `json:"location,omitempty"`
}

type RecommendationDetection struct {
	IsRequest    bool
	Confidence   float64
	PatternScore float64
	ModelScore   float64
	Fields       RecommendationFields
}

type RecommendationDetector struct {
	scorer modelScorer
}

func NewRecommendationDetector(provider llm.LLMProvider, log logger.ILogger, timeout time.Duration) *RecommendationDetector {
	return &RecommendationDetector{
		scorer: modelScorer{provider: provider, logger: log, timeout: timeout, module: "RecommendationDetector"},
	}
}

func (d *RecommendationDetector) Detect(ctx context.Context, message string) RecommendationDetection {
	pattern := recommendationMiss
	if matchesAny(recommendationTriggers, message) {
		pattern = recommendationHit
	}
	model := d.scorer.score(ctx, fmt.Sprintf(recommendationConfidencePrompt, message))
	confidence := Combine(pattern, model)

	det := RecommendationDetection{
		IsRequest:    confidence > Threshold,
		Confidence:   confidence,
		PatternScore: pattern,
		ModelScore:   model,
	}
	if det.IsRequest {
		det.Fields = ExtractRecommendationFields(message)
	}
	return det
}

// ExtractRecommendationFields reads a budget ("under $3000", "around 2.5k")
// and a location (a street name or "in <Capitalised Place>").
func ExtractRecommendationFields(message string) RecommendationFields {
	var f RecommendationFields

	if m := budgetPattern.FindStringSubmatch(message); m != nil {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err == nil {
			if strings.EqualFold(m[3], "k") {
				amount *= 1000
			}
			f.Budget = &Budget{Operator: budgetOperator(m[1]), Amount: amount}
		}
	}

	if m := streetPattern.FindStringSubmatch(message); m != nil {
		f.Location = m[1]
	} else if m := neighbourhoodRe.FindStringSubmatch(message); m != nil {
		f.Location = strings.TrimSpace(m[1])
	}
	return f
}

func budgetOperator(word string) BudgetOperator {
	switch strings.ToLower(word) {
	case "under", "below", "less than":
		return BudgetUnder
	case "over", "above", "more than":
		return BudgetOver
	default:
		return BudgetAround
	}
}

const recommendationConfidencePrompt = `Rate how likely it is that the following message asks for property recommendations.
Answer with a single number between 0 and 1 and nothing else.

Message: %s`
