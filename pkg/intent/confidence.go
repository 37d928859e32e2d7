package intent

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"time"

	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/pkg/llm"
)

// Weights applied to the regex score and the model score. A detection is a
// request when the blend is strictly above Threshold.
const (
	PatternWeight = 0.7
	ModelWeight   = 0.3
	Threshold     = 0.6
)

var numberPattern = regexp.MustCompile(`(\d+\.?\d*)`)

// ParseConfidence pulls the first number out of a model reply and clamps it
// to [0, 1]. Plain numbers and JSON objects such as {"confidence": 0.8} both
// work. The boolean is false when nothing numeric was found.
func ParseConfidence(raw string) (float64, bool) {
	m := numberPattern.FindString(raw)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return math.Max(0, math.Min(1, v)), true
}

// Combine blends a regex score with a model score.
func Combine(pattern, model float64) float64 {
	return PatternWeight*pattern + ModelWeight*model
}

type modelScorer struct {
	provider llm.LLMProvider
	logger   logger.ILogger
	timeout  time.Duration
	module   string
}

// score asks the model for a confidence. Any failure yields 0.
func (s modelScorer) score(ctx context.Context, prompt string) float64 {
	if s.provider == nil {
		return 0
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0), llm.WithMaxTokens(10))
	if err != nil {
		s.logger.Warn(s.module, "confidence call failed", map[string]interface{}{"error": err.Error()})
		return 0
	}

	v, ok := ParseConfidence(raw)
	if !ok {
		s.logger.Warn(s.module, "unparsable confidence", map[string]interface{}{"raw": raw})
	}
	return v
}
