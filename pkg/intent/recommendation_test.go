package intent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okada-agent-be/internal/pkg/logger"
)

func TestRecommendationDetector_Detect(t *testing.T) {
	d := NewRecommendationDetector(&fakeLLM{reply: "0.8"}, logger.NewNopLogger(), time.Second)

	det := d.Detect(context.Background(), "Can you suggest a property for me under $3,000 near Main St?")
	require.True(t, det.IsRequest)
	assert.InDelta(t, 0.87, det.Confidence, 1e-9)
	require.NotNil(t, det.Fields.Budget)
	assert.Equal(t, BudgetUnder, det.Fields.Budget.Operator)
	assert.InDelta(t, 3000, det.Fields.Budget.Amount, 1e-9)
	assert.Equal(t, "Main St", det.Fields.Location)
}

func TestRecommendationDetector_TriggerAloneIsEnough(t *testing.T) {
	d := NewRecommendationDetector(nil, logger.NewNopLogger(), time.Second)

	assert.True(t, d.Detect(context.Background(), "I'm looking for an apartment, what do you have?").IsRequest)
	assert.False(t, d.Detect(context.Background(), "what is the rent at 5 Elm St").IsRequest)
}

func TestExtractRecommendationFields(t *testing.T) {
	f := ExtractRecommendationFields("something around 2.5k in Brooklyn Heights")
	require.NotNil(t, f.Budget)
	assert.Equal(t, BudgetAround, f.Budget.Operator)
	assert.InDelta(t, 2500, f.Budget.Amount, 1e-9)
	assert.Equal(t, "Brooklyn Heights", f.Location)

	assert.Nil(t, ExtractRecommendationFields("anything nice").Budget)
}
