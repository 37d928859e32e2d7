package recommendation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/repository/specification"
	"okada-agent-be/internal/repository/unitofwork"
	"okada-agent-be/pkg/agent"
	"okada-agent-be/pkg/intent"
	"okada-agent-be/pkg/llm"
)

const (
	NoPropertiesMessage = "I'm sorry, but I couldn't find any properties in our database right now. Please check back later."
	FailedMessage       = "I'm sorry, I encountered an error while looking for recommendations. Please try again."

	matchLimit    = 5
	fallbackLimit = 3
	aroundSpread  = 0.1
)

// Result is the reply for one recommendation turn.
type Result struct {
	Message     string
	Properties  []*entity.Property
	Preferences entity.RecommendationPreferences
	Fallback    bool
}

type Service struct {
	uowFactory unitofwork.RepositoryFactory
	llm        llm.LLMProvider
	logger     logger.ILogger
	timeout    time.Duration
}

func NewService(uowFactory unitofwork.RepositoryFactory, provider llm.LLMProvider, log logger.ILogger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{uowFactory: uowFactory, llm: provider, logger: log, timeout: timeout}
}

// Recommend picks one listing for the conversation in history and offers a
// viewing. It never returns an error; failures become an apology.
func (s *Service) Recommend(ctx context.Context, userID string, history []agent.Message) Result {
	prefs := preferencesFrom(history)

	properties, fallback, err := s.findProperties(ctx, prefs)
	if err != nil {
		s.logger.Error("Recommendation", "property lookup failed", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return Result{Message: FailedMessage, Preferences: prefs}
	}
	if len(properties) == 0 {
		return Result{Message: NoPropertiesMessage, Preferences: prefs}
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	answer, err := s.llm.Generate(genCtx, buildPrompt(history, properties), llm.WithTemperature(0.3))
	if err != nil || strings.TrimSpace(answer) == "" {
		s.logger.Error("Recommendation", "generation failed", map[string]interface{}{"user_id": userID, "error": fmt.Sprint(err)})
		return Result{Message: FailedMessage, Properties: properties, Preferences: prefs, Fallback: fallback}
	}

	result := Result{
		Message:     strings.TrimSpace(answer),
		Properties:  properties,
		Preferences: prefs,
		Fallback:    fallback,
	}
	if err := s.record(ctx, userID, lastUserQuery(history), result); err != nil {
		s.logger.Warn("Recommendation", "failed to record recommendation", map[string]interface{}{"user_id": userID, "error": err.Error()})
	}
	return result
}

// findProperties queries with the user's constraints and falls back to a few
// general listings when nothing matches.
func (s *Service) findProperties(ctx context.Context, prefs entity.RecommendationPreferences) ([]*entity.Property, bool, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).PropertyRepository()

	specs := []specification.Specification{
		specification.OrderBy{Field: "monthly_rent"},
		specification.Pagination{Limit: matchLimit},
	}
	switch intent.BudgetOperator(prefs.BudgetOperator) {
	case intent.BudgetUnder:
		specs = append(specs, specification.RentBelow{Amount: prefs.BudgetAmount})
	case intent.BudgetOver:
		specs = append(specs, specification.RentAbove{Amount: prefs.BudgetAmount})
	case intent.BudgetAround:
		specs = append(specs, specification.RentBetween{
			Min: prefs.BudgetAmount * (1 - aroundSpread),
			Max: prefs.BudgetAmount * (1 + aroundSpread),
		})
	}
	if prefs.Location != "" {
		specs = append(specs, specification.AddressContainsAny{Keywords: []string{prefs.Location}})
	}

	properties, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, false, err
	}
	if len(properties) > 0 {
		return properties, false, nil
	}

	s.logger.Info("Recommendation", "no exact match, falling back to general listings", map[string]interface{}{"location": prefs.Location, "budget": prefs.BudgetAmount})
	properties, err = repo.FindAll(ctx,
		specification.OrderBy{Field: "monthly_rent"},
		specification.Pagination{Limit: fallbackLimit},
	)
	return properties, true, err
}

func (s *Service) record(ctx context.Context, userID, query string, result Result) error {
	repo := s.uowFactory.NewUnitOfWork(ctx).RecommendationSessionRepository()

	session, err := repo.FindOne(ctx, specification.ByUserID{UserID: userID})
	if err != nil {
		return err
	}
	if session == nil {
		session = &entity.RecommendationSession{UserId: userID}
	}

	ids := make([]string, len(result.Properties))
	for i, p := range result.Properties {
		ids[i] = p.Id.String()
	}
	session.Query = query
	session.Preferences = result.Preferences
	session.RecommendedPropertyIds = ids
	session.Response = result.Message
	return repo.Upsert(ctx, session)
}

// preferencesFrom reads budget and location from the latest user message,
// filling gaps from earlier ones.
func preferencesFrom(history []agent.Message) entity.RecommendationPreferences {
	var prefs entity.RecommendationPreferences
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Role != agent.RoleUser {
			continue
		}
		f := intent.ExtractRecommendationFields(m.Content)
		if prefs.BudgetOperator == "" && f.Budget != nil {
			prefs.BudgetOperator = string(f.Budget.Operator)
			prefs.BudgetAmount = f.Budget.Amount
		}
		if prefs.Location == "" {
			prefs.Location = f.Location
		}
	}
	return prefs
}

func lastUserQuery(history []agent.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == agent.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
