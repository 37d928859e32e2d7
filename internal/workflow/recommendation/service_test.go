package recommendation

import (
	"context"
	"errors"
	"testing"
	"time"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/model"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/repository/specification"
	"okada-agent-be/internal/repository/unitofwork"
	"okada-agent-be/pkg/agent"
	"okada-agent-be/pkg/database"
	"okada-agent-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type promptLLM struct {
	reply   string
	err     error
	prompts []string
}

func (p *promptLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p *promptLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return p.reply, p.err
}

func newFactory(t *testing.T, properties ...*entity.Property) unitofwork.RepositoryFactory {
	t.Helper()
	db, err := database.NewInMemorySQLite()
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	factory := unitofwork.NewRepositoryFactory(db)
	if len(properties) > 0 {
		repo := factory.NewUnitOfWork(context.Background()).PropertyRepository()
		require.NoError(t, repo.CreateBulk(context.Background(), properties))
	}
	return factory
}

func listings() []*entity.Property {
	return []*entity.Property{
		{Address: "36 W 36th St", Floor: "E3", Suite: "300", SizeSf: 1200, MonthlyRent: 4000, AssignedAssociate: "Jack Sparrow"},
		{Address: "15 W 38th St", Floor: "P2", Suite: "201", SizeSf: 900, MonthlyRent: 2500, AssignedAssociate: "Ann Bonny"},
		{Address: "200 Broadway", Floor: "5", SizeSf: 700, MonthlyRent: 1800, AssignedAssociate: "Mary Read"},
		{Address: "9 E 40th St", Floor: "2", SizeSf: 2000, MonthlyRent: 6500},
	}
}

func TestService_Recommend(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantAddrs    []string
		wantFallback bool
	}{
		{name: "budget under", query: "suggest a property under $3000", wantAddrs: []string{"200 Broadway", "15 W 38th St"}},
		{name: "budget around", query: "recommend a place around $4k", wantAddrs: []string{"36 W 36th St"}},
		{name: "street", query: "show me listings on 38th St", wantAddrs: []string{"15 W 38th St"}},
		{name: "no match falls back", query: "find me a property under $500", wantAddrs: []string{"200 Broadway", "15 W 38th St", "36 W 36th St"}, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &promptLLM{reply: "I recommend a listing. Would you like me to book a viewing?"}
			svc := NewService(newFactory(t, listings()...), fake, logger.NewNopLogger(), time.Second)

			result := svc.Recommend(context.Background(), "chat-1", []agent.Message{agent.UserMessage(tt.query)})

			assert.Equal(t, fake.reply, result.Message)
			assert.Equal(t, tt.wantFallback, result.Fallback)
			var addrs []string
			for _, p := range result.Properties {
				addrs = append(addrs, p.Address)
			}
			assert.Equal(t, tt.wantAddrs, addrs)
			require.Len(t, fake.prompts, 1)
			assert.Contains(t, fake.prompts[0], "user: "+tt.query)
		})
	}
}

func TestService_PreferencesFromEarlierTurns(t *testing.T) {
	fake := &promptLLM{reply: "How about 15 W 38th St?"}
	svc := NewService(newFactory(t, listings()...), fake, logger.NewNopLogger(), time.Second)

	history := []agent.Message{
		agent.UserMessage("My budget is under $3000"),
		agent.AssistantMessage("Noted. Anything else?"),
		agent.NoticeMessage(agent.NoContextNotice),
		agent.UserMessage("Suggest some properties on 38th St"),
	}
	result := svc.Recommend(context.Background(), "chat-1", history)

	assert.Equal(t, "under", result.Preferences.BudgetOperator)
	assert.Equal(t, 3000.0, result.Preferences.BudgetAmount)
	assert.Equal(t, "38th St", result.Preferences.Location)
	require.Len(t, result.Properties, 1)
	assert.NotContains(t, fake.prompts[0], agent.NoContextNotice)
	assert.Contains(t, fake.prompts[0], "Assigned Associate: Ann Bonny")
}

func TestService_RecordsSession(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t, listings()...)
	svc := NewService(factory, &promptLLM{reply: "Try 200 Broadway."}, logger.NewNopLogger(), time.Second)

	svc.Recommend(ctx, "chat-1", []agent.Message{agent.UserMessage("suggest a property under $2000")})
	svc.Recommend(ctx, "chat-1", []agent.Message{agent.UserMessage("suggest a property under $3000")})

	repo := factory.NewUnitOfWork(ctx).RecommendationSessionRepository()
	session, err := repo.FindOne(ctx, specification.ByUserID{UserID: "chat-1"})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "suggest a property under $3000", session.Query)
	assert.Len(t, session.RecommendedPropertyIds, 2)
	assert.Equal(t, "Try 200 Broadway.", session.Response)
}

func TestService_Failures(t *testing.T) {
	query := []agent.Message{agent.UserMessage("suggest a property")}

	t.Run("empty database", func(t *testing.T) {
		fake := &promptLLM{reply: "unused"}
		svc := NewService(newFactory(t), fake, logger.NewNopLogger(), time.Second)
		result := svc.Recommend(context.Background(), "chat-1", query)
		assert.Equal(t, NoPropertiesMessage, result.Message)
		assert.Empty(t, fake.prompts)
	})

	t.Run("model error", func(t *testing.T) {
		fake := &promptLLM{err: errors.New("quota exceeded")}
		svc := NewService(newFactory(t, listings()...), fake, logger.NewNopLogger(), time.Second)
		result := svc.Recommend(context.Background(), "chat-1", query)
		assert.Equal(t, FailedMessage, result.Message)
	})
}
