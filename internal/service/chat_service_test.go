package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/model"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/internal/repository/memory"
	"okada-agent-be/internal/repository/unitofwork"
	"okada-agent-be/internal/workflow/appointment"
	"okada-agent-be/internal/workflow/recommendation"
	"okada-agent-be/pkg/agent"
	"okada-agent-be/pkg/classifier"
	"okada-agent-be/pkg/database"
	"okada-agent-be/pkg/events"
	"okada-agent-be/pkg/intent"
	"okada-agent-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM answers confidence prompts with "0" so only patterns count.
type scriptedLLM struct {
	chatReply     string
	generateReply string
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	return s.chatReply, nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if strings.HasPrefix(prompt, "Rate how likely") {
		return "0", nil
	}
	return s.generateReply, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type failingHistory struct{}

func (failingHistory) Load(ctx context.Context, sessionId string) ([]agent.Message, error) {
	return nil, errors.New("redis down")
}

func (failingHistory) Append(ctx context.Context, sessionId string, messages ...agent.Message) error {
	return errors.New("redis down")
}

func (failingHistory) Clear(ctx context.Context, sessionId string) error { return nil }

type chatFixture struct {
	svc       IChatService
	history   contract.SessionHistoryStore
	publisher *recordingPublisher
	factory   unitofwork.RepositoryFactory
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	db, err := database.NewInMemorySQLite()
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	factory := unitofwork.NewRepositoryFactory(db)
	require.NoError(t, factory.NewUnitOfWork(context.Background()).PropertyRepository().CreateBulk(context.Background(), []*entity.Property{
		{Address: "200 Broadway", Floor: "5", SizeSf: 700, MonthlyRent: 1800},
	}))

	log := logger.NewNopLogger()
	fake := &scriptedLLM{chatReply: "answer", generateReply: "200 Broadway fits. Would you like me to book a viewing?"}
	detector := intent.NewAppointmentDetector(fake, intent.NewDateParser(intent.DefaultDateDefaults), log, time.Second)
	manager := appointment.NewManager(appointment.NewRepositoryStore(factory), detector, appointment.DefaultConfig(), log)
	publisher := &recordingPublisher{}
	NewAppointmentService(manager, publisher, nil, log)

	history := memory.NewHistoryStore(time.Hour)
	svc := NewChatService(ChatDependencies{
		History:           history,
		Classifier:        classifier.NewFastClassifier(),
		Appointments:      manager,
		AppointmentIntent: detector,
		RecommendIntent:   intent.NewRecommendationDetector(fake, log, time.Second),
		Recommendations:   recommendation.NewService(factory, fake, log, time.Second),
		Router:            agent.NewRouter(agent.Dependencies{LLM: fake, Logger: log}, agent.DefaultConfig()),
		Events:            publisher,
		Logger:            log,
	})
	return &chatFixture{svc: svc, history: history, publisher: publisher, factory: factory}
}

func TestChatService_GreetingGoesThroughRouter(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	res, err := f.svc.SendMessage(ctx, &dto.SendChatRequest{SessionId: "s1", Message: "hello"})

	require.NoError(t, err)
	assert.Equal(t, string(classifier.QuickResponse), res.Strategy)
	assert.Equal(t, string(classifier.Greeting), res.MessageType)
	require.Len(t, res.Replies, 1)
	assert.Equal(t, "answer", res.Replies[0].Content)
	assert.Contains(t, res.Path, string(agent.NodeGenerateDirect))

	stored, err := f.history.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []agent.Message{agent.UserMessage("hello"), agent.AssistantMessage("answer")}, stored)
	assert.Equal(t, []string{events.TypeTurnCompleted}, f.publisher.types())
}

func TestChatService_AppointmentDialogue(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	first, err := f.svc.SendMessage(ctx, &dto.SendChatRequest{SessionId: "s1", Message: "can we meet tomorrow at the office"})
	require.NoError(t, err)
	assert.Equal(t, string(classifier.AppointmentWorkflow), first.Strategy)
	require.NotNil(t, first.Appointment)
	assert.Equal(t, appointment.StepConfirmation, first.Appointment.StepName)
	assert.Contains(t, first.Replies[0].Content, "(yes/no)")

	second, err := f.svc.SendMessage(ctx, &dto.SendChatRequest{SessionId: "s1", Message: "yes please"})
	require.NoError(t, err)
	require.NotNil(t, second.Appointment)
	assert.Equal(t, appointment.StepConfirmed, second.Appointment.StepName)
	assert.Equal(t, first.Appointment.SessionId, second.Appointment.SessionId)
	assert.Contains(t, f.publisher.types(), events.TypeAppointmentConfirmed)

	// the booking is closed, so the next message is routed normally
	third, err := f.svc.SendMessage(ctx, &dto.SendChatRequest{SessionId: "s1", Message: "hello"})
	require.NoError(t, err)
	assert.Nil(t, third.Appointment)

	stored, _ := f.history.Load(ctx, "s1")
	assert.Len(t, stored, 6)
}

func TestChatService_RecommendationFromFallback(t *testing.T) {
	f := newChatFixture(t)

	res, err := f.svc.SendMessage(context.Background(), &dto.SendChatRequest{SessionId: "s1", Message: "Can you suggest a property for me?"})

	require.NoError(t, err)
	assert.Equal(t, string(classifier.PropertyWorkflow), res.Strategy)
	assert.Equal(t, []string{pathRecommendation}, res.Path)
	assert.Equal(t, "200 Broadway fits. Would you like me to book a viewing?", res.Replies[0].Content)
}

func TestChatService_ExplicitMessagesReplaceStoredHistory(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	require.NoError(t, f.history.Append(ctx, "s1", agent.UserMessage("stored")))

	res, err := f.svc.SendMessage(ctx, &dto.SendChatRequest{
		SessionId: "s1",
		Message:   "hello",
		Messages:  []dto.ChatMessageDTO{{Role: "user", Content: "given"}, {Role: "assistant", Content: "ok"}},
	})

	require.NoError(t, err)
	require.Len(t, res.Messages, 4)
	assert.Equal(t, "given", res.Messages[0].Content)
	assert.Equal(t, "chat", res.Messages[0].Kind)
}

func TestChatService_HistoryFailureIsHard(t *testing.T) {
	f := newChatFixture(t)
	svc := f.svc.(*chatService)
	svc.deps.History = failingHistory{}

	_, err := svc.SendMessage(context.Background(), &dto.SendChatRequest{SessionId: "s1", Message: "hello"})

	assert.Error(t, err)
}

func TestChatService_EventFailureDoesNotFailTurn(t *testing.T) {
	f := newChatFixture(t)
	f.publisher.err = errors.New("nats down")

	res, err := f.svc.SendMessage(context.Background(), &dto.SendChatRequest{SessionId: "s1", Message: "hello"})

	require.NoError(t, err)
	assert.Len(t, res.Replies, 1)
}
