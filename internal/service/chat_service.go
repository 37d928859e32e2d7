package service

import (
	"context"
	"fmt"

	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/internal/workflow/appointment"
	"okada-agent-be/internal/workflow/recommendation"
	"okada-agent-be/pkg/agent"
	"okada-agent-be/pkg/classifier"
	"okada-agent-be/pkg/events"
	"okada-agent-be/pkg/intent"
)

const (
	pathAppointment    = "appointment_workflow"
	pathRecommendation = "property_workflow"
)

type IChatService interface {
	SendMessage(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, sessionId string) ([]*dto.ChatHistoryResponse, error)
	ClearSession(ctx context.Context, sessionId string) error
}

// ChatDependencies are the collaborators of the chat service. Transcript
// and Events may be nil.
type ChatDependencies struct {
	History           contract.SessionHistoryStore
	Classifier        *classifier.FastClassifier
	Appointments      *appointment.Manager
	AppointmentIntent *intent.AppointmentDetector
	RecommendIntent   *intent.RecommendationDetector
	Recommendations   *recommendation.Service
	Router            *agent.Router
	Transcript        ITranscriptService
	Events            EventPublisher
	Logger            logger.ILogger
}

type chatService struct {
	deps ChatDependencies
}

func NewChatService(deps ChatDependencies) IChatService {
	return &chatService{deps: deps}
}

// turnOutcome is what one dispatch branch produced.
type turnOutcome struct {
	strategy    classifier.ProcessingStrategy
	replies     []agent.Message
	path        []string
	appointment *dto.AppointmentResponse
}

func (s *chatService) SendMessage(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	ctx = agent.WithCorrelationID(ctx, req.SessionId)

	history, err := s.history(ctx, req)
	if err != nil {
		return nil, err
	}

	userMsg := agent.UserMessage(req.Message)
	messages := append(append(make([]agent.Message, 0, len(history)+3), history...), userMsg)

	classification := s.deps.Classifier.Classify(req.Message, &classifier.UserContext{
		PreviousInteractions: countUserTurns(history),
	})
	s.deps.Logger.Info("ChatService", "Message classified", map[string]interface{}{
		"session_id": req.SessionId,
		"type":       string(classification.MessageType),
		"strategy":   string(classification.ProcessingStrategy),
		"confidence": classification.Confidence,
	})

	outcome, err := s.dispatch(ctx, req, messages, classification)
	if err != nil {
		return nil, err
	}

	appended := append([]agent.Message{userMsg}, outcome.replies...)
	// the turn is written even when the caller has gone away
	persistCtx := context.WithoutCancel(ctx)
	if err := s.deps.History.Append(persistCtx, req.SessionId, appended...); err != nil {
		return nil, fmt.Errorf("append session history: %w", err)
	}
	s.afterTurn(persistCtx, req.SessionId, outcome, appended)

	all := append(messages, outcome.replies...)
	return &dto.SendChatResponse{
		SessionId:   req.SessionId,
		Strategy:    string(outcome.strategy),
		MessageType: string(classification.MessageType),
		Confidence:  classification.Confidence,
		Path:        outcome.path,
		Replies:     toMessageDTOs(outcome.replies),
		Messages:    toMessageDTOs(all),
		Appointment: outcome.appointment,
	}, nil
}

func (s *chatService) history(ctx context.Context, req *dto.SendChatRequest) ([]agent.Message, error) {
	if len(req.Messages) > 0 {
		return fromMessageDTOs(req.Messages), nil
	}
	history, err := s.deps.History.Load(ctx, req.SessionId)
	if err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}
	return history, nil
}

// dispatch picks the capability for the message. An open booking always
// gets the reply; otherwise the fast classification decides, with the deep
// detectors settling the fallback cases.
func (s *chatService) dispatch(ctx context.Context, req *dto.SendChatRequest, messages []agent.Message, c classifier.Classification) (*turnOutcome, error) {
	active, err := s.deps.Appointments.ActiveSession(ctx, req.SessionId)
	if err != nil {
		return nil, fmt.Errorf("find active appointment: %w", err)
	}
	if active != nil {
		resp := s.deps.Appointments.Continue(ctx, active.Id, req.Message)
		return appointmentOutcome(classifier.AppointmentWorkflow, resp), nil
	}

	switch c.ProcessingStrategy {
	case classifier.MaintenanceWorkflow:
		resp := s.deps.Appointments.Start(ctx, req.SessionId, req.Message, appointment.KindMaintenance)
		return appointmentOutcome(c.ProcessingStrategy, resp), nil

	case classifier.AppointmentWorkflow:
		resp := s.deps.Appointments.Start(ctx, req.SessionId, req.Message, appointment.KindViewing)
		return appointmentOutcome(c.ProcessingStrategy, resp), nil

	case classifier.PropertyWorkflow:
		return s.recommend(ctx, req.SessionId, messages), nil

	case classifier.FallbackResponse:
		if s.deps.AppointmentIntent != nil {
			if det := s.deps.AppointmentIntent.Detect(ctx, req.Message); det.IsRequest {
				resp := s.deps.Appointments.Start(ctx, req.SessionId, req.Message, appointment.KindViewing)
				return appointmentOutcome(classifier.AppointmentWorkflow, resp), nil
			}
		}
		if c.MessageType == classifier.PropertySearch && s.deps.RecommendIntent != nil {
			if det := s.deps.RecommendIntent.Detect(ctx, req.Message); det.IsRequest {
				return s.recommend(ctx, req.SessionId, messages), nil
			}
		}
	}

	return s.route(ctx, req, messages, c.ProcessingStrategy)
}

func (s *chatService) recommend(ctx context.Context, sessionId string, messages []agent.Message) *turnOutcome {
	result := s.deps.Recommendations.Recommend(ctx, sessionId, messages)
	return &turnOutcome{
		strategy: classifier.PropertyWorkflow,
		replies:  []agent.Message{agent.AssistantMessage(result.Message)},
		path:     []string{pathRecommendation},
	}
}

func (s *chatService) route(ctx context.Context, req *dto.SendChatRequest, messages []agent.Message, strategy classifier.ProcessingStrategy) (*turnOutcome, error) {
	result, err := s.deps.Router.Run(ctx, agent.TurnState{
		Messages:     messages,
		SessionID:    req.SessionId,
		UseRAG:       req.UseRAG,
		UseWebSearch: req.UseWebSearch,
		Strategy:     strategy,
	})
	if err != nil {
		return nil, err
	}

	path := make([]string, 0, len(result.Path))
	for _, n := range result.Path {
		path = append(path, string(n))
	}
	return &turnOutcome{
		strategy: strategy,
		replies:  result.Appended,
		path:     path,
	}, nil
}

func appointmentOutcome(strategy classifier.ProcessingStrategy, resp appointment.Response) *turnOutcome {
	return &turnOutcome{
		strategy:    strategy,
		replies:     []agent.Message{agent.AssistantMessage(resp.Message)},
		path:        []string{pathAppointment},
		appointment: ToAppointmentResponse(resp),
	}
}

// afterTurn feeds the durable transcript and the event bus. Both are best effort.
func (s *chatService) afterTurn(ctx context.Context, sessionId string, outcome *turnOutcome, appended []agent.Message) {
	if s.deps.Transcript != nil {
		if err := s.deps.Transcript.Record(ctx, sessionId, appended); err != nil {
			s.deps.Logger.Warn("ChatService", "Failed to queue transcript", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		}
	}
	if s.deps.Events != nil {
		event := events.NewTurnCompleted(sessionId, string(outcome.strategy), outcome.path, len(appended))
		if err := s.deps.Events.Publish(ctx, event); err != nil {
			s.deps.Logger.Warn("ChatService", "Failed to publish turn_completed", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		}
	}
}

func (s *chatService) GetHistory(ctx context.Context, sessionId string) ([]*dto.ChatHistoryResponse, error) {
	if s.deps.Transcript != nil {
		return s.deps.Transcript.GetHistory(ctx, sessionId)
	}
	history, err := s.deps.History.Load(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ChatHistoryResponse, 0, len(history))
	for _, m := range history {
		res = append(res, &dto.ChatHistoryResponse{Role: string(m.Role), Kind: string(m.Kind), Content: m.Content})
	}
	return res, nil
}

// ClearSession forgets the working history. The durable transcript is kept.
func (s *chatService) ClearSession(ctx context.Context, sessionId string) error {
	return s.deps.History.Clear(ctx, sessionId)
}

func countUserTurns(history []agent.Message) int {
	n := 0
	for _, m := range history {
		if m.Role == agent.RoleUser {
			n++
		}
	}
	return n
}
