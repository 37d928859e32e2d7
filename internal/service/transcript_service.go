package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/repository/specification"
	"okada-agent-be/internal/repository/unitofwork"
	"okada-agent-be/pkg/agent"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const TranscriptTopic = "persist_transcript"

type ITranscriptService interface {
	// Record queues the messages of one turn for the durable transcript.
	Record(ctx context.Context, sessionId string, messages []agent.Message) error
	Persist(ctx context.Context, payload dto.PublishTranscriptMessage) error
	GetHistory(ctx context.Context, sessionId string) ([]*dto.ChatHistoryResponse, error)
	Consume(ctx context.Context) error
}

type transcriptService struct {
	pubSub     *gochannel.GoChannel
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewTranscriptService(pubSub *gochannel.GoChannel, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ITranscriptService {
	return &transcriptService{
		pubSub:     pubSub,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *transcriptService) Record(ctx context.Context, sessionId string, messages []agent.Message) error {
	if len(messages) == 0 {
		return nil
	}

	payload, err := json.Marshal(dto.PublishTranscriptMessage{
		SessionId: sessionId,
		TurnId:    uuid.NewString(),
		Messages:  toMessageDTOs(messages),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	return s.pubSub.Publish(TranscriptTopic, message.NewMessage(watermill.NewUUID(), payload))
}

func (s *transcriptService) Persist(ctx context.Context, payload dto.PublishTranscriptMessage) error {
	turnId, err := uuid.Parse(payload.TurnId)
	if err != nil {
		return fmt.Errorf("invalid turn id: %w", err)
	}

	rows := make([]*entity.ConversationMessage, 0, len(payload.Messages))
	for i, m := range payload.Messages {
		rows = append(rows, &entity.ConversationMessage{
			Id:        uuid.New(),
			SessionId: payload.SessionId,
			TurnId:    turnId,
			Position:  i,
			Role:      m.Role,
			Kind:      m.Kind,
			Content:   m.Content,
			CreatedAt: payload.CreatedAt,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ConversationMessageRepository().CreateBulk(ctx, rows)
}

func (s *transcriptService) GetHistory(ctx context.Context, sessionId string) ([]*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.TranscriptOrder{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatHistoryResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, &dto.ChatHistoryResponse{
			Id:        r.Id.String(),
			TurnId:    r.TurnId.String(),
			Role:      r.Role,
			Kind:      r.Kind,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		})
	}
	return res, nil
}

func (s *transcriptService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, TranscriptTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var payload dto.PublishTranscriptMessage
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				s.logger.Error("TranscriptService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
				msg.Ack()
				continue
			}
			if err := s.Persist(ctx, payload); err != nil {
				s.logger.Error("TranscriptService", "Failed to persist transcript", map[string]interface{}{
					"session_id": payload.SessionId,
					"error":      err.Error(),
				})
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

func toMessageDTOs(messages []agent.Message) []dto.ChatMessageDTO {
	out := make([]dto.ChatMessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, dto.ChatMessageDTO{Role: string(m.Role), Content: m.Content, Kind: string(m.Kind)})
	}
	return out
}

func fromMessageDTOs(messages []dto.ChatMessageDTO) []agent.Message {
	out := make([]agent.Message, 0, len(messages))
	for _, m := range messages {
		kind := agent.MessageKind(m.Kind)
		if kind == "" {
			kind = agent.KindChat
		}
		out = append(out, agent.Message{Role: agent.Role(m.Role), Content: m.Content, Kind: kind})
	}
	return out
}
