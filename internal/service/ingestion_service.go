package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/repository/contract"
	"okada-agent-be/internal/repository/unitofwork"
	"okada-agent-be/pkg/agent"
	"okada-agent-be/pkg/embedding"
	"okada-agent-be/pkg/events"
	"okada-agent-be/pkg/ingest"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const IngestTopic = "ingest_session_file"

// EventPublisher is the slice of the NATS publisher the services use.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IIngestionService interface {
	AttachFile(ctx context.Context, sessionId string, req *dto.AttachFileRequest) (*dto.FileInfoResponse, error)
	GetFileInfo(ctx context.Context, sessionId string) (*dto.FileInfoResponse, error)
	DetachFile(ctx context.Context, sessionId string) error
	// Ingest parses, embeds and stores a file for a session, replacing
	// whatever the session had indexed before. It returns the chunk count.
	Ingest(ctx context.Context, sessionId, filePath, fileType string) (int, error)
	Consume(ctx context.Context) error
}

type ingestionService struct {
	pubSub            *gochannel.GoChannel
	uowFactory        unitofwork.RepositoryFactory
	files             contract.SessionFileStore
	embeddingProvider embedding.EmbeddingProvider
	events            EventPublisher
	logger            logger.ILogger
}

func NewIngestionService(
	pubSub *gochannel.GoChannel,
	uowFactory unitofwork.RepositoryFactory,
	files contract.SessionFileStore,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		pubSub:            pubSub,
		uowFactory:        uowFactory,
		files:             files,
		embeddingProvider: embeddingProvider,
		events:            eventPublisher,
		logger:            log,
	}
}

func (s *ingestionService) AttachFile(ctx context.Context, sessionId string, req *dto.AttachFileRequest) (*dto.FileInfoResponse, error) {
	fileType := ingest.FileType(req.FilePath, req.FileType)
	switch fileType {
	case "csv", "json", "txt", "md":
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unsupported file type %q", fileType))
	}

	stat, err := os.Stat(req.FilePath)
	if err != nil || stat.IsDir() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "file not found")
	}

	info := agent.FileInfo{FileType: fileType, FilePath: req.FilePath}
	if err := s.files.SetSessionFileInfo(ctx, sessionId, info); err != nil {
		return nil, fmt.Errorf("save file info: %w", err)
	}

	payload, err := json.Marshal(dto.PublishIngestFileMessage{
		SessionId: sessionId,
		FilePath:  req.FilePath,
		FileType:  fileType,
	})
	if err != nil {
		return nil, err
	}

	queued := true
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(IngestTopic, msg); err != nil {
		queued = false
		s.logger.Error("IngestionService", "Failed to queue ingestion", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	return &dto.FileInfoResponse{
		SessionId: sessionId,
		FileType:  fileType,
		FilePath:  req.FilePath,
		Queued:    queued,
	}, nil
}

func (s *ingestionService) GetFileInfo(ctx context.Context, sessionId string) (*dto.FileInfoResponse, error) {
	info, err := s.files.GetSessionFileInfo(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "no file attached to this session")
	}
	return &dto.FileInfoResponse{SessionId: sessionId, FileType: info.FileType, FilePath: info.FilePath}, nil
}

func (s *ingestionService) DetachFile(ctx context.Context, sessionId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentChunkRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return fmt.Errorf("delete session documents: %w", err)
	}
	return s.files.DeleteSessionFileInfo(ctx, sessionId)
}

func (s *ingestionService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, IngestTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestionService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestFileMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("IngestionService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	chunks, err := s.Ingest(ctx, payload.SessionId, payload.FilePath, payload.FileType)
	if err != nil {
		s.logger.Error("IngestionService", "Ingestion failed", map[string]interface{}{
			"session_id": payload.SessionId,
			"file":       payload.FilePath,
			"error":      err.Error(),
		})
		// a file that cannot be parsed will not parse on retry either
		if errors.Is(err, ingest.ErrUnsupportedFileType) || errors.Is(err, os.ErrNotExist) {
			msg.Ack()
			return
		}
		msg.Nack()
		return
	}

	if s.events != nil {
		event := events.NewDocumentsIngested(payload.SessionId, payload.FilePath, chunks)
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("IngestionService", "Failed to publish documents_ingested", map[string]interface{}{"error": err.Error()})
		}
	}
	msg.Ack()
}

func (s *ingestionService) Ingest(ctx context.Context, sessionId, filePath, fileType string) (int, error) {
	docs, err := ingest.ParseFile(filePath, fileType)
	if err != nil {
		return 0, err
	}
	s.logger.Info("IngestionService", "File parsed", map[string]interface{}{
		"session_id": sessionId,
		"file":       filePath,
		"documents":  len(docs),
	})

	now := time.Now()
	chunks := make([]*entity.DocumentChunk, 0, len(docs))
	for i, doc := range docs {
		res, err := s.embeddingProvider.Generate(ctx, doc.Text, embedding.TaskRetrievalDocument)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, &entity.DocumentChunk{
			Id:          uuid.New(),
			SessionId:   sessionId,
			Source:      doc.Source,
			RowIndex:    doc.Row,
			RecordIndex: doc.Record,
			ChunkIndex:  i,
			Content:     doc.Text,
			Embedding:   res.Embedding.Values,
			CreatedAt:   now,
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return 0, fmt.Errorf("delete old chunks: %w", err)
	}
	if len(chunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
			return 0, fmt.Errorf("create chunks: %w", err)
		}
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.logger.Info("IngestionService", "Session documents indexed", map[string]interface{}{
		"session_id": sessionId,
		"chunks":     len(chunks),
	})
	return len(chunks), nil
}
