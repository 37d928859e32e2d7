package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"okada-agent-be/internal/dto"
	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/model"
	"okada-agent-be/internal/pkg/logger"
	"okada-agent-be/internal/pkg/mailer"
	"okada-agent-be/internal/repository/memory"
	"okada-agent-be/internal/repository/specification"
	"okada-agent-be/internal/repository/unitofwork"
	"okada-agent-be/internal/workflow/appointment"
	"okada-agent-be/pkg/agent"
	"okada-agent-be/pkg/database"
	"okada-agent-be/pkg/embedding"
	"okada-agent-be/pkg/events"
	"okada-agent-be/pkg/intent"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constantEmbedder struct {
	err   error
	calls int
}

func (c *constantEmbedder) Generate(ctx context.Context, text, taskType string) (*embedding.EmbeddingResponse, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}}}, nil
}

func newTestFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	db, err := database.NewInMemorySQLite()
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return unitofwork.NewRepositoryFactory(db)
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { ps.Close() })
	return ps
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rents.csv")
	require.NoError(t, os.WriteFile(path, []byte("address,rent\n36 W 36th St,4000\n15 W 38th St,2500\n"), 0o644))
	return path
}

func chunkCount(t *testing.T, factory unitofwork.RepositoryFactory, sessionId string) int64 {
	t.Helper()
	n, err := factory.NewUnitOfWork(context.Background()).DocumentChunkRepository().Count(context.Background(), specification.BySessionID{SessionID: sessionId})
	require.NoError(t, err)
	return n
}

func TestIngestionService_IngestReplacesSessionDocuments(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	svc := NewIngestionService(newPubSub(t), factory, memory.NewFileStore(time.Hour), &constantEmbedder{}, nil, logger.NewNopLogger())
	path := writeCSV(t)

	n, err := svc.Ingest(ctx, "s1", path, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.Ingest(ctx, "s1", path, "csv")
	require.NoError(t, err)
	assert.EqualValues(t, 2, chunkCount(t, factory, "s1"))
	assert.EqualValues(t, 0, chunkCount(t, factory, "s2"))
}

func TestIngestionService_EmbeddingFailureKeepsOldDocuments(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	embedder := &constantEmbedder{}
	svc := NewIngestionService(newPubSub(t), factory, memory.NewFileStore(time.Hour), embedder, nil, logger.NewNopLogger())
	path := writeCSV(t)

	_, err := svc.Ingest(ctx, "s1", path, "")
	require.NoError(t, err)

	embedder.err = errors.New("quota")
	_, err = svc.Ingest(ctx, "s1", path, "")
	assert.Error(t, err)
	assert.EqualValues(t, 2, chunkCount(t, factory, "s1"))
}

func TestIngestionService_AttachConsumeDetach(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := newTestFactory(t)
	files := memory.NewFileStore(time.Hour)
	publisher := &recordingPublisher{}
	svc := NewIngestionService(newPubSub(t), factory, files, &constantEmbedder{}, publisher, logger.NewNopLogger())
	require.NoError(t, svc.Consume(ctx))

	res, err := svc.AttachFile(ctx, "s1", &dto.AttachFileRequest{FilePath: writeCSV(t)})
	require.NoError(t, err)
	assert.Equal(t, "csv", res.FileType)
	assert.True(t, res.Queued)

	info, err := files.GetSessionFileInfo(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, info.IsCSV())

	require.Eventually(t, func() bool { return chunkCount(t, factory, "s1") == 2 }, 2*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool { return len(publisher.types()) == 1 }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, events.TypeDocumentsIngested, publisher.types()[0])

	require.NoError(t, svc.DetachFile(ctx, "s1"))
	assert.EqualValues(t, 0, chunkCount(t, factory, "s1"))
	info, err = files.GetSessionFileInfo(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, info)

	_, err = svc.GetFileInfo(ctx, "s1")
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestIngestionService_AttachFileRejects(t *testing.T) {
	svc := NewIngestionService(newPubSub(t), newTestFactory(t), memory.NewFileStore(time.Hour), &constantEmbedder{}, nil, logger.NewNopLogger())

	tests := []struct {
		name string
		req  *dto.AttachFileRequest
	}{
		{name: "unsupported type", req: &dto.AttachFileRequest{FilePath: "/tmp/scan.pdf"}},
		{name: "missing file", req: &dto.AttachFileRequest{FilePath: filepath.Join(t.TempDir(), "gone.csv")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AttachFile(context.Background(), "s1", tt.req)
			var fe *fiber.Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, fiber.StatusBadRequest, fe.Code)
		})
	}
}

func TestTranscriptService_RecordAndHistory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := NewTranscriptService(newPubSub(t), newTestFactory(t), logger.NewNopLogger())
	require.NoError(t, svc.Consume(ctx))

	require.NoError(t, svc.Record(ctx, "s1", []agent.Message{
		agent.UserMessage("what is in my file?"),
		agent.NoticeMessage("nothing found"),
		agent.AssistantMessage("general answer"),
	}))
	require.NoError(t, svc.Record(ctx, "s1", nil))

	var history []*dto.ChatHistoryResponse
	require.Eventually(t, func() bool {
		var err error
		history, err = svc.GetHistory(ctx, "s1")
		return err == nil && len(history) == 3
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "notice", history[1].Kind)
	assert.Equal(t, "general answer", history[2].Content)
	assert.Equal(t, history[0].TurnId, history[2].TurnId)
}

type recordingMailer struct {
	mu   sync.Mutex
	to   [][]string
	err  error
	sent chan struct{}
}

func (m *recordingMailer) SendAppointmentConfirmation(to []string, appt mailer.Appointment) error {
	m.mu.Lock()
	m.to = append(m.to, to)
	m.mu.Unlock()
	if m.sent != nil {
		m.sent <- struct{}{}
	}
	return m.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	frames map[string][]interface{}
}

func (n *recordingNotifier) Send(sessionID string, frame interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.frames == nil {
		n.frames = make(map[string][]interface{})
	}
	n.frames[sessionID] = append(n.frames[sessionID], frame)
}

func TestNotificationService_DeliverConfirmation(t *testing.T) {
	mail := &recordingMailer{}
	notifier := &recordingNotifier{}
	svc := NewNotificationService(nil, mail, notifier, logger.NewNopLogger())
	appt := events.AppointmentConfirmed{
		AppointmentID:  "a1",
		ChatSessionID:  "chat-1",
		Title:          "Property Viewing",
		OrganizerEmail: "agent@okada.test",
		AttendeeEmails: []string{"Agent@okada.test", "tenant@x.test"},
	}

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.DeliverConfirmation(context.Background(), appt))

	assert.Equal(t, [][]string{{"agent@okada.test", "tenant@x.test"}}, mail.to)
	require.Len(t, notifier.frames["chat-1"], 1)
	frame := notifier.frames["chat-1"][0].(AppointmentNotification)
	assert.Equal(t, events.TypeAppointmentConfirmed, frame.Type)

	mail.err = errors.New("smtp down")
	assert.Error(t, svc.DeliverConfirmation(context.Background(), appt))
}

func TestRecipients(t *testing.T) {
	assert.Empty(t, Recipients(events.AppointmentConfirmed{}))
	assert.Equal(t, []string{"a@x.test"}, Recipients(events.AppointmentConfirmed{AttendeeEmails: []string{" a@x.test ", "A@x.test"}}))
}

func TestAppointmentService(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()
	detector := intent.NewAppointmentDetector(nil, intent.NewDateParser(intent.DefaultDateDefaults), log, time.Second)
	manager := appointment.NewManager(appointment.NewRepositoryStore(newTestFactory(t)), detector, appointment.DefaultConfig(), log)
	mail := &recordingMailer{sent: make(chan struct{}, 1)}
	delivery := NewNotificationService(nil, mail, nil, log)
	svc := NewAppointmentService(manager, nil, delivery, log)

	t.Run("malformed id is not found", func(t *testing.T) {
		res := svc.Continue(ctx, "not-a-uuid", &dto.ContinueAppointmentRequest{Message: "yes"})
		assert.False(t, res.Success)
		require.NotNil(t, res.Error)
		assert.Equal(t, appointment.CodeSessionNotFound, res.Error.Code)
	})

	t.Run("maintenance booking confirmed without a bus", func(t *testing.T) {
		start := svc.Start(ctx, &dto.StartAppointmentRequest{
			UserId:      "tenant@x.test",
			Message:     "please fix my heater tomorrow at 10am at 36 W 36th Street",
			Maintenance: true,
		})
		require.True(t, start.Success)
		assert.Contains(t, start.Appointment.Title, "Maintenance Request: heater")

		res := svc.Confirm(ctx, start.SessionId)
		require.True(t, res.Success)
		assert.Equal(t, string(entity.AppointmentConfirmed), res.Status)

		select {
		case <-mail.sent:
		case <-time.After(2 * time.Second):
			t.Fatal("confirmation was not delivered")
		}
		assert.Equal(t, []string{"tenant@x.test"}, mail.to[0])
	})

	t.Run("cancel unknown session succeeds", func(t *testing.T) {
		res := svc.Cancel(ctx, "5f0c2a4e-8d7e-4c1a-9a55-0a4d1d2b3c4e")
		assert.True(t, res.Success)
		assert.Equal(t, appointment.StepCancelled, res.StepName)
	})
}
