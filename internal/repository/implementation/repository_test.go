package implementation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"okada-agent-be/internal/entity"
	"okada-agent-be/internal/model"
	"okada-agent-be/internal/repository/specification"
	"okada-agent-be/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewInMemorySQLite()
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func intPtr(v int) *int { return &v }

func TestAppointmentSessionRepository_UpsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentSessionRepository(newTestDB(t))

	when := time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)
	session := &entity.AppointmentSession{
		UserId: "chat-1",
		Status: entity.AppointmentCollectingInfo,
		CollectedData: entity.AppointmentData{
			Title:           "Property Viewing",
			DurationMinutes: 60,
		},
		MissingFields: []string{"location", "date_time"},
	}
	require.NoError(t, repo.Upsert(ctx, session))
	require.NotEqual(t, uuid.Nil, session.Id)

	session.Status = entity.AppointmentConfirming
	session.CollectedData.Location = "the office"
	session.CollectedData.Date = &when
	session.MissingFields = nil
	session.ConversationHistory = append(session.ConversationHistory, entity.AppointmentHistoryEntry{Message: "at the office", Timestamp: when})
	require.NoError(t, repo.Upsert(ctx, session))

	all, err := repo.FindAll(ctx, specification.ByUserID{UserID: "chat-1"})
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := repo.FindOne(ctx,
		specification.ByUserID{UserID: "chat-1"},
		specification.ByStatuses{Statuses: []string{string(entity.AppointmentCollectingInfo), string(entity.AppointmentConfirming)}},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.AppointmentConfirming, got.Status)
	assert.Equal(t, "the office", got.CollectedData.Location)
	require.NotNil(t, got.CollectedData.Date)
	assert.True(t, when.Equal(*got.CollectedData.Date))
	assert.Empty(t, got.MissingFields)
	require.Len(t, got.ConversationHistory, 1)
	assert.Equal(t, "at the office", got.ConversationHistory[0].Message)

	missing, err := repo.FindOne(ctx, specification.ByUserID{UserID: "nobody"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDocumentChunkRepository_SearchIsScopedToSession(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentChunkRepository(newTestDB(t))

	require.NoError(t, repo.CreateBulk(ctx, []*entity.DocumentChunk{
		{SessionId: "a", Source: "rents.csv", RowIndex: intPtr(1), Content: "close", Embedding: []float32{1, 0}},
		{SessionId: "a", Source: "rents.csv", RowIndex: intPtr(2), Content: "far", Embedding: []float32{0, 1}},
		{SessionId: "b", Source: "secret.txt", Content: "other tenant", Embedding: []float32{1, 0}},
	}))

	results, err := repo.SearchSimilar(ctx, "a", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "close", results[0].Chunk.Content)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, 1, *results[0].Chunk.RowIndex)
	for _, r := range results {
		assert.Equal(t, "a", r.Chunk.SessionId)
	}

	limited, err := repo.SearchSimilar(ctx, "a", []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := repo.SearchSimilar(ctx, "", []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.DeleteBySessionId(ctx, "a"))
	count, err := repo.Count(ctx, specification.BySessionID{SessionID: "a"})
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = repo.Count(ctx, specification.BySessionID{SessionID: "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPropertyRepository_Filters(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository(newTestDB(t))

	require.NoError(t, repo.CreateBulk(ctx, []*entity.Property{
		{Address: "10 Broadway", MonthlyRent: 2500, SizeSf: 900},
		{Address: "55 Main St", MonthlyRent: 4000, SizeSf: 1500},
		{Address: "3 Park Ave", MonthlyRent: 9000, SizeSf: 4000},
	}))

	cheap, err := repo.FindAll(ctx, specification.RentBelow{Amount: 3000})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "10 Broadway", cheap[0].Address)

	around, err := repo.FindAll(ctx, specification.RentBetween{Min: 3600, Max: 4400})
	require.NoError(t, err)
	require.Len(t, around, 1)
	assert.Equal(t, "55 Main St", around[0].Address)

	streets, err := repo.FindAll(ctx,
		specification.AddressContainsAny{Keywords: []string{"main st", "PARK AVE"}},
		specification.OrderBy{Field: "monthly_rent"},
	)
	require.NoError(t, err)
	require.Len(t, streets, 2)
	assert.Equal(t, "55 Main St", streets[0].Address)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestConversationMessageRepository_TranscriptOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationMessageRepository(newTestDB(t))

	turn := uuid.New()
	require.NoError(t, repo.CreateBulk(ctx, []*entity.ConversationMessage{
		{SessionId: "s", TurnId: turn, Position: 0, Role: "user", Kind: "chat", Content: "question"},
		{SessionId: "s", TurnId: turn, Position: 1, Role: "assistant", Kind: "notice", Content: "notice"},
		{SessionId: "s", TurnId: turn, Position: 2, Role: "assistant", Kind: "chat", Content: "answer"},
		{SessionId: "other", TurnId: uuid.New(), Role: "user", Kind: "chat", Content: "elsewhere"},
	}))

	got, err := repo.FindAll(ctx, specification.BySessionID{SessionID: "s"}, specification.TranscriptOrder{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"question", "notice", "answer"}, []string{got[0].Content, got[1].Content, got[2].Content})
}
