package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okada-agent-be/pkg/agent"
)

func TestHistoryStore_AppendAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore(time.Hour)

	empty, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, store.Append(ctx, "s1", agent.UserMessage("hi")))
	require.NoError(t, store.Append(ctx, "s1", agent.NoticeMessage("notice"), agent.AssistantMessage("hello")))
	require.NoError(t, store.Append(ctx, "s2", agent.UserMessage("other")))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []agent.Message{
		agent.UserMessage("hi"),
		agent.NoticeMessage("notice"),
		agent.AssistantMessage("hello"),
	}, got)

	got[0].Content = "mutated"
	again, _ := store.Load(ctx, "s1")
	assert.Equal(t, "hi", again[0].Content)

	require.NoError(t, store.Clear(ctx, "s1"))
	cleared, _ := store.Load(ctx, "s1")
	assert.Empty(t, cleared)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(time.Hour)

	info, err := store.GetSessionFileInfo(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, info)

	require.NoError(t, store.SetSessionFileInfo(ctx, "s1", agent.FileInfo{FileType: "csv", FilePath: "/tmp/a.csv"}))
	info, err = store.GetSessionFileInfo(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.IsCSV())

	require.NoError(t, store.DeleteSessionFileInfo(ctx, "s1"))
	info, _ = store.GetSessionFileInfo(ctx, "s1")
	assert.Nil(t, info)
}

type countingFileStore struct {
	info  *agent.FileInfo
	err   error
	reads int
}

func (c *countingFileStore) GetSessionFileInfo(ctx context.Context, sessionId string) (*agent.FileInfo, error) {
	c.reads++
	return c.info, c.err
}

func (c *countingFileStore) SetSessionFileInfo(ctx context.Context, sessionId string, info agent.FileInfo) error {
	c.info = &info
	return nil
}

func (c *countingFileStore) DeleteSessionFileInfo(ctx context.Context, sessionId string) error {
	c.info = nil
	return nil
}

func TestCachedFileStore(t *testing.T) {
	ctx := context.Background()
	backing := &countingFileStore{}
	store := NewCachedFileStore(backing, time.Minute)

	for i := 0; i < 3; i++ {
		info, err := store.GetSessionFileInfo(ctx, "s1")
		require.NoError(t, err)
		assert.Nil(t, info)
	}
	assert.Equal(t, 1, backing.reads)

	require.NoError(t, store.SetSessionFileInfo(ctx, "s1", agent.FileInfo{FilePath: "/tmp/notes.md"}))
	info, err := store.GetSessionFileInfo(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "/tmp/notes.md", info.FilePath)
	assert.Equal(t, 2, backing.reads)

	backing.err = errors.New("redis down")
	require.NoError(t, store.DeleteSessionFileInfo(ctx, "s1"))
	_, err = store.GetSessionFileInfo(ctx, "s1")
	assert.Error(t, err)
}
