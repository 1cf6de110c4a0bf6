package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparklabs/sparkchat/internal/model/chat"
)

func openTestStore(t *testing.T) *GormStore {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAssignsServerFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	stored, err := s.Append(ctx, chat.Turn{Role: chat.RoleUser, Text: "hello"})
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.Timestamp.IsZero())
	assert.Equal(t, chat.RoleUser, stored.Role)
	assert.Equal(t, "hello", stored.Text)
}

func TestAppendKeepsSuppliedTimestamp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	stored, err := s.Append(ctx, chat.Turn{Role: chat.RoleUser, Text: "hi", Timestamp: ts})
	require.NoError(t, err)
	assert.True(t, stored.Timestamp.Equal(ts))
}

func TestAppendRejectsInvalidTurns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Append(ctx, chat.Turn{Role: chat.RoleUser, Text: ""})
	assert.ErrorIs(t, err, ErrInvalidTurn)

	_, err = s.Append(ctx, chat.Turn{Role: chat.Role("narrator"), Text: "hi"})
	assert.ErrorIs(t, err, ErrInvalidTurn)

	turns, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestListAllEmptyLog(t *testing.T) {
	s := openTestStore(t)

	turns, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)
}

func TestListAllOrdersByTimestamp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := s.Append(ctx, chat.Turn{Role: chat.RoleUser, Text: "second", Timestamp: base.Add(time.Minute)})
	require.NoError(t, err)
	_, err = s.Append(ctx, chat.Turn{Role: chat.RoleUser, Text: "first", Timestamp: base})
	require.NoError(t, err)

	turns, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "first", turns[0].Text)
	assert.Equal(t, "second", turns[1].Text)
}

func TestListAllBreaksTimestampTiesByInsertionOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, text := range []string{"a", "b", "c"} {
		_, err := s.Append(ctx, chat.Turn{Role: chat.RoleUser, Text: text, Timestamp: ts})
		require.NoError(t, err)
	}

	turns, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "a", turns[0].Text)
	assert.Equal(t, "b", turns[1].Text)
	assert.Equal(t, "c", turns[2].Text)
}

func TestListAllNormalizesLegacyRole(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Simulate history written before the role tags were unified.
	record := turnRecord{
		ID:        "legacy-turn",
		Role:      "model",
		Text:      "old reply",
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, s.db.Create(&record).Error)

	turns, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, chat.RoleAssistant, turns[0].Role)
}

func TestClearAllIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two"} {
		_, err := s.Append(ctx, chat.Turn{Role: chat.RoleUser, Text: text})
		require.NoError(t, err)
	}

	require.NoError(t, s.ClearAll(ctx))
	require.NoError(t, s.ClearAll(ctx))

	turns, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, turns)
}
