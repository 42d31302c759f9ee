package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
)

func TestTrail_LogAndEntries(t *testing.T) {
	trail := NewTrail(store.NewMemoryStore(), zaptest.NewLogger(t))
	ctx := context.Background()

	assert.NoError(t, trail.LogCreate(ctx, "user-1", ResourceScan, "scan-1", "10.0.0.1", "test-agent"))
	assert.NoError(t, trail.LogUpdate(ctx, "user-1", ResourceProfile, "user-1", "", ""))

	entries, err := trail.Entries(ctx, "user-1", 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, OperationUpdate, entries[0].OperationType)
	assert.Equal(t, ResourceProfile, entries[0].ResourceType)
	assert.Equal(t, OperationCreate, entries[1].OperationType)
	assert.Equal(t, "scan-1", entries[1].ResourceID)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestTrail_EntriesLimit(t *testing.T) {
	trail := NewTrail(store.NewMemoryStore(), zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.NoError(t, trail.LogCreate(ctx, "user-1", ResourceScan, fmt.Sprintf("scan-%d", i), "", ""))
	}

	entries, err := trail.Entries(ctx, "user-1", 3)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "scan-4", entries[0].ResourceID)
}

func TestTrail_CapDropsOldest(t *testing.T) {
	trail := NewTrail(store.NewMemoryStore(), zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 0; i < maxEntriesPerUser+10; i++ {
		assert.NoError(t, trail.LogCreate(ctx, "user-1", ResourceChecklist, fmt.Sprintf("day-%d", i), "", ""))
	}

	entries, err := trail.Entries(ctx, "user-1", 0)
	assert.NoError(t, err)
	assert.Len(t, entries, maxEntriesPerUser)
	assert.Equal(t, fmt.Sprintf("day-%d", maxEntriesPerUser+9), entries[0].ResourceID)
}

func TestTrail_TrailsAreIsolatedPerUser(t *testing.T) {
	trail := NewTrail(store.NewMemoryStore(), zaptest.NewLogger(t))
	ctx := context.Background()

	assert.NoError(t, trail.LogCreate(ctx, "user-1", ResourceScan, "scan-1", "", ""))
	assert.NoError(t, trail.LogCreate(ctx, "user-2", ResourceScan, "scan-2", "", ""))

	entries, err := trail.Entries(ctx, "user-1", 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "scan-1", entries[0].ResourceID)
}

func TestTrail_Clear(t *testing.T) {
	trail := NewTrail(store.NewMemoryStore(), zaptest.NewLogger(t))
	ctx := context.Background()

	assert.NoError(t, trail.LogDelete(ctx, "user-1", ResourceAccount, "user-1", "", ""))
	assert.NoError(t, trail.Clear(ctx, "user-1"))

	entries, err := trail.Entries(ctx, "user-1", 0)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTrail_UnreadablePayloadStartsFresh(t *testing.T) {
	st := store.NewMemoryStore()
	trail := NewTrail(st, zaptest.NewLogger(t))
	ctx := context.Background()

	assert.NoError(t, st.Set(ctx, trailKey("user-1"), []byte("not json")))

	assert.NoError(t, trail.LogCreate(ctx, "user-1", ResourceScan, "scan-1", "", ""))

	entries, err := trail.Entries(ctx, "user-1", 0)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}
