package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(id string, started time.Time) Run {
	return Run{
		ID:         id,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Outcome:    "success",
		ConfigPath: "/work/config.xml",
		Platforms: []PlatformRun{
			{Platform: "unity", Version: "1.4.0", Commit: "abc123", ScriptRan: true, FilesCopied: 12, Status: "ok"},
			{Platform: "android", Version: "2.0.0", ScriptRan: true, ExitCode: 1, Status: "generator_failed"},
			{Platform: "ios", Version: "", Status: "no_files"},
		},
	}
}

func TestSQLiteStore_RecordAndRecent(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().Truncate(time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, sampleRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Minute)))

	require.Len(t, runs[0].Platforms, 3)
	assert.Equal(t, sampleRun("x", base).Platforms, runs[0].Platforms)
}

func TestSQLiteStore_DuplicateIDFails(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	run := sampleRun("same", time.Now())
	require.NoError(t, store.Record(ctx, run))
	assert.Error(t, store.Record(ctx, run))

	runs, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestNoopStore(t *testing.T) {
	var s Store = NoopStore{}
	require.NoError(t, s.Record(context.Background(), Run{}))
	runs, err := s.Recent(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, s.Close())
}
