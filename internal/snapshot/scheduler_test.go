package snapshot

import (
	"emd/internal/structures"
	"emd/internal/testutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schedulerConfig(path string) *structures.Config {
	return &structures.Config{
		Window: structures.WindowConfig{DefaultHours: 24},
		Refresh: structures.RefreshConfig{
			Auto:     true,
			Interval: time.Hour,
		},
		Persistence: structures.Persistence{
			FilePath:     path,
			SaveInterval: time.Hour,
		},
	}
}

func TestScheduler_PersistAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.dat")
	qs := seededQueryService(t)
	accounts := &fixedAccounts{email: "a@b.com"}
	fm := NewFileManager(&testutil.MockCompressor{}, qs, accounts, &testutil.MockLogger{})
	s := NewScheduler(schedulerConfig(path), &testutil.MockLogger{}, qs, accounts, fm)

	require.NoError(t, s.Persist())

	restored := emptyQueryService()
	fm2 := NewFileManager(&testutil.MockCompressor{}, restored, &fixedAccounts{}, &testutil.MockLogger{})
	s2 := NewScheduler(schedulerConfig(path), &testutil.MockLogger{}, restored, &fixedAccounts{}, fm2)

	require.NoError(t, s2.Restore())
	assert.Equal(t, 42, restored.Snapshot().Stats.Total)
}

func TestScheduler_RestoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.dat")
	qs := emptyQueryService()
	fm := NewFileManager(&testutil.MockCompressor{}, qs, &fixedAccounts{}, &testutil.MockLogger{})
	s := NewScheduler(schedulerConfig(path), &testutil.MockLogger{}, qs, &fixedAccounts{}, fm)

	assert.NoError(t, s.Restore())
}

func TestScheduler_InitAndStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.dat")
	qs := emptyQueryService()
	fm := NewFileManager(&testutil.MockCompressor{}, qs, &fixedAccounts{}, &testutil.MockLogger{})
	s := NewScheduler(schedulerConfig(path), &testutil.MockLogger{}, qs, &fixedAccounts{}, fm)

	s.Init()
	s.Stop()
}
