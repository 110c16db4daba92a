package snapshot

import (
	"context"
	"emd/internal/models"
	"emd/internal/services"
	"emd/internal/structures"
	"emd/internal/testutil"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededQueryService(t *testing.T) services.QueryServiceInterface {
	t.Helper()
	client := &testutil.MockUpstream{
		StatsFn: func(_ context.Context, _ int, _ string) (models.EmailStats, error) {
			return models.EmailStats{Total: 42, Read: 30, AvgResponse: 1.5}, nil
		},
		ActivityFn: func(_ context.Context, _ int) ([]models.ActivityBucket, error) {
			return []models.ActivityBucket{{Time: "Now", Emails: 3, Hour: 0}}, nil
		},
	}
	conf := &structures.Config{Window: structures.WindowConfig{DefaultHours: 24}}
	qs := services.NewQueryService(conf, client, &testutil.MockLogger{}, &testutil.MockMetrics{})
	qs.CommitWindowValue("48")
	qs.Refresh(context.Background(), "a@b.com")
	return qs
}

func emptyQueryService() services.QueryServiceInterface {
	conf := &structures.Config{Window: structures.WindowConfig{DefaultHours: 24}}
	return services.NewQueryService(conf, &testutil.MockUpstream{}, &testutil.MockLogger{}, &testutil.MockMetrics{})
}

type fixedAccounts struct {
	services.AccountServiceInterface
	email string
}

func (f *fixedAccounts) Selected() string { return f.email }

func TestSaveAndLoadRoundTrip(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	path := filepath.Join(t.TempDir(), "snapshot.dat")
	saver := NewFileManager(compressor, seededQueryService(t), &fixedAccounts{email: "a@b.com"}, &testutil.MockLogger{})
	require.NoError(t, saver.SaveToFile(path))

	restored := emptyQueryService()
	loader := NewFileManager(compressor, restored, &fixedAccounts{}, &testutil.MockLogger{})
	require.NoError(t, loader.LoadFromFile(path))

	snap := restored.Snapshot()
	assert.Equal(t, 42, snap.Stats.Total)
	require.Len(t, snap.Activity, 1)
	assert.Equal(t, 3, snap.Activity[0].Emails)
	assert.Equal(t, models.TimeWindow{Value: 48, Unit: models.UnitHours}, restored.Window())
}

func TestLoadFromFile_MissingFileIsCleanStart(t *testing.T) {
	restored := emptyQueryService()
	fm := NewFileManager(&testutil.MockCompressor{}, restored, &fixedAccounts{}, &testutil.MockLogger{})

	err := fm.LoadFromFile(filepath.Join(t.TempDir(), "absent.dat"))
	require.NoError(t, err)
	assert.Equal(t, 0, restored.Snapshot().Stats.Total)
}

func TestLoadFromFile_CorruptData(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	defer compressor.Close()

	path := filepath.Join(t.TempDir(), "snapshot.dat")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	fm := NewFileManager(compressor, emptyQueryService(), &fixedAccounts{}, &testutil.MockLogger{})
	assert.Error(t, fm.LoadFromFile(path))
}

func TestLoadFromFile_UnknownVersionIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.dat")
	payload, err := json.Marshal(&models.SnapshotFile{
		Version: 99,
		Stats:   models.EmailStats{Total: 7},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0644))

	restored := emptyQueryService()
	fm := NewFileManager(&testutil.MockCompressor{}, restored, &fixedAccounts{}, &testutil.MockLogger{})

	require.NoError(t, fm.LoadFromFile(path))
	assert.Equal(t, 0, restored.Snapshot().Stats.Total)
}

func TestSaveToFile_NoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.dat")
	fm := NewFileManager(&testutil.MockCompressor{}, seededQueryService(t), &fixedAccounts{email: "a@b.com"}, &testutil.MockLogger{})

	require.NoError(t, fm.SaveToFile(path))

	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
