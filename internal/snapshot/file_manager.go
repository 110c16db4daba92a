package snapshot

import (
	"emd/internal/models"
	"emd/internal/providers"
	"emd/internal/services"
	"emd/internal/snapshot/interfaces"
	"os"

	json "github.com/goccy/go-json"
)

// FileManager persists the last good query snapshot so a restart starts
// from stale-but-valid numbers instead of a blank dashboard.
type FileManager struct {
	query      services.QueryServiceInterface
	accounts   services.AccountServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, query services.QueryServiceInterface, accounts services.AccountServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		query:      query,
		accounts:   accounts,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	file := f.query.PersistableSnapshot(f.accounts.Selected())

	jsonData, err := json.Marshal(file)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	out, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = out.Write(data)
	if err != nil {
		out.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = out.Sync(); err != nil {
		out.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = out.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the persisted snapshot. A missing file is a clean
// first start, not an error.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var file models.SnapshotFile
	if err := json.Unmarshal(decompressedData, &file); err != nil {
		return err
	}
	if file.Version != models.SnapshotFileVersion {
		f.logger.Warnf(providers.TypeApp, "Ignoring snapshot file with unknown version %d", file.Version)
		return nil
	}

	f.query.RestoreSnapshot(&file)
	f.logger.Infof(providers.TypeApp, "Restored snapshot for window %dh", file.Window.Hours())
	return nil
}
