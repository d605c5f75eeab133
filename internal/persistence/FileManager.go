package persistence

import (
	"os"

	json "github.com/goccy/go-json"

	"chd/internal/models"
	"chd/internal/persistence/interfaces"
	"chd/internal/providers"
	"chd/internal/services"
)

// FileManager writes the whole progression state as one zstd-compressed
// JSON snapshot, atomically via tmp file + rename.
type FileManager struct {
	service    services.ProgressionServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.ProgressionServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	storage := f.service.GetSnapshot()

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

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
		// Early deployments wrote plain JSON without compression.
		f.logger.Warnf(providers.TypeApp, "Snapshot is not compressed, trying plain JSON")
		decompressedData = data
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot restore failed")
		return err
	}
	if storage.Users == nil {
		storage.Users = make(map[string]*models.User)
	}
	if storage.Activities == nil {
		storage.Activities = make(map[string]*models.Activity)
	}
	if storage.History == nil {
		storage.History = make(map[string][]*models.XPHistoryEntry)
	}

	f.service.PutSnapshot(&storage)
	return nil
}
