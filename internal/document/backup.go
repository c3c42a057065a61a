package document

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"guildstore/internal/providers"
)

var ErrNothingToBackup = errors.New("no open document to back up")

// BackupManager writes and reads zstd-compressed snapshots of the document.
type BackupManager struct {
	source     SnapshotSource
	compressor CompressorInterface
	logger     providers.Logger
}

func NewBackupManager(source SnapshotSource, compressor CompressorInterface, logger providers.Logger) *BackupManager {
	return &BackupManager{
		source:     source,
		compressor: compressor,
		logger:     logger,
	}
}

func (b *BackupManager) Save(fileName string) error {
	jsonData, err := b.source.Snapshot()
	if err != nil {
		return err
	}
	if jsonData == nil {
		return ErrNothingToBackup
	}

	data, err := b.compressor.Compress(jsonData)
	if err != nil {
		return err
	}
	return writeFileAtomic(fileName, data)
}

func (b *BackupManager) Load(fileName string) (Document, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	decompressed, err := b.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress backup %s: %w", fileName, err)
	}
	return decodeDocument(decompressed)
}

// Restore replaces documentFile with the contents of backupFile. The
// document must not be open in this process while restoring.
func (b *BackupManager) Restore(backupFile, documentFile string) error {
	doc, err := b.Load(backupFile)
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err = writeFileAtomic(documentFile, jsonData); err != nil {
		return err
	}
	b.logger.Infof(providers.TypeStorage, "Restored %d tenants from %s into %s", len(doc), backupFile, documentFile)
	return nil
}

func (b *BackupManager) Close() {
	b.compressor.Close()
}
