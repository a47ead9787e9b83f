package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"harjoitus/internal/models"
	"harjoitus/internal/progress"
	"harjoitus/internal/repository"
)

// BackupVersion is written into every export and checked on import
const BackupVersion = "1.0"

var ErrUnsupportedBackup = errors.New("unsupported backup version")

// BackupData is the JSON export of the local progress
type BackupData struct {
	Version    string                `json:"version"`
	ExportedAt time.Time             `json:"exported_at"`
	Progress   models.PlayerProgress `json:"progress"`
}

// BackupService exports and imports the local progress blob.
// It works on the store directly, so the server should not be running during an import.
type BackupService struct {
	store  progress.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewBackupService(store progress.Store, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{store: store, logger: logger, now: time.Now}
}

func (s *BackupService) load(ctx context.Context) (models.PlayerProgress, error) {
	data, err := s.store.Get(ctx, progress.LocalKey)
	if errors.Is(err, progress.ErrNotFound) || errors.Is(err, repository.ErrNotFound) {
		return models.PlayerProgress{}, nil
	}
	if err != nil {
		return models.PlayerProgress{}, fmt.Errorf("failed to read progress: %w", err)
	}

	var p models.PlayerProgress
	if err := json.Unmarshal(data, &p); err != nil {
		return models.PlayerProgress{}, fmt.Errorf("failed to decode progress: %w", err)
	}
	return p, nil
}

func (s *BackupService) save(ctx context.Context, p models.PlayerProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	// Flag the import as unsynced so the server pushes it over the mirror copy
	if err := progress.PutUnsynced(ctx, s.store, data); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	return nil
}

// Export writes a JSON backup to outputPath
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return s.ExportToWriter(ctx, file)
}

// ExportToWriter writes a JSON backup to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	p, err := s.load(ctx)
	if err != nil {
		return err
	}

	backup := BackupData{
		Version:    BackupVersion,
		ExportedAt: s.now().UTC(),
		Progress:   p,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Info("progress exported",
		zap.Int("best_times", len(p.BestTimes)),
		zap.Int("topics", len(p.Topics)),
	)
	return nil
}

// Import replaces the local progress with the backup at inputPath
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader replaces the local progress with the JSON backup read from r
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedBackup, backup.Version)
	}

	if err := s.save(ctx, backup.Progress); err != nil {
		return err
	}

	s.logger.Info("progress imported",
		zap.Time("exported_at", backup.ExportedAt),
		zap.Int("best_times", len(backup.Progress.BestTimes)),
		zap.Int("topics", len(backup.Progress.Topics)),
	)
	return nil
}

// ExportCSV writes the local progress in the mirror CSV format
func (s *BackupService) ExportCSV(ctx context.Context, w io.Writer) error {
	p, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, err := w.Write(progress.EncodeCSV(p)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ImportCSV replaces the local progress with a CSV snapshot, tagged or legacy
func (s *BackupService) ImportCSV(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read csv: %w", err)
	}
	p, err := progress.ParseCSV(data, s.logger)
	if err != nil {
		return err
	}
	if err := s.save(ctx, p); err != nil {
		return err
	}
	s.logger.Info("progress imported from csv",
		zap.Int("best_times", len(p.BestTimes)),
		zap.Int("topics", len(p.Topics)),
	)
	return nil
}
