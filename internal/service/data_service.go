package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"harjoitus/internal/models"
	"harjoitus/internal/progress"
	"harjoitus/internal/repository"
)

// DataKey is the kv_store key of the CSV snapshot when it is kept in SQL
const DataKey = "api-data-csv"

// ErrNoData is returned before the first snapshot has been stored
var ErrNoData = errors.New("no data stored")

// DataBackend stores the raw CSV snapshot served on /api/data
type DataBackend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// FileBackend keeps the snapshot in a single CSV file
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}
	return data, nil
}

func (b *FileBackend) Write(_ context.Context, data []byte) error {
	return progress.WriteFileAtomic(b.path, data)
}

// KVBackend keeps the snapshot in the kv_store table
type KVBackend struct {
	repo *repository.KVRepository
}

func NewKVBackend(repo *repository.KVRepository) *KVBackend {
	return &KVBackend{repo: repo}
}

func (b *KVBackend) Read(ctx context.Context) ([]byte, error) {
	data, err := b.repo.Get(ctx, DataKey)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoData
	}
	return data, err
}

func (b *KVBackend) Write(ctx context.Context, data []byte) error {
	return b.repo.Put(ctx, DataKey, data)
}

// DataService validates and stores progress snapshots posted by clients
type DataService struct {
	backend DataBackend
	logger  *zap.Logger
	mu      sync.Mutex
}

func NewDataService(backend DataBackend, logger *zap.Logger) *DataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataService{backend: backend, logger: logger}
}

// Get returns the stored CSV snapshot
func (s *DataService) Get(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Read(ctx)
}

// Put replaces the snapshot after checking that it parses.
// Invalid input wraps progress.ErrMalformedCSV and leaves the stored snapshot untouched.
func (s *DataService) Put(ctx context.Context, data []byte) (models.PlayerProgress, error) {
	parsed, err := progress.ParseCSV(data, s.logger)
	if err != nil {
		return models.PlayerProgress{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Write(ctx, data); err != nil {
		return models.PlayerProgress{}, fmt.Errorf("failed to store data: %w", err)
	}

	s.logger.Debug("progress snapshot stored",
		zap.Int("bytes", len(data)),
		zap.Int("best_times", len(parsed.BestTimes)),
		zap.Int("topics", len(parsed.Topics)),
	)
	return parsed, nil
}
