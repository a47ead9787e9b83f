// Package progress persists player progress: a local store that is always written,
// and a best-effort CSV mirror on a persistence server.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"harjoitus/internal/metrics"
	"harjoitus/internal/models"
)

// Mirror is the remote copy of the progress. RemoteClient implements it.
type Mirror interface {
	Fetch(ctx context.Context) ([]byte, error)
	Push(ctx context.Context, data []byte) error
}

// UnsyncedKey is present while the mirror may be behind the local copy
const UnsyncedKey = "player-progress-unsynced"

var unsynced = []byte("true")

// Adapter saves to the local store synchronously and to the mirror in the background
type Adapter struct {
	local   Store
	remote  Mirror
	metrics *metrics.Metrics
	logger  *zap.Logger

	wg sync.WaitGroup

	// pushMu orders mirror writes; a snapshot older than the last pushed one is dropped
	pushMu     sync.Mutex
	seq        atomic.Uint64
	lastPushed uint64

	// markMu orders marker writes against seq so a stale push never clears a newer marker
	markMu sync.Mutex
}

// NewAdapter creates an adapter; remote and m may be nil
func NewAdapter(local Store, remote Mirror, m *metrics.Metrics, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{local: local, remote: remote, metrics: m, logger: logger}
}

// Save writes progress locally and schedules the mirror write.
// Only the local writes can fail the call.
func (a *Adapter) Save(ctx context.Context, p models.PlayerProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	if a.remote == nil {
		if err := a.local.Put(ctx, LocalKey, data); err != nil {
			return fmt.Errorf("failed to save progress locally: %w", err)
		}
		return nil
	}

	a.markMu.Lock()
	seq := a.seq.Add(1)
	err = PutUnsynced(ctx, a.local, data)
	a.markMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to save progress locally: %w", err)
	}

	a.schedulePush(ctx, seq, EncodeCSV(p))
	return nil
}

func (a *Adapter) schedulePush(ctx context.Context, seq uint64, snapshot []byte) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.push(context.WithoutCancel(ctx), seq, snapshot)
	}()
}

func (a *Adapter) push(ctx context.Context, seq uint64, data []byte) {
	a.pushMu.Lock()
	defer a.pushMu.Unlock()

	if seq < a.lastPushed {
		return
	}
	if err := a.remote.Push(ctx, data); err != nil {
		a.logger.Warn("progress mirror write failed, local copy kept", zap.Error(err))
		a.mirrorFailed()
		return
	}
	a.lastPushed = seq
	a.markSynced(ctx, seq)
	a.logger.Debug("progress mirrored", zap.Int("bytes", len(data)))
}

// markSynced clears the marker unless a newer snapshot was saved meanwhile
func (a *Adapter) markSynced(ctx context.Context, seq uint64) {
	a.markMu.Lock()
	defer a.markMu.Unlock()
	if seq != a.seq.Load() {
		return
	}
	if err := a.local.Delete(ctx, UnsyncedKey); err != nil {
		a.logger.Warn("failed to clear unsynced marker", zap.Error(err))
	}
}

func (a *Adapter) isUnsynced(ctx context.Context) bool {
	data, err := a.local.Get(ctx, UnsyncedKey)
	if err != nil {
		if !isNotFound(err) {
			a.logger.Warn("failed to read unsynced marker", zap.Error(err))
		}
		return false
	}
	return string(data) == string(unsynced)
}

func (a *Adapter) mirrorFailed() {
	if a.metrics != nil {
		a.metrics.MirrorFailure()
	}
}

// Load reads the mirror first, then the local store.
// When the last mirror write did not go through, the local copy wins and is pushed again.
// ok is false when neither holds usable progress.
func (a *Adapter) Load(ctx context.Context) (models.PlayerProgress, bool) {
	if a.remote == nil {
		return a.loadLocal(ctx)
	}

	if a.isUnsynced(ctx) {
		if p, ok := a.loadLocal(ctx); ok {
			a.logger.Info("mirror is behind local progress, pushing local copy")
			a.markMu.Lock()
			seq := a.seq.Add(1)
			a.markMu.Unlock()
			a.schedulePush(ctx, seq, EncodeCSV(p))
			return p, true
		}
	}

	if p, ok := a.loadRemote(ctx); ok {
		return p, true
	}
	return a.loadLocal(ctx)
}

func (a *Adapter) loadRemote(ctx context.Context) (models.PlayerProgress, bool) {
	data, err := a.remote.Fetch(ctx)
	if err != nil {
		if isNotFound(err) {
			a.logger.Debug("no progress on mirror")
		} else {
			a.logger.Warn("progress mirror read failed, using local copy", zap.Error(err))
			a.mirrorFailed()
		}
		return models.PlayerProgress{}, false
	}

	p, err := ParseCSV(data, a.logger)
	if err != nil {
		a.logger.Warn("ignoring unreadable mirror progress", zap.Error(err))
		return models.PlayerProgress{}, false
	}
	return p, true
}

func (a *Adapter) loadLocal(ctx context.Context) (models.PlayerProgress, bool) {
	data, err := a.local.Get(ctx, LocalKey)
	if err != nil {
		if !isNotFound(err) {
			a.logger.Warn("failed to read local progress", zap.Error(err))
		}
		return models.PlayerProgress{}, false
	}

	var p models.PlayerProgress
	if err := json.Unmarshal(data, &p); err != nil {
		a.logger.Warn("ignoring corrupt local progress", zap.Error(err))
		return models.PlayerProgress{}, false
	}
	return p, true
}

// Flush waits for scheduled mirror writes
func (a *Adapter) Flush() {
	a.wg.Wait()
}
