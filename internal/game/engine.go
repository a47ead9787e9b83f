package game

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"harjoitus/internal/metrics"
	"harjoitus/internal/models"
)

// Saver persists a progress snapshot
type Saver interface {
	Save(ctx context.Context, progress models.PlayerProgress) error
}

// Loader reads persisted progress; ok is false when nothing usable was found
type Loader interface {
	Load(ctx context.Context) (progress models.PlayerProgress, ok bool)
}

// Notifier is told about topics completed for the first time
type Notifier interface {
	TopicCompleted(ctx context.Context, topicID string, timeMs int64) error
}

// Engine serialises actions from concurrent requests and persists progress changes
type Engine struct {
	mu      sync.Mutex
	reducer *Reducer
	state   State

	saver    Saver
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewEngine starts at the menu with empty progress. saver and m may be nil.
func NewEngine(reducer *Reducer, saver Saver, m *metrics.Metrics, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		reducer: reducer,
		state:   InitialState(),
		saver:   saver,
		metrics: m,
		logger:  logger,
	}
}

// SetNotifier enables completion notifications
func (e *Engine) SetNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier = n
}

// State returns a snapshot of the current state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() State {
	s := e.state
	s.Progress = e.state.Progress.Clone()
	return s
}

// Dispatch applies a and returns the resulting state.
// On error the state is unchanged and returned as is.
func (e *Engine) Dispatch(ctx context.Context, a Action) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state
	next, err := e.reducer.Reduce(prev, a)
	if err != nil {
		e.logger.Debug("action rejected", zap.String("action", a.name()), zap.Error(err))
		return e.snapshot(), err
	}
	e.state = next

	e.observe(prev, next, a)

	if _, loaded := a.(LoadState); !loaded && !prev.Progress.Equal(next.Progress) {
		// The action is already applied; a client hanging up must not skip persisting it
		e.save(context.WithoutCancel(ctx), next.Progress.Clone())
	}
	if next.Completion != nil && next.Completion != prev.Completion {
		e.notify(ctx, next)
	}

	return e.snapshot(), nil
}

func (e *Engine) observe(prev, next State, a Action) {
	switch a.(type) {
	case Start:
		e.logger.Info("session started",
			zap.String("mode", next.Screen),
			zap.String("topic", next.Session.TopicKey),
			zap.Int("items", len(next.Session.Items)),
		)
		if e.metrics != nil {
			e.metrics.SessionStarted(next.Screen)
		}
	case Submit:
		if e.metrics != nil && next.Feedback != nil {
			e.metrics.Answer(next.Session.Mode, next.Feedback.IsCorrect)
		}
		if next.Completion != nil && prev.Completion == nil {
			perfect := next.Session.WrongCount == 0
			e.logger.Info("session completed",
				zap.String("mode", next.Session.Mode),
				zap.String("topic", next.Session.TopicKey),
				zap.Int64("time_ms", next.Completion.TimeMs),
				zap.Int("accuracy", next.Completion.Accuracy),
				zap.Bool("new_best", next.Completion.NewBest),
				zap.Bool("perfect", perfect),
			)
			if e.metrics != nil {
				e.metrics.SessionCompleted(next.Session.Mode, perfect)
			}
		}
	case ResetProgress:
		e.logger.Info("progress reset")
	}
}

// save runs under e.mu so snapshots reach the local store in dispatch order
func (e *Engine) save(ctx context.Context, progress models.PlayerProgress) {
	if e.saver == nil {
		return
	}
	if err := e.saver.Save(ctx, progress); err != nil {
		e.logger.Error("failed to save progress", zap.Error(err))
	}
}

func (e *Engine) notify(ctx context.Context, s State) {
	if e.notifier == nil || len(s.Completion.NewlyCompleted) == 0 {
		return
	}
	notifier := e.notifier
	timeMs := s.Completion.TimeMs
	topics := s.Completion.NewlyCompleted

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx := context.WithoutCancel(ctx)
		for _, id := range topics {
			if err := notifier.TopicCompleted(ctx, id, timeMs); err != nil {
				e.logger.Warn("failed to send completion notification", zap.String("topic", id), zap.Error(err))
			}
		}
	}()
}

// Bootstrap loads persisted progress once at startup
func (e *Engine) Bootstrap(ctx context.Context, loader Loader) {
	progress, ok := loader.Load(ctx)
	if !ok {
		e.logger.Info("no saved progress, starting fresh")
		return
	}
	if _, err := e.Dispatch(ctx, LoadState{Progress: progress}); err != nil {
		e.logger.Error("failed to load progress", zap.Error(err))
		return
	}
	e.logger.Info("progress loaded",
		zap.Int("best_times", len(progress.BestTimes)),
		zap.Int("topics", len(progress.Topics)),
	)
}

// Wait blocks until background notifications finish
func (e *Engine) Wait() {
	e.wg.Wait()
}
