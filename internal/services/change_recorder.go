package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Ex1s9/game-catalog/internal/infrastructure/journal"
)

// RecorderConfig tunes the journal retention sweep.
type RecorderConfig struct {
	Retention     time.Duration
	SweepInterval time.Duration
}

// ChangeRecorder writes catalog change entries to the local journal and
// periodically evicts entries past retention. Implements
// usecase.ChangeJournal.
type ChangeRecorder struct {
	store  *journal.Store
	cfg    RecorderConfig
	logger *zap.Logger
	stopCh chan struct{}
}

func NewChangeRecorder(store *journal.Store, cfg RecorderConfig, logger *zap.Logger) *ChangeRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Hour
	}
	return &ChangeRecorder{
		store:  store,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// RecordChange appends one entry. Marshal failures are reported, journal
// write failures are the caller's to log; either way the mutation that
// produced the change has already committed.
func (r *ChangeRecorder) RecordChange(ctx context.Context, name, gameID, actorID string, payload interface{}) error {
	if r == nil || r.store == nil {
		return nil
	}

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = data
	}

	return r.store.Append(journal.Entry{
		GameID:  gameID,
		ActorID: actorID,
		Name:    name,
		Payload: raw,
	})
}

// Recent exposes the newest entries for the admin surface.
func (r *ChangeRecorder) Recent(limit int) ([]journal.Entry, error) {
	if r == nil || r.store == nil {
		return nil, nil
	}
	return r.store.Recent(limit)
}

// Start launches the retention sweeper.
func (r *ChangeRecorder) Start() {
	go r.loop()
}

// Stop halts the sweeper.
func (r *ChangeRecorder) Stop() {
	close(r.stopCh)
}

func (r *ChangeRecorder) loop() {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-r.cfg.Retention)
			if err := r.store.Cleanup(cutoff); err != nil {
				r.logger.Warn("journal cleanup failed", zap.Error(err))
			}
		case <-r.stopCh:
			return
		}
	}
}
