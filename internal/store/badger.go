package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// BadgerConfig holds configuration for the embedded BadgerDB instance.
type BadgerConfig struct {
	// Path is the directory for database files. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM; used by tests and throwaway runs.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// GCInterval is how often value-log GC runs. Zero disables it.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum garbage ratio before a value log is rewritten.
	GCDiscardRatio float64
}

// DefaultBadgerConfig returns production defaults rooted at path.
func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryBadgerConfig returns a configuration for tests.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger adapts zerolog to BadgerDB's Logger interface.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(format, args...)
}

// Badger implements Store on top of BadgerDB.
type Badger struct {
	db     *badger.DB
	log    zerolog.Logger
	stopCh chan struct{}
	doneCh chan struct{}
}

// OpenBadger opens (creating if needed) a BadgerDB store and starts value-log
// GC when the database is persistent.
func OpenBadger(cfg BadgerConfig, log zerolog.Logger) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{log: log})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	b := &Badger{db: db, log: log}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		ratio := cfg.GCDiscardRatio
		if ratio <= 0 || ratio > 1 {
			ratio = 0.5
		}
		b.stopCh = make(chan struct{})
		b.doneCh = make(chan struct{})
		go b.runGC(cfg.GCInterval, ratio)
	}
	return b, nil
}

// Get returns a copy of the value stored under key.
func (b *Badger) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	return out, err
}

// Put stores value under key, replacing any previous value.
func (b *Badger) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Close stops GC and closes the database.
func (b *Badger) Close() error {
	if b.stopCh != nil {
		close(b.stopCh)
		<-b.doneCh
		b.stopCh = nil
	}
	return b.db.Close()
}

func (b *Badger) runGC(interval time.Duration, ratio float64) {
	defer close(b.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-ticker.C:
			// ErrNoRewrite means nothing was worth collecting.
			if err := b.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				b.log.Warn().Err(err).Msg("badger value log GC failed")
			}
		}
	}
}
