package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/dmitrijs2005/tabclient/internal/logging"
)

// Badger stores the session in an embedded Badger database.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens the Badger directory dir. An empty dir keeps everything
// in memory.
func OpenBadger(dir string, logger logging.Logger) (*Badger, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	opts := badger.DefaultOptions(dir).WithLogger(&badgerLogger{l: logger})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		value, ok, err = badgerKV{txn: txn}.Get(ctx, key)
		return err
	})
	return value, ok, err
}

func (b *Badger) Set(ctx context.Context, key, value string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return badgerKV{txn: txn}.Set(ctx, key, value)
	})
}

func (b *Badger) Remove(ctx context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return badgerKV{txn: txn}.Remove(ctx, key)
	})
}

func (b *Badger) Update(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return fn(ctx, badgerKV{txn: txn})
	})
}

func (b *Badger) Close() error {
	return b.db.Close()
}

type badgerKV struct {
	txn *badger.Txn
}

func (k badgerKV) Get(_ context.Context, key string) (string, bool, error) {
	item, err := k.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("badger: get %s: %w", key, err)
	}

	v, err := item.ValueCopy(nil)
	if err != nil {
		return "", false, fmt.Errorf("badger: read %s: %w", key, err)
	}
	return string(v), true, nil
}

func (k badgerKV) Set(_ context.Context, key, value string) error {
	if err := k.txn.Set([]byte(key), []byte(value)); err != nil {
		return fmt.Errorf("badger: set %s: %w", key, err)
	}
	return nil
}

func (k badgerKV) Remove(_ context.Context, key string) error {
	if err := k.txn.Delete([]byte(key)); err != nil {
		return fmt.Errorf("badger: delete %s: %w", key, err)
	}
	return nil
}

// badgerLogger forwards Badger's printf-style logging to our Logger.
type badgerLogger struct {
	l logging.Logger
}

func (b *badgerLogger) Errorf(format string, args ...any) {
	b.l.Error(context.Background(), fmt.Sprintf(format, args...), "component", "badger")
}

func (b *badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn(context.Background(), fmt.Sprintf(format, args...), "component", "badger")
}

func (b *badgerLogger) Infof(format string, args ...any) {
	b.l.Debug(context.Background(), fmt.Sprintf(format, args...), "component", "badger")
}

func (b *badgerLogger) Debugf(format string, args ...any) {
	b.l.Debug(context.Background(), fmt.Sprintf(format, args...), "component", "badger")
}
