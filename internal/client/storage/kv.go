package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tabclient/internal/common"
	"github.com/dmitrijs2005/tabclient/internal/logging"
)

// KV is the get/set/remove contract the session store relies on.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store is a KV that can group writes and owns resources.
type Store interface {
	KV
	// Update runs fn against a transactional view. Writes made through the
	// view become visible together, or not at all when fn returns an error.
	Update(ctx context.Context, fn func(ctx context.Context, kv KV) error) error
	Close() error
}

const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// Options selects and configures a backend for Open.
type Options struct {
	Driver string
	// Path is the SQLite file (or DSN) or the Badger directory.
	Path string
	// Secret, when non-empty, seals every stored value.
	Secret string
	Logger logging.Logger
}

// Open builds the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	var (
		st  Store
		err error
	)

	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverSQLite, "":
		st, err = OpenSQLite(ctx, opts.Path)
	case DriverBadger:
		st, err = OpenBadger(opts.Path, opts.Logger)
	case DriverMemory:
		st = NewMemory()
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownDriver, opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if opts.Secret == "" {
		return st, nil
	}

	sealed, err := Seal(ctx, st, []byte(opts.Secret))
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return sealed, nil
}
