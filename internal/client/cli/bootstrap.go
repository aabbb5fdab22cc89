package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/tabclient/internal/client/api"
	"github.com/dmitrijs2005/tabclient/internal/client/config"
	"github.com/dmitrijs2005/tabclient/internal/client/metrics"
	"github.com/dmitrijs2005/tabclient/internal/client/services"
	"github.com/dmitrijs2005/tabclient/internal/client/session"
	"github.com/dmitrijs2005/tabclient/internal/client/storage"
	"github.com/dmitrijs2005/tabclient/internal/logging"
	"github.com/dmitrijs2005/tabclient/internal/netx"
	"github.com/prometheus/client_golang/prometheus"
)

// Bootstrap wires storage, transport, session, API client and services
// from cfg and restores the persisted session. The returned func releases
// the session store.
func Bootstrap(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logOut io.Writer, opts ...Option) (*App, func() error, error) {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)

	store, err := storage.Open(ctx, storage.Options{
		Driver: cfg.StoreDriver,
		Path:   cfg.StorePath,
		Secret: cfg.StoreSecret,
		Logger: logger.With("component", "storage"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}

	rec, err := metrics.NewPrometheus(reg)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("register metrics: %w", err)
	}

	transport, err := netx.NewTransport(cfg.APIURL,
		netx.WithTimeout(cfg.RequestTimeout),
		netx.WithRateLimit(cfg.RequestsPerSecond, 1),
		netx.WithLogger(logger.With("component", "transport")),
		netx.WithRecorder(rec),
	)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	sess := session.New(store, session.NewHTTPGateway(transport),
		session.WithLogger(logger.With("component", "session")),
		session.WithInvalidationRecorder(rec),
	)
	sess.Restore(ctx)

	client := api.New(transport, sess,
		api.WithLogger(logger.With("component", "api")),
		api.WithInvalidationRecorder(rec),
	)

	opts = append([]Option{WithLogger(logger)}, opts...)
	app := NewApp(sess, services.NewTabService(client), opts...)

	logger.Debug(ctx, "client ready", "api_url", cfg.APIURL, "store_driver", cfg.StoreDriver, "authenticated", sess.IsAuthenticated())
	return app, store.Close, nil
}
