package cli

import (
	"context"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/config"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/logging"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/notify"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/source"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/store"
)

// openStore opens the baseline database named by cfg, creating the history
// table if needed.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	db := cfg.BaselineDatabase()
	logging.FromContext(ctx).Debug().Str("driver", db.Driver).Msg("opening baseline")

	st, err := store.Open(db.Driver, db.DataSourceName())
	if err != nil {
		return nil, err
	}
	return st, nil
}

// openReader returns the snapshot source named by cfg and a func releasing it.
// A configured snapshot file takes precedence over the OCS database.
func openReader(ctx context.Context, cfg *config.Config) (source.Reader, func() error, error) {
	logger := logging.FromContext(ctx)

	if cfg.Snapshot.File != "" {
		logger.Debug().Str("file", cfg.Snapshot.File).Msg("reading snapshot from file")
		return source.NewFileReader(cfg.Snapshot.File), func() error { return nil }, nil
	}

	logger.Debug().Str("driver", cfg.Database.Driver).Msg("connecting to inventory database")
	r, err := source.OpenSQLReader(ctx, cfg.Database.Driver, cfg.Database.DataSourceName())
	if err != nil {
		return nil, nil, err
	}
	return r, r.Close, nil
}

// newSink returns the SMTP sink, or a LogSink when email is disabled.
func newSink(cfg *config.Config) notify.Sink {
	if !cfg.Email.Enabled {
		return notify.LogSink{}
	}
	return notify.NewSMTPSink(notify.SMTPConfig{
		Host:     cfg.Email.SMTPServer,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.SenderEmail,
		FromName: cfg.Email.SenderName,
		To:       cfg.Email.Recipients,
		StartTLS: cfg.Email.UseTLS,
	})
}

// closeLogged runs closer, logging instead of returning its error.
func closeLogged(ctx context.Context, what string, closer func() error) {
	if err := closer(); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msgf("error closing %s", what)
	}
}
