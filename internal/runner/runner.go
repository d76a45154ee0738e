// Package runner sequences one reconciliation run:
// read snapshot, bootstrap-if-empty, read baseline, reconcile, apply, notify.
//
// The runner owns no policy of its own. It aborts on the first collaborator
// failure and returns it unchanged, so callers can map the error code to an
// exit status.
package runner

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/logging"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/notify"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/reconcile"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/report"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/source"
)

// Runner wires the collaborators of a run.
type Runner struct {
	Store  reconcile.Store
	Reader source.Reader
	Sink   notify.Sink

	// Now dates the report subject. Defaults to time.Now.
	Now func() time.Time

	// RunIDs tags the run's logs. Defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	// SubjectPrefix is prepended to the report subject.
	SubjectPrefix string

	// DryRun computes the result without touching the store or the sink.
	DryRun bool
}

// Summary describes a finished run.
type Summary struct {
	RunID     string                   `json:"run_id"`
	DryRun    bool                     `json:"dry_run"`
	Bootstrap reconcile.BootstrapStats `json:"bootstrap"`
	Records   int                      `json:"records"`
	Result    inventory.Result         `json:"result"`
	Applied   reconcile.ApplyStats     `json:"applied"`
	Notified  bool                     `json:"notified"`
	Subject   string                   `json:"subject,omitempty"`
}

// Run performs one reconciliation run.
//
// On failure the returned Summary holds whatever completed before it, so a
// DeliveryFailed run still reports the applied baseline changes.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	ids := r.RunIDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}

	summary := Summary{RunID: ids.Generate(), DryRun: r.DryRun, Result: inventory.NewResult()}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.FromContext(ctx)
	logger.Info().Bool("dry_run", r.DryRun).Msg("run started")

	snapshot, err := r.Reader.ReadSnapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("reading snapshot failed")
		return summary, err
	}
	summary.Records = len(snapshot)
	logger.Debug().Int("records", len(snapshot)).Msg("snapshot loaded")

	if !r.DryRun {
		summary.Bootstrap, err = reconcile.Bootstrap(ctx, r.Store, snapshot)
		if err != nil {
			logger.Error().Err(err).Msg("bootstrap failed")
			return summary, err
		}
	}

	baseline, err := r.Store.ReadAllTitles(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("reading baseline failed")
		return summary, err
	}

	summary.Result = reconcile.Reconcile(baseline, snapshot)
	logResult(logger, summary.Result)

	if r.DryRun {
		logger.Info().Msg("dry run, baseline and mail left untouched")
		return summary, nil
	}

	summary.Applied, err = reconcile.Apply(ctx, r.Store, summary.Result)
	if err != nil {
		logger.Error().Err(err).Msg("applying baseline changes failed")
		return summary, err
	}

	rep, ok := report.Format(summary.Result, now(), r.SubjectPrefix)
	if !ok {
		logger.Info().Msg("no new software, nothing to send")
		return summary, nil
	}
	if err := r.Sink.Send(ctx, rep.Subject, rep.Body); err != nil {
		logger.Error().Err(err).Msg("sending report failed")
		return summary, err
	}
	summary.Notified = true
	summary.Subject = rep.Subject

	logger.Info().
		Int("new", len(summary.Result.New)).
		Int("removed", len(summary.Result.Removed)).
		Msg("run finished")
	return summary, nil
}

// logResult logs every removed and new title; removed titles are never mailed.
func logResult(logger *zerolog.Logger, res inventory.Result) {
	for _, t := range res.RemovedTitles() {
		logger.Info().Str("title", string(t)).Msg("software removed from fleet")
	}
	for _, t := range res.NewTitles() {
		a := res.New[t]
		logger.Info().
			Str("title", string(t)).
			Str("host_name", a.HostName).
			Str("host_id", a.HostID).
			Msg("new software in fleet")
	}
}
