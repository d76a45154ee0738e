package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/logging"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/reconcile"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/report"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/runner"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/store"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/testutil"
)

var errInjected = errors.New("injected failure")

// faultyStore fails selected baseline operations.
type faultyStore struct {
	reconcile.Store
	fail string
}

func (f faultyStore) ReadAllTitles(ctx context.Context) (inventory.TitleSet, error) {
	if f.fail == FailRead {
		return nil, inventory.StoreUnavailable("read titles", errInjected)
	}
	return f.Store.ReadAllTitles(ctx)
}

func (f faultyStore) InsertIfAbsentBatch(ctx context.Context, entries []inventory.NewEntry) (int, error) {
	if f.fail == FailInsert {
		return 0, inventory.StoreUnavailable("insert titles", errInjected)
	}
	return f.Store.InsertIfAbsentBatch(ctx, entries)
}

func (f faultyStore) DeleteByTitlesBatch(ctx context.Context, titles []inventory.Title) (int, error) {
	if f.fail == FailDelete {
		return 0, inventory.StoreUnavailable("delete titles", errInjected)
	}
	return f.Store.DeleteByTitlesBatch(ctx, titles)
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory SQLite baseline with a fixed
// clock and run ID, so traces are reproducible.
//
// Execution flow:
//  1. Open the in-memory store and seed the baseline
//  2. Execute the configured number of runs, stopping at the first failure
//  3. Capture the final baseline and delivered mail
//  4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := logging.WithLogger(context.Background(), &logging.Nop)

	for _, row := range scenario.Baseline {
		if err := st.InsertIfAbsent(ctx, row.Title, row.Host); err != nil {
			return nil, fmt.Errorf("failed to seed baseline: %w", err)
		}
	}

	reader := testutil.NewStaticReader(scenario.Snapshot.Records()...)
	sink := &testutil.RecordingSink{}
	switch scenario.Fail {
	case FailSource:
		reader.Err = errInjected
	case FailSend:
		sink.Err = errInjected
	}

	r := &runner.Runner{
		Store:         faultyStore{Store: st, fail: scenario.Fail},
		Reader:        reader,
		Sink:          sink,
		Now:           testutil.NewFixedClock(scenario.runDate()).Now,
		RunIDs:        testutil.NewFixedRunIDGenerator("scenario-" + scenario.Name),
		SubjectPrefix: report.DefaultSubjectPrefix,
	}

	result := NewResult()
	for i := 0; i < scenario.runCount(); i++ {
		summary, err := r.Run(ctx)
		trace := RunTrace{
			Bootstrap: summary.Bootstrap.Ran,
			Result:    summary.Result,
			Inserted:  summary.Applied.Inserted,
			Deleted:   summary.Applied.Deleted,
			Notified:  summary.Notified,
		}
		if err != nil {
			trace.Error = string(inventory.CodeOf(err))
			if trace.Error == "" {
				return nil, fmt.Errorf("run %d failed outside the error taxonomy: %w", i+1, err)
			}
			var applyErr *reconcile.ApplyError
			if errors.As(err, &applyErr) {
				trace.Inserted, trace.Deleted = applyErr.Inserted, applyErr.Deleted
			}
		}
		result.Runs = append(result.Runs, trace)
		if err != nil {
			break
		}
	}

	entries, err := st.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read final baseline: %w", err)
	}
	for _, e := range entries {
		result.Baseline = append(result.Baseline, BaselineRow{Title: e.Title, Host: e.FirstSeenHost})
	}
	result.addMail(sink.Messages())

	evaluateAssertions(scenario, result)
	return result, nil
}
