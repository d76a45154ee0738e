package harness

import (
	"fmt"
	"sort"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// evaluateAssertions checks every scenario assertion against result,
// recording failures with AddError.
func evaluateAssertions(scenario *Scenario, result *Result) {
	for i, a := range scenario.Assertions {
		if err := evaluate(a, result); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
}

func evaluate(a Assertion, result *Result) error {
	switch a.Type {
	case AssertNewTitles:
		run, err := selectRun(a, result)
		if err != nil {
			return err
		}
		return sameTitles(a.Titles, run.Result.NewTitles())

	case AssertRemovedTitles:
		run, err := selectRun(a, result)
		if err != nil {
			return err
		}
		return sameTitles(a.Titles, run.Result.RemovedTitles())

	case AssertAttributed:
		run, err := selectRun(a, result)
		if err != nil {
			return err
		}
		got, ok := run.Result.New[a.Title]
		if !ok {
			return fmt.Errorf("title %q is not new in this run", a.Title)
		}
		if got.HostName != a.Host {
			return fmt.Errorf("title %q attributed to %q, want %q", a.Title, got.HostName, a.Host)
		}
		if a.HostID != "" && got.HostID != a.HostID {
			return fmt.Errorf("title %q attributed to host id %q, want %q", a.Title, got.HostID, a.HostID)
		}
		return nil

	case AssertBaseline:
		titles := make([]inventory.Title, 0, len(result.Baseline))
		for _, row := range result.Baseline {
			titles = append(titles, row.Title)
		}
		return sameTitles(a.Titles, titles)

	case AssertBaselineHost:
		for _, row := range result.Baseline {
			if row.Title == a.Title {
				if row.Host != a.Host {
					return fmt.Errorf("title %q first seen on %q, want %q", a.Title, row.Host, a.Host)
				}
				return nil
			}
		}
		return fmt.Errorf("title %q not in baseline", a.Title)

	case AssertMailCount:
		if len(result.Mail) != a.Count {
			return fmt.Errorf("got %d reports, want %d", len(result.Mail), a.Count)
		}
		return nil

	case AssertError:
		run, err := selectRun(a, result)
		if err != nil {
			return err
		}
		if run.Error != a.Code {
			return fmt.Errorf("run failed with %q, want %q", run.Error, a.Code)
		}
		return nil
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// selectRun returns the run an assertion targets.
func selectRun(a Assertion, result *Result) (RunTrace, error) {
	if len(result.Runs) == 0 {
		return RunTrace{}, fmt.Errorf("no runs executed")
	}
	idx := a.Run - 1
	if a.Run == 0 {
		idx = len(result.Runs) - 1
	}
	if idx < 0 || idx >= len(result.Runs) {
		return RunTrace{}, fmt.Errorf("run %d was not executed (%d runs)", a.Run, len(result.Runs))
	}
	return result.Runs[idx], nil
}

// sameTitles compares two title lists as sets.
func sameTitles(want, got []inventory.Title) error {
	w := append([]inventory.Title(nil), want...)
	g := append([]inventory.Title(nil), got...)
	sort.Slice(w, func(i, j int) bool { return w[i] < w[j] })
	sort.Slice(g, func(i, j int) bool { return g[i] < g[j] })

	if len(w) != len(g) {
		return fmt.Errorf("got %v, want %v", g, w)
	}
	for i := range w {
		if w[i] != g[i] {
			return fmt.Errorf("got %v, want %v", g, w)
		}
	}
	return nil
}
