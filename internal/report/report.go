// Package report renders reconciliation results as text.
//
// Format builds the notification mail. Only new titles are mailed; removed
// titles appear in the console summary written by WriteSummary and in the
// logs, never in the mail.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// DefaultSubjectPrefix tags the mail subject.
const DefaultSubjectPrefix = "[NEW SOFTWARE]"

const (
	subjectTitle = "OCS Inventory NG report"
	bodyHeading  = "New software detected across the OCS Inventory NG fleet:"
	ruleWidth    = 50
)

// Report is a rendered notification.
type Report struct {
	Subject string
	Body    string
}

// Format renders the new-software mail for res, dated by date.
// It returns false, and no report, when res has no new titles, whatever
// res.Removed holds.
func Format(res inventory.Result, date time.Time, subjectPrefix string) (Report, bool) {
	if len(res.New) == 0 {
		return Report{}, false
	}

	lines := []string{bodyHeading, strings.Repeat("-", ruleWidth)}
	for _, title := range SortFolded(res.NewTitles()) {
		a := res.New[title]
		lines = append(lines,
			fmt.Sprintf("Program: %s (NEW IN FLEET)", title),
			fmt.Sprintf("  First detected on computer: %s | ID: %s", a.HostName, a.HostID),
			"",
		)
	}

	return Report{
		Subject: Subject(date, subjectPrefix),
		Body:    strings.Join(lines, "\n"),
	}, true
}

// Subject builds the mail subject for date.
func Subject(date time.Time, prefix string) string {
	s := fmt.Sprintf("%s - %s", subjectTitle, date.Format("2006-01-02"))
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		s = prefix + " " + s
	}
	return s
}

// SortFolded returns titles ordered case-insensitively, ties broken by byte
// order so titles differing only in case keep a fixed order.
func SortFolded(titles []inventory.Title) []inventory.Title {
	fold := cases.Fold()
	type keyed struct {
		key   string
		title inventory.Title
	}
	ks := make([]keyed, len(titles))
	for i, t := range titles {
		ks[i] = keyed{key: fold.String(string(t)), title: t}
	}
	sort.Slice(ks, func(i, j int) bool {
		if ks[i].key != ks[j].key {
			return ks[i].key < ks[j].key
		}
		return ks[i].title < ks[j].title
	})

	out := make([]inventory.Title, len(ks))
	for i, k := range ks {
		out[i] = k.title
	}
	return out
}

// WriteSummary prints the human-readable outcome of a run: removed titles
// first, then new titles with their attribution.
func WriteSummary(w io.Writer, res inventory.Result) error {
	var b strings.Builder

	if removed := SortFolded(res.RemovedTitles()); len(removed) > 0 {
		b.WriteString("The following software was removed from the fleet:\n")
		for _, t := range removed {
			fmt.Fprintf(&b, "  - %s\n", t)
		}
	} else {
		b.WriteString("No software was removed from the fleet.\n")
	}

	b.WriteString("\n")
	if added := SortFolded(res.NewTitles()); len(added) > 0 {
		b.WriteString("New software detected:\n")
		for _, t := range added {
			a := res.New[t]
			fmt.Fprintf(&b, "  - %s (NEW IN FLEET) detected on computer: %s (ID: %s)\n", t, a.HostName, a.HostID)
		}
	} else {
		b.WriteString("No new software to report.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
