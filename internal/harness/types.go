package harness

import (
	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/testutil"
)

// RunTrace records one run of a scenario.
type RunTrace struct {
	Bootstrap bool             `json:"bootstrap"`
	Result    inventory.Result `json:"result"`
	Inserted  int              `json:"inserted"`
	Deleted   int              `json:"deleted"`
	Notified  bool             `json:"notified"`
	Error     string           `json:"error,omitempty"`
}

// MailTrace is one delivered report.
type MailTrace struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Runs holds one trace per executed run. Execution stops after the
	// first failed run.
	Runs []RunTrace `json:"runs"`

	// Baseline is the store content after the last run, ordered by title.
	Baseline []BaselineRow `json:"baseline"`

	// Mail holds every delivered report in send order.
	Mail []MailTrace `json:"mail"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Runs:     []RunTrace{},
		Baseline: []BaselineRow{},
		Mail:     []MailTrace{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addMail(msgs []testutil.Message) {
	for _, m := range msgs {
		r.Mail = append(r.Mail, MailTrace{Subject: m.Subject, Body: m.Body})
	}
}
