package models

import "time"

// AccountStats summarizes one account's reconciliation pass.
type AccountStats struct {
	Account  string
	Platform Platform

	Added     int
	Unchanged int
	Removed   int
	Errors    int

	// Skipped accounts are an expected steady-state condition (no supported
	// platform), counted apart from errors.
	Skipped    bool
	SkipReason string
}

// RunStats aggregates a whole sync run.
type RunStats struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Accounts  int
	Skipped   int
	Added     int
	Unchanged int
	Removed   int
	Errors    int

	// ExtractionCost is the summed dollar cost of generative extraction
	// calls made during the run.
	ExtractionCost float64

	PerAccount []AccountStats
}

func (r *RunStats) Add(s AccountStats) {
	r.Accounts++
	if s.Skipped {
		r.Skipped++
	}
	r.Added += s.Added
	r.Unchanged += s.Unchanged
	r.Removed += s.Removed
	r.Errors += s.Errors
	r.PerAccount = append(r.PerAccount, s)
}
