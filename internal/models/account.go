package models

import "time"

// Account is one employer whose listings are mirrored from an upstream
// source. Accounts are never deleted by a sync run; only Platform and
// LastSyncedAt are written back after a successful pass.
type Account struct {
	Name         string
	Website      string
	EntryURL     string
	Logo         string
	Categories   []string
	Platform     Platform
	NumListings  uint32
	LastSyncedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Account) HasCategory(category string) bool {
	for _, c := range a.Categories {
		if c == category {
			return true
		}
	}
	return false
}
