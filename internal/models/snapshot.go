package models

import "time"

// EmailStats is the point-in-time summary for the active account over the
// active window. All wire fields are optional; missing ones decode to zero.
type EmailStats struct {
	Total       int     `json:"total"`
	Read        int     `json:"read"`
	Unread      int     `json:"unread"`
	Replied     int     `json:"replied"`
	Drafted     int     `json:"drafted"`
	AvgResponse float64 `json:"avgResponse"`
}

// ActivityBucket is one aggregated point of the activity series. Bucket
// width is a backend concern; buckets are consumed as-is.
type ActivityBucket struct {
	Time   string `json:"time"`
	Emails int    `json:"emails"`
	Hour   int    `json:"hour"`
}

type SearchResult struct {
	MatchCount  int    `json:"count"`
	SearchTerm  string `json:"search_term"`
	WindowHours int    `json:"hours_searched"`
	WindowLabel string `json:"time_period"`
}

type Account struct {
	Email        string `json:"email"`
	Service      string `json:"service"`
	IsConfigured bool   `json:"isConfigured"`
}

// QuerySnapshot is the only thing rendering collaborators observe. It is
// fully replaced on change and never mutated in place by readers.
type QuerySnapshot struct {
	Stats           EmailStats       `json:"stats"`
	Activity        []ActivityBucket `json:"activity"`
	Window          TimeWindow       `json:"window"`
	IsBootstrapping bool             `json:"isBootstrapping"`
	IsRefreshing    bool             `json:"isRefreshing"`
	ErrorMessage    string           `json:"errorMessage,omitempty"`
}

// SnapshotFile is the on-disk format for the last good snapshot, so a
// restart shows stale-but-valid numbers instead of a blank dashboard.
type SnapshotFile struct {
	Version  int              `json:"version"`
	Stats    EmailStats       `json:"stats"`
	Activity []ActivityBucket `json:"activity"`
	Window   TimeWindow       `json:"window"`
	Account  string           `json:"account,omitempty"`
	SavedAt  time.Time        `json:"saved_at"`
}

const SnapshotFileVersion = 1
