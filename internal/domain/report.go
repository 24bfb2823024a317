package domain

import "time"

// RunReport summarizes a single ingestion run for logs and notifications.
type RunReport struct {
	RunID        string
	Started      time.Time
	Fetched      int
	Appended     int
	Duplicates   int
	BeforeCutoff int
	Cleaned      int
}
