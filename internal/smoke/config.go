package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Users          int           // Number of synthetic users
	MomentsPerUser int           // Moments created for each user
	Workers        int           // Concurrent requests in flight
	Timeout        time.Duration // HTTP request timeout
	Looks          bool          // Also request one stylist look per user
	LookWait       time.Duration // How long to poll a look job
	Seed           int64         // Generator seed; runs with the same seed send the same moments
	Verbose        bool          // Log every request
}

// Stats holds run statistics.
type Stats struct {
	BaselinesStored   int
	MomentsSubmitted  int
	MomentsCreated    int
	MomentsDuplicate  int
	MomentsFailed     int
	PlansVerified     int
	HistoriesVerified int
	LooksRequested    int
	LooksDone         int
	LooksFallback     int
	LooksFailed       int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
