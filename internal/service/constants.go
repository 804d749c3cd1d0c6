package service

const (
	// Dashboard
	RecentWorkoutsLimit = 10

	// Workout validation
	MaxDurationMinutes = 24 * 60
	MaxValidHeartrate  = 250

	// Import progress phases
	PhaseReading = "reading"
	PhaseStoring = "storing"
)

// Export formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)
