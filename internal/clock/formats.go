package clock

// Timestamp layouts used by the formatter.
const (
	// Example: 14:05:09.
	TimeOfDay = "15:04:05"

	// Example: 15-01-2024.
	DayMonthYear = "02-01-2006"
)
