package export

// Timestamp layouts shared by artifact filenames and the run report.
const (
	// FileTimestamp is embedded in artifact filenames.
	FileTimestamp = "20060102-150405"
	// DisplayTimestamp is the human-facing form used in the report.
	DisplayTimestamp = "2006-01-02 15:04:05"
)
