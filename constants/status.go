package constants

// JobStatus is the canonical status for rows in the upload process ledger.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusPending    JobStatus = "PENDING"    // created, rows not yet dispatched
	JobStatusProcessing JobStatus = "PROCESSING" // rows in flight
	JobStatusCompleted  JobStatus = "COMPLETED"  // every row accounted for
	JobStatusFailed     JobStatus = "FAILED"     // terminal failure
)

// IsTerminal reports whether no further transitions are expected.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}
