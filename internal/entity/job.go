package entity

import (
	"time"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
)

// UploadJob is a row of the upload process ledger.
type UploadJob struct {
	ProcessID        string              `json:"process_id"`
	FileName         string              `json:"file_name"`
	FileHash         string              `json:"file_hash,omitempty"`
	TotalRecords     int64               `json:"total_records"`
	ProcessedRecords int64               `json:"processed_records"`
	Status           constants.JobStatus `json:"status"`
	IsDeleted        bool                `json:"is_deleted"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
