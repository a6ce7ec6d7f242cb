package document

import "time"

// DocumentRecord describes a file held in external object storage on behalf
// of a staff member. The database row is authoritative for listing; the
// object itself lives only in the bucket.
type DocumentRecord struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	FileName    string    `json:"fileName"`
	ObjectKey   string    `json:"objectKey"`
	Link        string    `json:"link"`
	ContentType string    `json:"contentType"`
	FileSize    int64     `json:"fileSize"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
