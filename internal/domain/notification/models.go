package notification

import "time"

const (
	KindLeaveSubmitted   = "leave_submitted"
	KindLeaveRecommended = "leave_recommended"
	KindLeaveDecided     = "leave_decided"
	KindDigest           = "digest"
)

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}
