package leave

import "time"

const (
	StatusPending     = "pending"
	StatusRecommended = "recommended"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

const (
	TypeCasual    = "casual"
	TypeMedical   = "medical"
	TypeVacation  = "vacation"
	TypeMaternity = "maternity"
	TypeEmergency = "emergency"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

var Types = []string{TypeCasual, TypeMedical, TypeVacation, TypeMaternity, TypeEmergency}

func ValidType(leaveType string) bool {
	for _, t := range Types {
		if t == leaveType {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether no further transition exists out of status.
func TerminalStatus(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

type LeaveRequest struct {
	ID                  string     `json:"id"`
	RequesterID         string     `json:"requesterId"`
	StaffName           string     `json:"staffName"`
	StaffDesignation    string     `json:"staffDesignation"`
	LeaveType           string     `json:"leaveType"`
	StartDate           time.Time  `json:"startDate"`
	ResumeDate          time.Time  `json:"resumeDate"`
	Days                int        `json:"days"`
	Reason              string     `json:"reason"`
	ActingOfficerID     string     `json:"actingOfficerId,omitempty"`
	RecommendOfficerID  string     `json:"recommendOfficerId"`
	ApproveOfficerID    string     `json:"approveOfficerId"`
	Status              string     `json:"status"`
	RecommendationNotes string     `json:"recommendationNotes,omitempty"`
	RecommendedAt       *time.Time `json:"recommendedAt,omitempty"`
	ApprovalNotes       string     `json:"approvalNotes,omitempty"`
	ApprovedAt          *time.Time `json:"approvedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}
