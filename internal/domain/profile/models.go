package profile

import "time"

// UserProfile is the account-level record resolved from an authenticated
// identity. Role is assigned at creation and only an admin may change it.
type UserProfile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	Role        string     `json:"role"`
	DivisionID  string     `json:"divisionId,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLoginAt,omitempty"`
}

type WorkHistoryEntry struct {
	Name     string `json:"name"`
	Place    string `json:"place"`
	Duration string `json:"duration"`
}

type PrinterAssignment struct {
	Assigned bool   `json:"assigned"`
	Name     string `json:"name,omitempty"`
}

type Inventory struct {
	PCLaptop   bool              `json:"pcLaptop"`
	LGNAccount bool              `json:"lgnAccount"`
	Printer    PrinterAssignment `json:"printer"`
	Router     bool              `json:"router"`
	UPS        bool              `json:"ups"`
}

// StaffProfile is the directory-facing record a staff member maintains about
// themselves.
type StaffProfile struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	Name            string             `json:"name"`
	NIC             string             `json:"nic"`
	Designation     string             `json:"designation"`
	DateOfBirth     *time.Time         `json:"dateOfBirth,omitempty"`
	MobileNumber    string             `json:"mobileNumber"`
	AppointmentDate *time.Time         `json:"appointmentDate,omitempty"`
	WorkingHistory  []WorkHistoryEntry `json:"workingHistory"`
	Inventory       Inventory          `json:"inventory"`
	ProfileImageURL string             `json:"profileImageUrl,omitempty"`
	DivisionID      string             `json:"divisionId,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}
