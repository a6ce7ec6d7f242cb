package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"staffhub/internal/domain/leave"
)

func sampleRequest() leave.LeaveRequest {
	recommended := time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC)
	return leave.LeaveRequest{
		ID:                  "lr-1",
		RequesterID:         "u-1",
		StaffName:           "Jane Perera",
		StaffDesignation:    "Development Officer",
		LeaveType:           leave.TypeCasual,
		StartDate:           time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		ResumeDate:          time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Days:                5,
		Reason:              "family trip",
		Status:              leave.StatusRecommended,
		RecommendationNotes: "no conflicts",
		RecommendedAt:       &recommended,
		CreatedAt:           time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestWriteLeaveCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLeaveCSV(&buf, []leave.LeaveRequest{sampleRequest()}); err != nil {
		t.Fatalf("WriteLeaveCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,staffName") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	row := lines[1]
	for _, want := range []string{"Jane Perera", "casual", "2024-01-15", "2024-01-20", "5", "recommended"} {
		if !strings.Contains(row, want) {
			t.Fatalf("row %q missing %q", row, want)
		}
	}
}

func TestWriteLeaveCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLeaveCSV(&buf, nil); err != nil {
		t.Fatalf("WriteLeaveCSV: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestLeaveRequestPDF(t *testing.T) {
	data, err := LeaveRequestPDF(sampleRequest())
	if err != nil {
		t.Fatalf("LeaveRequestPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}
