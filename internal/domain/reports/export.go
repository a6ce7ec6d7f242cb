package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"staffhub/internal/domain/leave"
)

const dateLayout = "2006-01-02"

// WriteLeaveCSV streams the given requests as a CSV report.
func WriteLeaveCSV(w io.Writer, requests []leave.LeaveRequest) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "staffName", "designation", "leaveType", "startDate", "resumeDate", "days", "status", "reason", "submittedAt"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, req := range requests {
		record := []string{
			req.ID,
			req.StaffName,
			req.StaffDesignation,
			req.LeaveType,
			req.StartDate.Format(dateLayout),
			req.ResumeDate.Format(dateLayout),
			strconv.Itoa(req.Days),
			req.Status,
			req.Reason,
			req.CreatedAt.Format(dateLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LeaveRequestPDF renders a single request as a printable leave form.
func LeaveRequestPDF(req leave.LeaveRequest) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Request")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Staff: %s", req.StaffName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Designation: %s", req.StaffDesignation))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Type: %s", req.LeaveType))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("From: %s  Resume: %s  (%d days)",
		req.StartDate.Format(dateLayout), req.ResumeDate.Format(dateLayout), req.Days))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Reason: %s", req.Reason))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", req.Status))
	if req.RecommendedAt != nil {
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Recommended: %s  Notes: %s",
			req.RecommendedAt.Format(dateLayout), req.RecommendationNotes))
	}
	if req.ApprovedAt != nil {
		pdf.Ln(7)
		pdf.Cell(0, 8, fmt.Sprintf("Decided: %s  Notes: %s",
			req.ApprovedAt.Format(dateLayout), req.ApprovalNotes))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
