package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"clinic-portal/internal/model"
)

const staffSheet = "Staff"

var staffExportHeader = []string{
	"First Name",
	"Last Name",
	"Email",
	"Phone",
	"Role",
	"Department",
	"Specialization",
	"License Number",
	"Active",
	"Created At",
}

var staffColumnWidths = []float64{18, 18, 32, 18, 14, 20, 20, 18, 10, 20}

// ExportStaff renders the same roster as ListStaff as an .xlsx workbook.
func (s *StaffService) ExportStaff(ctx context.Context, viewer *model.SessionUser, clinicID string) ([]byte, error) {
	users, err := s.staffOf(ctx, viewer, clinicID)
	if err != nil {
		return nil, err
	}
	return buildStaffWorkbook(users)
}

func buildStaffWorkbook(users []model.User) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(staffSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range staffExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(staffSheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(staffSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(staffSheet, name, name, staffColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for i, u := range users {
		row := []any{
			u.FirstName,
			u.LastName,
			u.Email,
			deref(u.Phone),
			string(u.Role),
			deref(u.Department),
			deref(u.Specialization),
			deref(u.LicenseNumber),
			yesNo(u.IsActive),
			u.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(staffSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(staffSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
