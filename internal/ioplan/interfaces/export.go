package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	ioplan "ioforge/internal/ioplan/domain"
)

// BuildIOListXLSX renders the full I/O list workbook for a project.
func BuildIOListXLSX(project *ioplan.Project, points []ioplan.IOPoint) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	pointsSheet := "io_list"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(pointsSheet)

	_ = f.SetCellValue(summarySheet, "A1", "I/O List")
	_ = f.SetCellValue(summarySheet, "A3", "Project")
	_ = f.SetCellValue(summarySheet, "B3", project.Name)
	_ = f.SetCellValue(summarySheet, "A4", "Client")
	_ = f.SetCellValue(summarySheet, "B4", project.Client)
	_ = f.SetCellValue(summarySheet, "A5", "Engineer")
	_ = f.SetCellValue(summarySheet, "B5", project.Engineer)
	_ = f.SetCellValue(summarySheet, "A6", "Revision")
	_ = f.SetCellValue(summarySheet, "B6", fmt.Sprintf("%s.%d", project.MajorRevision, project.MinorRevision))
	_ = f.SetCellValue(summarySheet, "A7", "Points")
	_ = f.SetCellValue(summarySheet, "B7", len(points))
	_ = f.SetCellValue(summarySheet, "A8", "Generated")
	_ = f.SetCellValue(summarySheet, "B8", time.Now().UTC().Format(time.RFC3339))

	headers := []string{"Tag", "Description", "I/O Type", "Signal Type", "PLC", "Rack", "Slot", "Channel", "Terminal Block", "Cable", "Notes"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(pointsSheet, cell, header)
	}
	for i, point := range points {
		row := i + 2
		_ = f.SetCellValue(pointsSheet, fmt.Sprintf("A%d", row), point.Tag)
		_ = f.SetCellValue(pointsSheet, fmt.Sprintf("B%d", row), point.Description)
		_ = f.SetCellValue(pointsSheet, fmt.Sprintf("C%d", row), string(point.IOType))
		_ = f.SetCellValue(pointsSheet, fmt.Sprintf("D%d", row), string(point.SignalType))
		_ = f.SetCellValue(pointsSheet, fmt.Sprintf("E%d", row), point.PLCName)
		if point.Rack != nil {
			_ = f.SetCellValue(pointsSheet, fmt.Sprintf("F%d", row), *point.Rack)
		}
		if point.Slot != nil {
			_ = f.SetCellValue(pointsSheet, fmt.Sprintf("G%d", row), *point.Slot)
		}
		if point.Channel != nil {
			_ = f.SetCellValue(pointsSheet, fmt.Sprintf("H%d", row), *point.Channel)
		}
		_ = f.SetCellValue(pointsSheet, fmt.Sprintf("I%d", row), point.TerminalBlock)
		_ = f.SetCellValue(pointsSheet, fmt.Sprintf("J%d", row), point.CableID)
		_ = f.SetCellValue(pointsSheet, fmt.Sprintf("K%d", row), point.Notes)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildUtilizationPDF renders the card utilization report for a project.
func BuildUtilizationPDF(project *ioplan.Project, rows []ioplan.UtilizationRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Card Utilization Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", project.Name))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Revision: %s.%d", project.MajorRevision, project.MinorRevision))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(55, 6, "Card", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Used", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Available", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Percent", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(55, 6, row.Card.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, string(row.IOType), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d / %d", row.Used, row.Total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", row.Available), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d%%", row.Percentage), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, string(row.Status), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
