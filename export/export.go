// Package export renders attendance records as PDF or XLSX tables.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"workroll/domain"
)

// Format selects the output document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a requested format. An empty value selects PDF.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", raw)
}

// ContentType returns the MIME type of documents in format f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Columns is the header row of every export.
var Columns = []string{"Term", "Week", "Name", "Date", "In Time", "Out Time", "Break", "Hrs Worked"}

// Row is one exported record.
type Row struct {
	Term      string
	Week      int
	Name      string
	Date      string
	InTime    string
	OutTime   string
	Break     string
	HrsWorked float64
}

func (r Row) cells() []string {
	return []string{r.Term, strconv.Itoa(r.Week), r.Name, r.Date, r.InTime, r.OutTime, r.Break, formatHours(r.HrsWorked)}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

// Rows flattens populated records into export rows.
func Rows(records []domain.PopulatedRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			Week:      r.Week,
			InTime:    r.InTime,
			OutTime:   r.OutTime,
			Break:     r.BreakTime,
			HrsWorked: r.HrsWorked,
		}
		if r.Project != nil {
			row.Term = r.Project.Name
		}
		if r.Assignee != nil {
			row.Name = r.Assignee.DisplayName()
		}
		if !r.DueDate.IsZero() {
			row.Date = r.DueDate.Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	return rows
}

// Write renders rows in format f.
func Write(w io.Writer, f Format, title string, rows []Row) error {
	if f == FormatXLSX {
		return WriteXLSX(w, title, rows)
	}
	return WritePDF(w, title, rows)
}

var pdfWidths = []float64{50, 18, 60, 30, 28, 28, 24, 30}

// WritePDF renders rows as a landscape A4 table.
func WritePDF(w io.Writer, title string, rows []Row) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range Columns {
		pdf.CellFormat(pdfWidths[i], 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	var total float64
	for _, row := range rows {
		for i, cell := range row.cells() {
			align := "L"
			if i == 1 || i == 7 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], 7, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		total += row.HrsWorked
	}

	pdf.SetFont("Helvetica", "B", 9)
	var labelWidth float64
	for _, width := range pdfWidths[:len(pdfWidths)-1] {
		labelWidth += width
	}
	pdf.CellFormat(labelWidth, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(pdfWidths[len(pdfWidths)-1], 7, formatHours(total), "1", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// WriteXLSX renders rows on a single worksheet named sheet.
func WriteXLSX(w io.Writer, sheet string, rows []Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = "Records"
	}
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := make([]any, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", bold); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.Term, row.Week, row.Name, row.Date, row.InTime, row.OutTime, row.Break, row.HrsWorked}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "H", 16); err != nil {
		return err
	}
	return f.Write(w)
}
