package main

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // Margin in mm
	pdfLineHeight = 6   // Row height in mm
	pdfFontSize   = 9
)

// pdfColumns holds the header and width (mm) of each table column.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"File", 110},
	{"sloc", 20},
	{"tloc", 20},
	{"blank", 20},
	{"comment", 20},
}

// generatePDF writes the report as a single table: one row per file and a
// closing totals row.
func generatePDF(report *Report, outputPath string, logger *zap.Logger) error {
	logger.Info("generating PDF report", zap.String("path", outputPath))

	pdf := buildReportPDF(report)
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF file %s: %w", outputPath, err)
	}
	return nil
}

// buildReportPDF lays out the report pages without writing them.
func buildReportPDF(report *Report) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	// Core fonts are cp1252; file names are UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(pdfPageWidth-2*pdfMargin, 10, tr(fmt.Sprintf("Line count: %s", report.Root)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, pdfLineHeight, col.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Courier", "", pdfFontSize)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			writeHeader()
		}
	})
	writeHeader()

	writeRow := func(name string, c Counts) {
		cells := []string{
			tr(name),
			strconv.Itoa(c.Significant),
			strconv.Itoa(c.Total),
			strconv.Itoa(c.Blank),
			strconv.Itoa(c.Comment),
		}
		for i, col := range pdfColumns {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(col.width, pdfLineHeight, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	for _, f := range report.Files {
		writeRow(f.Name, f.Counts)
	}
	pdf.SetFont("Courier", "B", pdfFontSize)
	writeRow("total", report.Totals)

	if len(report.Skipped) > 0 {
		pdf.Ln(pdfLineHeight)
		pdf.SetFont("Helvetica", "", pdfFontSize)
		for _, s := range report.Skipped {
			pdf.CellFormat(pdfPageWidth-2*pdfMargin, pdfLineHeight, tr(fmt.Sprintf("skipped %s: %s", s.Name, s.Reason)), "", 1, "L", false, 0, "")
		}
	}
	return pdf
}
