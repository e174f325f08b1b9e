// Package export renders batch extraction output as an XLSX workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/medrec-tools/lab-extract/internal/extraction"
	"github.com/medrec-tools/lab-extract/internal/labparse"
	"github.com/medrec-tools/lab-extract/internal/report"
)

const (
	summarySheet = "Extractions"
	testsSheet   = "Tests"
)

// Service produces XLSX bytes from extraction results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BuildWorkbook renders one row per file on the Extractions sheet plus
// one row per structured test on the Tests sheet, and returns the
// workbook as bytes.
func (s *Service) BuildWorkbook(results []extraction.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if _, err := f.NewSheet(testsSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(index)
	}

	writeRow := func(sheet string, row int, values []any) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	writeRow(summarySheet, 1, []any{
		"File", "Method", "Confidence", "Lab", "Test Count",
		"Test Date", "Pages", "Chars", "Fallback", "Error",
	})

	totalTests := 0
	failed := 0
	for i, res := range results {
		writeRow(summarySheet, i+2, []any{
			res.Filename,
			string(res.Method),
			res.Confidence,
			strOrEmpty(res.LabName),
			intCell(res.TestCount),
			strOrEmpty(res.TestDate),
			res.PageCount,
			res.CharCount,
			res.FallbackTriggered,
			truncate(strOrEmpty(res.Error), 140),
		})
		if res.TestCount != nil {
			totalTests += *res.TestCount
		}
		if res.Failed() {
			failed++
		}
	}
	writeRow(summarySheet, len(results)+2, []any{
		fmt.Sprintf("Totals (%d files, %d failed)", len(results), failed),
		"", "", "", totalTests,
	})

	writeRow(testsSheet, 1, []any{
		"File", "Test Name", "Value", "Unit",
		"Reference Range", "Flag", "Status", "Test Date",
	})
	testRow := 2
	for _, res := range results {
		for _, tr := range res.Tests {
			writeRow(testsSheet, testRow, []any{
				res.Filename,
				tr.TestName,
				floatCell(tr.Value),
				strOrEmpty(tr.Unit),
				strOrEmpty(tr.ReferenceRange),
				strOrEmpty(tr.Flag),
				statusCell(tr),
				strOrEmpty(tr.TestDate),
			})
			testRow++
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(summarySheet, "A", "A", 32) // file
	_ = f.SetColWidth(summarySheet, "B", "B", 20) // method
	_ = f.SetColWidth(summarySheet, "C", "F", 12)
	_ = f.SetColWidth(summarySheet, "J", "J", 60) // error
	_ = f.SetColWidth(testsSheet, "A", "A", 32)
	_ = f.SetColWidth(testsSheet, "B", "B", 28)
	_ = f.SetColWidth(testsSheet, "C", "H", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"files", len(results),
		"tests", testRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func statusCell(tr labparse.TestResult) string {
	if st := report.ResolveStatus(tr.Value, tr.ReferenceRange, tr.Flag); st != nil {
		return string(*st)
	}
	return ""
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intCell(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}

func floatCell(p *float64) any {
	if p == nil {
		return ""
	}
	return *p
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
