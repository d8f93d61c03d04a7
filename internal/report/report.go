// Package report renders the summary export of all tracked discrepancies.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"accounfix/internal/domain"
)

const (
	CSVFileName  = "accounfix_report.csv"
	XLSXFileName = "accounfix_report.xlsx"

	createdDateLayout = "2006-01-02"
)

var columns = []string{"ID", "Title", "Category", "Priority", "Status", "Reporter", "CreatedDate"}

func row(rec *domain.ErrorRecord) []string {
	return []string{
		rec.ID,
		rec.Title,
		string(rec.Category),
		string(rec.Priority),
		string(rec.Status),
		rec.Reporter,
		rec.CreatedAt.Format(createdDateLayout),
	}
}

// WriteCSV writes the header plus one row per record, in the order given.
func WriteCSV(w io.Writer, records []*domain.ErrorRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same columns as a workbook.
func WriteXLSX(w io.Writer, records []*domain.ErrorRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for i, rec := range records {
		for col, value := range row(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
