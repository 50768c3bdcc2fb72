// Package xlsx reads and writes customer snapshots as Excel workbooks.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/calcledger/internal/domain"
)

const (
	CustomersSheet = "Customers"
	SnapshotSheet  = "Snapshot"
)

var header = []any{"Name", "Phone", "Email", "Address", "Transactions"}

var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// Write renders snap as a workbook: one row per customer on the Customers
// sheet, snapshot metadata on a second sheet.
func Write(w io.Writer, snap domain.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), CustomersSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(CustomersSheet, "A1", &header); err != nil {
		return err
	}
	for i, c := range snap.Customers {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{c.Name, c.Phone, c.Email, c.Address, c.Transactions}
		if err := f.SetSheetRow(CustomersSheet, cell, &row); err != nil {
			return fmt.Errorf("customer %d: %w", c.CustomerID, err)
		}
	}

	if _, err := f.NewSheet(SnapshotSheet); err != nil {
		return err
	}
	meta := [][]any{
		{"Snapshot ID", snap.ID.String()},
		{"Generated At", snap.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Customers", len(snap.Customers)},
	}
	for i, row := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SnapshotSheet, cell, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// Read returns the customer records of a workbook. It reads the Customers
// sheet, or the first sheet when there is none, and only the first five
// columns. A leading header row and blank rows are skipped.
func Read(r io.Reader) ([]domain.CustomerRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := CustomersSheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyWorkbook
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var out []domain.CustomerRecord
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}
		cells := make([]string, len(header))
		for j := 0; j < len(cells) && j < len(row); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		if strings.Join(cells, "") == "" {
			continue
		}
		out = append(out, domain.CustomerRecord{
			Name:         cells[0],
			Phone:        cells[1],
			Email:        cells[2],
			Address:      cells[3],
			Transactions: cells[4],
		})
	}
	return out, nil
}
