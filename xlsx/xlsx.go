// Package xlsx exports transactions to an Excel workbook.
package xlsx

import (
	"fmt"
	"io"

	"github.com/etnz/flowtrack"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the worksheet holding the history.
const SheetName = "History"

var header = []any{"Date", "Type", "Name", "Item", "Quantity", "Amount", "Currency", "Notes", "ID"}

// Export writes the transactions, in the given order, to an XLSX workbook.
// Quantities and amounts are numbers; expenses have a negative amount.
func Export(w io.Writer, txs []flowtrack.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("could not name the worksheet: %w", err)
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("could not create the header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("could not style the header: %w", err)
	}

	for i, tx := range txs {
		if err := setRow(f, i+2, row(tx)); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "C", "D", 20); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("could not write workbook: %w", err)
	}
	return nil
}

// row returns the cells of a transaction. Cells that do not apply are empty strings.
func row(tx flowtrack.Transaction) []any {
	notes, _ := tx.Note()
	var item, quantity, amount, currency any = "", "", "", ""
	switch v := tx.(type) {
	case flowtrack.StockMovement:
		name, qty := v.Goods()
		item, quantity = name, qty.Int64()
	case flowtrack.CashMovement:
		signed := v.Signed()
		amount, currency = signed.AsFloat(), signed.Currency()
	}
	return []any{
		tx.When().String(),
		string(tx.What()),
		tx.Counterparty(),
		item,
		quantity,
		amount,
		currency,
		notes,
		tx.ID(),
	}
}

func setRow(f *excelize.File, n int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("could not write row %d: %w", n, err)
	}
	return nil
}
