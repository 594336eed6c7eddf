package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/flowtrack"
	"github.com/etnz/flowtrack/date"
)

// Transaction renders a transaction to a single line of text, like
// "Jan 05, 2024 stock-in Acme: Widget × 10".
func Transaction(tx flowtrack.Transaction) string {
	line := fmt.Sprintf("%s %s %s: %s", tx.When().Format(date.DisplayFormat), tx.What(), tx.Counterparty(), Details(tx))
	if notes, ok := tx.Note(); ok && notes != "" {
		line += " (" + oneLine(notes) + ")"
	}
	return line
}

// Details renders what moved: goods and their quantity, or the signed amount.
func Details(tx flowtrack.Transaction) string {
	switch v := tx.(type) {
	case flowtrack.StockMovement:
		item, qty := v.Goods()
		return fmt.Sprintf("%s × %s", item, qty)
	case flowtrack.CashMovement:
		return v.Signed().SignedString()
	default:
		return string(tx.What())
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
