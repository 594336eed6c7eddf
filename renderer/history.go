package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/flowtrack"
	"github.com/etnz/flowtrack/date"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the transactions as a markdown table, in the
// given order. The filter only names the view in the title.
func HistoryMarkdown(txs []flowtrack.Transaction, filter flowtrack.Filter) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if filter == "" || filter == flowtrack.All {
		doc.H1("Transaction History")
	} else {
		doc.H1(fmt.Sprintf("Transaction History: %s", filter))
	}

	if len(txs) == 0 {
		doc.PlainText("No transactions recorded.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"Date", "Type", "Name", "Details", "Notes", "ID"},
		Rows:   [][]string{},
	}
	for _, tx := range txs {
		notes, _ := tx.Note()
		table.Rows = append(table.Rows, []string{
			tx.When().Format(date.DisplayFormat),
			string(tx.What()),
			cell(tx.Counterparty()),
			cell(Details(tx)),
			cell(notes),
			tx.ID(),
		})
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("%d transaction(s)", len(txs)))

	return doc.String()
}

// cell makes free text safe inside a table cell.
func cell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", `\|`)
}
