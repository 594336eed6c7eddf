package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/flowtrack"
	"github.com/etnz/flowtrack/date"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// sample returns a ledger holding a stock-in then an expense, most recent first.
func sample(t *testing.T) []flowtrack.Transaction {
	t.Helper()
	l := flowtrack.NewLedger(flowtrack.NewMemoryStorage())
	drafts := []flowtrack.Draft{
		flowtrack.NewStockDraft(flowtrack.TypeStockIn, date.New(2024, time.January, 5), "Acme", "Widget", flowtrack.Q(10), nil),
		flowtrack.NewPaymentDraft(flowtrack.TypeExpense, date.New(2024, time.January, 6), "Rent", flowtrack.M(500, "USD"), flowtrack.Text("office | january")),
	}
	for _, d := range drafts {
		if _, err := l.Add(d); err != nil {
			t.Fatalf("Add() unexpected error: %v", err)
		}
	}
	return l.Transactions()
}

func TestTransaction(t *testing.T) {
	txs := sample(t)
	testCases := []struct {
		tx   flowtrack.Transaction
		want string
	}{
		{txs[1], "Jan 05, 2024 stock-in Acme: Widget × 10"},
		{txs[0], "Jan 06, 2024 expense Rent: -$500.00 (office | january)"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := Transaction(tc.tx); got != tc.want {
				t.Errorf("Transaction() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetails_Income(t *testing.T) {
	l := flowtrack.NewLedger(flowtrack.NewMemoryStorage())
	tx, err := l.Add(flowtrack.NewPaymentDraft(flowtrack.TypeIncome, date.New(2024, time.January, 7), "Bob", flowtrack.M(99.99, "USD"), nil))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := Details(tx), "+$99.99"; got != want {
		t.Errorf("Details() = %q, want %q", got, want)
	}
}

// parseTable parses markdown and returns the first table found, or nil.
func parseTable(t *testing.T, markdown string) (*east.Table, []byte) {
	t.Helper()
	source := []byte(markdown)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader(source))

	var table *east.Table
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if tbl, ok := n.(*east.Table); ok && entering {
			table = tbl
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return table, source
}

func TestHistoryMarkdown(t *testing.T) {
	txs := sample(t)
	got := HistoryMarkdown(txs, flowtrack.All)

	if !strings.HasPrefix(got, "# Transaction History") {
		t.Errorf("HistoryMarkdown() does not start with the title:\n%s", got)
	}
	table, _ := parseTable(t, got)
	if table == nil {
		t.Fatalf("HistoryMarkdown() has no table:\n%s", got)
	}
	// header + one row per transaction
	if rows := table.ChildCount(); rows != 1+len(txs) {
		t.Errorf("table has %d rows, want %d:\n%s", rows, 1+len(txs), got)
	}
	if header := table.FirstChild().ChildCount(); header != 6 {
		t.Errorf("table has %d columns, want 6", header)
	}
	for _, want := range []string{"Rent", "-$500.00", "office", "january", "Widget × 10", txs[0].ID(), txs[1].ID()} {
		if !strings.Contains(got, want) {
			t.Errorf("HistoryMarkdown() does not contain %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Rent") > strings.Index(got, "Acme") {
		t.Errorf("HistoryMarkdown() does not list the most recent transaction first:\n%s", got)
	}
}

func TestHistoryMarkdown_Empty(t *testing.T) {
	got := HistoryMarkdown(nil, flowtrack.Filter(flowtrack.TypeIncome))
	if !strings.Contains(got, "Transaction History: income") {
		t.Errorf("HistoryMarkdown() title does not name the filter:\n%s", got)
	}
	if !strings.Contains(got, "No transactions recorded.") {
		t.Errorf("HistoryMarkdown() of nothing does not say so:\n%s", got)
	}
	if table, _ := parseTable(t, got); table != nil {
		t.Errorf("HistoryMarkdown() of nothing has a table:\n%s", got)
	}
}
