package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/flowtrack"
	"github.com/etnz/flowtrack/config"
	"github.com/google/subcommands"
)

// setup isolates the command from the user's configuration, points the
// global -ledger-file flag to a temporary file and captures the output.
func setup(t *testing.T) (ledgerPath string, out *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{config.EnvLedgerFile, config.EnvCurrency, config.EnvVerbose} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	ledgerPath = filepath.Join(t.TempDir(), "test_ledger.jsonl")
	oldLedger, oldCurrency, oldConfig := *ledgerFile, *currency, *configFile
	*ledgerFile, *currency, *configFile = ledgerPath, "", ""

	out = &bytes.Buffer{}
	oldStdout := stdout
	stdout = out

	t.Cleanup(func() {
		*ledgerFile, *currency, *configFile = oldLedger, oldCurrency, oldConfig
		stdout = oldStdout
	})
	return ledgerPath, out
}

// run executes the command with the arguments, like the commander does.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: cannot parse %q: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func mustRun(t *testing.T, c subcommands.Command, args ...string) {
	t.Helper()
	if status := run(t, c, args...); status != subcommands.ExitSuccess {
		t.Fatalf("%s %q: expected ExitSuccess, got %v", c.Name(), args, status)
	}
}

func readLedger(t *testing.T, path string) []flowtrack.Transaction {
	t.Helper()
	ledger, err := flowtrack.Open(flowtrack.NewFileStorage(path))
	if err != nil {
		t.Fatalf("cannot open ledger %q: %v", path, err)
	}
	return ledger.Transactions()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %q: %v", path, err)
	}
}

func TestRecordAndHistory(t *testing.T) {
	path, out := setup(t)

	mustRun(t, &stockCmd{direction: flowtrack.TypeStockIn}, "-n", "Acme", "-i", "Widget", "-q", "10", "-d", "2024-01-05")
	mustRun(t, &paymentCmd{direction: flowtrack.TypeExpense}, "-n", "Rent", "-a", "500", "-d", "2024-01-06", "-notes", "january")

	if got := out.String(); !strings.Contains(got, "Recorded Jan 06, 2024 expense Rent: -$500.00 (january)") {
		t.Errorf("unexpected output:\n%s", got)
	}

	txs := readLedger(t, path)
	if len(txs) != 2 {
		t.Fatalf("ledger has %d transactions, want 2", len(txs))
	}
	if txs[0].What() != flowtrack.TypeExpense || txs[1].What() != flowtrack.TypeStockIn {
		t.Errorf("ledger order is %s, %s; want expense, stock-in", txs[0].What(), txs[1].What())
	}

	out.Reset()
	mustRun(t, &historyCmd{}, "-raw")
	history := out.String()
	rent, acme := strings.Index(history, "Rent"), strings.Index(history, "Acme")
	if rent < 0 || acme < 0 || rent > acme {
		t.Errorf("history does not list Rent then Acme:\n%s", history)
	}

	out.Reset()
	mustRun(t, &historyCmd{}, "-raw", "-t", "stock-in")
	if history := out.String(); strings.Contains(history, "Rent") || !strings.Contains(history, "Acme") {
		t.Errorf("stock-in history mismatch:\n%s", history)
	}

	out.Reset()
	mustRun(t, &historyCmd{}, "-raw", "-head", "1")
	if history := out.String(); strings.Contains(history, "Acme") {
		t.Errorf("history -head 1 lists more than the most recent transaction:\n%s", history)
	}
}

func TestNotesFlag(t *testing.T) {
	path, _ := setup(t)

	mustRun(t, &stockCmd{direction: flowtrack.TypeStockOut}, "-n", "Bob", "-i", "Widget", "-q", "1", "-d", "2024-01-05", "-notes", "")
	mustRun(t, &stockCmd{direction: flowtrack.TypeStockOut}, "-n", "Bob", "-i", "Widget", "-q", "2", "-d", "2024-01-05")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("ledger file has %d lines, want 2:\n%s", len(lines), content)
	}
	if strings.Contains(lines[0], `"notes"`) {
		t.Errorf("notes were not given, but are stored: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"notes":""`) {
		t.Errorf("empty notes were given, but are not stored: %s", lines[1])
	}
}

func TestPaymentAlias(t *testing.T) {
	path, _ := setup(t)

	mustRun(t, &paymentCmd{}, "-t", "income", "-n", "Sale", "-a", "12.50", "-c", "eur", "-d", "2024-01-05")
	txs := readLedger(t, path)
	if len(txs) != 1 {
		t.Fatalf("ledger has %d transactions, want 1", len(txs))
	}
	income, ok := txs[0].(flowtrack.Income)
	if !ok || !income.Money().Equal(flowtrack.M(12.5, "EUR")) {
		t.Errorf("recorded %+v, want an EUR 12.50 income", txs[0])
	}

	for _, args := range [][]string{
		{"-t", "stock-in", "-n", "Sale", "-a", "1"},
		{"-n", "Sale", "-a", "1"},
		{"-t", "income", "-n", "Sale", "-a", "1", "-c", "ZZZ"},
		{"-t", "income", "-n", "Sale", "-a", "one"},
	} {
		if status := run(t, &paymentCmd{}, args...); status != subcommands.ExitUsageError {
			t.Errorf("payment %q: expected ExitUsageError, got %v", args, status)
		}
	}
}

func TestRecordInvalid(t *testing.T) {
	path, _ := setup(t)

	testCases := []struct {
		name string
		cmd  subcommands.Command
		args []string
	}{
		{"missing name", &stockCmd{direction: flowtrack.TypeStockIn}, []string{"-i", "Widget", "-q", "1"}},
		{"fractional quantity", &stockCmd{direction: flowtrack.TypeStockIn}, []string{"-n", "Acme", "-i", "Widget", "-q", "1.5"}},
		{"negative amount", &paymentCmd{direction: flowtrack.TypeExpense}, []string{"-n", "Rent", "-a", "-5"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if status := run(t, tc.cmd, tc.args...); status != subcommands.ExitFailure {
				t.Errorf("expected ExitFailure, got %v", status)
			}
		})
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("rejected transactions created the ledger file: %v", err)
	}
}

func TestDelete(t *testing.T) {
	path, out := setup(t)

	mustRun(t, &stockCmd{direction: flowtrack.TypeStockIn}, "-n", "Acme", "-i", "Widget", "-q", "10", "-d", "2024-01-05")
	mustRun(t, &paymentCmd{direction: flowtrack.TypeExpense}, "-n", "Rent", "-a", "500", "-d", "2024-01-06")
	txs := readLedger(t, path)

	mustRun(t, &deleteCmd{}, txs[1].ID(), "unknown-id")
	if !strings.Contains(out.String(), "Deleted Jan 05, 2024 stock-in Acme: Widget × 10") {
		t.Errorf("unexpected output:\n%s", out)
	}
	remaining := readLedger(t, path)
	if len(remaining) != 1 || remaining[0].ID() != txs[0].ID() {
		t.Errorf("remaining transactions = %v, want only %s", remaining, txs[0].ID())
	}

	mustRun(t, &deleteCmd{}, txs[0].ID())
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("ledger file still exists after the last deletion: %v", err)
	}

	if status := run(t, &deleteCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("delete without ids: expected ExitUsageError, got %v", status)
	}
}

func TestImport(t *testing.T) {
	path, out := setup(t)
	mustRun(t, &paymentCmd{direction: flowtrack.TypeIncome}, "-n", "Earlier", "-a", "1", "-d", "2023-12-31")

	list := `[{"id":"2","type":"expense","name":"Rent","amount":500,"notes":"","date":"2024-01-06T10:00:00.000Z"},` +
		`{"id":"1","type":"stock-in","name":"Acme","item":"Widget","quantity":10,"notes":"","date":"2024-01-05T10:00:00.000Z"}]`
	export := filepath.Join(t.TempDir(), "export.json")
	writeFile(t, export, list)

	mustRun(t, &importCmd{}, "-path", "$", export)
	if !strings.Contains(out.String(), "Imported 2 transactions") {
		t.Errorf("unexpected output:\n%s", out)
	}

	var names []string
	for _, tx := range readLedger(t, path) {
		names = append(names, tx.Counterparty())
	}
	if got, want := strings.Join(names, ","), "Rent,Acme,Earlier"; got != want {
		t.Errorf("ledger names = %s, want %s", got, want)
	}
}

func TestImportInvalid(t *testing.T) {
	path, _ := setup(t)

	list := `[{"id":"2","type":"expense","name":"Rent","amount":500,"date":"2024-01-06T10:00:00.000Z"},` +
		`{"id":"1","type":"stock-in","name":"","item":"Widget","quantity":10,"date":"2024-01-05T10:00:00.000Z"}]`
	export := filepath.Join(t.TempDir(), "export.json")
	writeFile(t, export, list)

	if status := run(t, &importCmd{}, "-path", "$", export); status != subcommands.ExitFailure {
		t.Errorf("expected ExitFailure, got %v", status)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("an invalid import created the ledger file: %v", err)
	}
}

func TestExport(t *testing.T) {
	_, out := setup(t)
	mustRun(t, &paymentCmd{direction: flowtrack.TypeExpense}, "-n", "Rent", "-a", "500", "-d", "2024-01-06")

	output := filepath.Join(t.TempDir(), "history.xlsx")
	mustRun(t, &exportCmd{}, "-o", output)
	if !strings.Contains(out.String(), "Exported 1 transactions") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		t.Errorf("workbook was not written: %v", err)
	}

	if status := run(t, &exportCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("export without -o: expected ExitUsageError, got %v", status)
	}
}

func TestFmt(t *testing.T) {
	path, _ := setup(t)
	writeFile(t, path, `{"type":"expense","id":"b","date":"2024-01-06","name":"Rent","amount":500.00}

{"quantity":10,"item":"Widget","name":"Acme","date":"2024-01-05","type":"stock-in","id":"a"}
`)
	want := `{"id":"b","type":"expense","date":"2024-01-06","name":"Rent","amount":500}
{"id":"a","type":"stock-in","date":"2024-01-05","name":"Acme","item":"Widget","quantity":10}
`
	mustRun(t, &fmtCmd{})

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read formatted ledger file: %v", err)
	}
	if string(got) != want {
		t.Errorf("Formatted ledger mismatch.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestCorruptLedger(t *testing.T) {
	path, out := setup(t)
	corrupt := "this is not a ledger\n"
	writeFile(t, path, corrupt)

	mustRun(t, &historyCmd{}, "-raw")
	if !strings.Contains(out.String(), "No transactions recorded.") {
		t.Errorf("history of a corrupt ledger is not empty:\n%s", out)
	}

	if status := run(t, &stockCmd{direction: flowtrack.TypeStockIn}, "-n", "Acme", "-i", "Widget", "-q", "1"); status != subcommands.ExitFailure {
		t.Errorf("expected ExitFailure, got %v", status)
	}
	if got, _ := os.ReadFile(path); string(got) != corrupt {
		t.Errorf("corrupt ledger was overwritten with:\n%s", got)
	}
}

func TestTopic(t *testing.T) {
	_, out := setup(t)
	mustRun(t, &topicCmd{}, "-raw")
	if !strings.Contains(out.String(), "ledger-format") {
		t.Errorf("readme does not list the ledger-format topic:\n%s", out)
	}
	if status := run(t, &topicCmd{}, "no-such-topic"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic: expected ExitFailure, got %v", status)
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	// every registered command is completed.
	commander := subcommands.NewCommander(flag.NewFlagSet("ft", flag.ContinueOnError), "ft")
	Register(commander)
	commander.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if _, ok := c.Sub[cmd.Name()]; !ok {
			t.Errorf("command %q has no completion", cmd.Name())
		}
	})
}
