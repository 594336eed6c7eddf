package cmd

import (
	"os"
	"strings"

	"github.com/etnz/flowtrack"
	"github.com/etnz/flowtrack/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the ft command. A main package
// calls its Complete method before parsing flags.
func Completion() *complete.Command {
	filters := predict.Set(append([]string{string(flowtrack.All)}, typeNames()...))
	dates := predict.Set{"0d", "-1d", "-1w", "-1m"}

	stock := &complete.Command{
		Flags: map[string]complete.Predictor{
			"n":     predict.Something,
			"i":     predict.Something,
			"q":     predict.Something,
			"d":     dates,
			"notes": predict.Something,
		},
		Args: predict.Nothing,
	}
	payment := func(withType bool) *complete.Command {
		c := &complete.Command{
			Flags: map[string]complete.Predictor{
				"n":     predict.Something,
				"a":     predict.Something,
				"c":     predict.Something,
				"d":     dates,
				"notes": predict.Something,
			},
			Args: predict.Nothing,
		}
		if withType {
			c.Flags["t"] = predict.Set{string(flowtrack.TypeIncome), string(flowtrack.TypeExpense)}
		}
		return c
	}

	return &complete.Command{
		Sub: map[string]*complete.Command{
			string(flowtrack.TypeStockIn):  stock,
			string(flowtrack.TypeStockOut): stock,
			string(flowtrack.TypeIncome):   payment(false),
			string(flowtrack.TypeExpense):  payment(false),
			"payment":                      payment(true),
			"delete": {
				Args: complete.PredictFunc(predictIDs),
			},
			"history": {
				Flags: map[string]complete.Predictor{
					"t":    filters,
					"head": predict.Something,
					"raw":  predict.Nothing,
				},
				Args: predict.Nothing,
			},
			"export": {
				Flags: map[string]complete.Predictor{
					"t": filters,
					"o": predict.Files("*.xlsx"),
				},
				Args: predict.Nothing,
			},
			"import": {
				Flags: map[string]complete.Predictor{
					"path": predict.Set{flowtrack.DefaultBrowserPath, "$"},
				},
				Args: predict.Files("*.json"),
			},
			"fmt": {Args: predict.Nothing},
			"topic": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  complete.PredictFunc(predictTopics),
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.yaml"),
			"ledger-file": predict.Files("*.jsonl"),
			"currency":    predict.Something,
			"v":           predict.Nothing,
		},
	}
}

func typeNames() []string {
	names := make([]string, 0, len(flowtrack.Types))
	for _, t := range flowtrack.Types {
		names = append(names, string(t))
	}
	return names
}

// predictIDs proposes the ids of the configured ledger. It stays silent on
// any error.
func predictIDs(prefix string) []string {
	cfg, err := settings()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(cfg.LedgerFile); err != nil {
		return nil
	}
	ledger, err := flowtrack.Open(flowtrack.NewFileStorage(cfg.LedgerFile))
	if err != nil {
		return nil
	}
	var ids []string
	for _, tx := range ledger.Transactions() {
		if strings.HasPrefix(tx.ID(), prefix) {
			ids = append(ids, tx.ID())
		}
	}
	return ids
}

func predictTopics(string) []string {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return nil
	}
	return append(topics, "readme", "*")
}
