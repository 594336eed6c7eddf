package flowtrack

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/flowtrack/date"
)

func TestDraft_Validate(t *testing.T) {
	day := date.New(2024, 1, 5)
	testCases := []struct {
		name    string
		draft   Draft
		wantErr []string // substrings of the error, none when valid.
	}{
		{
			name:  "valid stock in",
			draft: NewStockDraft(TypeStockIn, day, "Acme", "Widget", Q(10), nil),
		},
		{
			name:  "valid expense with notes",
			draft: NewPaymentDraft(TypeExpense, day, "Rent", M(500, "USD"), Text("january")),
		},
		{
			name:    "blank name",
			draft:   NewStockDraft(TypeStockOut, day, "  ", "Widget", Q(1), nil),
			wantErr: []string{"name is missing"},
		},
		{
			name:    "missing date",
			draft:   NewPaymentDraft(TypeIncome, date.Date{}, "Bob", M(1, "USD"), nil),
			wantErr: []string{"date is missing"},
		},
		{
			name:    "zero quantity",
			draft:   NewStockDraft(TypeStockIn, day, "Acme", "Widget", Q(0), nil),
			wantErr: []string{"quantity must be positive"},
		},
		{
			name:    "fractional quantity",
			draft:   NewStockDraft(TypeStockIn, day, "Acme", "Widget", Q(1.5), nil),
			wantErr: []string{"whole number"},
		},
		{
			name:    "stock with amount",
			draft:   Draft{Type: TypeStockIn, Date: day, Name: "Acme", Item: "Widget", Quantity: Q(1), Amount: M(3, "USD")},
			wantErr: []string{"amount is not allowed"},
		},
		{
			name:    "negative amount",
			draft:   NewPaymentDraft(TypeExpense, day, "Rent", M(-5, "USD"), nil),
			wantErr: []string{"amount must be positive"},
		},
		{
			name:    "payment with item",
			draft:   Draft{Type: TypeIncome, Date: day, Name: "Bob", Item: "Widget", Amount: M(3, "USD")},
			wantErr: []string{"item and quantity are not allowed"},
		},
		{
			name:    "unknown type",
			draft:   Draft{Type: "transfer", Date: day, Name: "Bob"},
			wantErr: []string{`unknown transaction type "transfer"`},
		},
		{
			name:    "every failure is reported",
			draft:   NewStockDraft(TypeStockIn, date.Date{}, "", "", Q(-1), nil),
			wantErr: []string{"name is missing", "date is missing", "item is missing", "quantity must be positive"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if len(tc.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want a *ValidationError", err)
			}
			if verr.Type != tc.draft.Type {
				t.Errorf("ValidationError.Type = %q, want %q", verr.Type, tc.draft.Type)
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() error = %q, want it to contain %q", err, want)
				}
			}
			if strings.Contains(err.Error(), "\n") {
				t.Errorf("Validate() error spans several lines: %q", err)
			}
		})
	}
}

func TestDraft_NotesAreCopied(t *testing.T) {
	notes := Text("original")
	tx := NewPaymentDraft(TypeIncome, date.New(2024, 1, 5), "Bob", M(1, "USD"), notes).build("id")
	*notes = "changed"
	if got, _ := tx.Note(); got != "original" {
		t.Errorf("Note() = %q, want %q", got, "original")
	}
}
