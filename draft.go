package flowtrack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/flowtrack/date"
)

// Draft is a transaction as submitted by a user, before it is validated and
// given an identifier by the ledger.
//
// Stock drafts carry Item and Quantity, payment drafts carry Amount. Fields
// of the other category must be left to their zero value.
type Draft struct {
	Type     Type
	Date     date.Date
	Name     string
	Item     string
	Quantity Quantity
	Amount   Money
	Notes    *string // nil when no notes were given.
}

// NewStockDraft creates a draft for goods received (TypeStockIn) or dispensed (TypeStockOut).
func NewStockDraft(direction Type, day date.Date, name, item string, quantity Quantity, notes *string) Draft {
	return Draft{Type: direction, Date: day, Name: name, Item: item, Quantity: quantity, Notes: notes}
}

// NewPaymentDraft creates a draft for money received (TypeIncome) or spent (TypeExpense).
func NewPaymentDraft(direction Type, day date.Date, name string, amount Money, notes *string) Draft {
	return Draft{Type: direction, Date: day, Name: name, Amount: amount, Notes: notes}
}

// Text returns a pointer to s, to fill optional text fields such as Draft.Notes.
func Text(s string) *string { return &s }

// ValidationError reports every reason a draft was rejected.
type ValidationError struct {
	Type Type
	Err  error // Err joins all the failures.
}

func (e *ValidationError) Error() string {
	reasons := strings.ReplaceAll(e.Err.Error(), "\n", "; ")
	if e.Type == "" {
		return "invalid transaction: " + reasons
	}
	return fmt.Sprintf("invalid %s transaction: %s", e.Type, reasons)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks that the draft can become a transaction. It returns a
// *ValidationError listing all failures, or nil.
func (d Draft) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.New("name is missing"))
	}
	if d.Date.IsZero() {
		errs = append(errs, errors.New("date is missing"))
	}

	switch {
	case d.Type.IsStock():
		if strings.TrimSpace(d.Item) == "" {
			errs = append(errs, errors.New("item is missing"))
		}
		if !d.Quantity.IsPositive() {
			errs = append(errs, fmt.Errorf("quantity must be positive, got %s", d.Quantity))
		} else if !d.Quantity.IsInteger() {
			errs = append(errs, fmt.Errorf("quantity must be a whole number, got %s", d.Quantity))
		}
		if !d.Amount.IsZero() {
			errs = append(errs, fmt.Errorf("amount is not allowed for %s", d.Type))
		}
	case d.Type.IsPayment():
		if !d.Amount.IsPositive() {
			errs = append(errs, fmt.Errorf("amount must be positive, got %s", d.Amount))
		}
		if d.Item != "" || !d.Quantity.IsZero() {
			errs = append(errs, fmt.Errorf("item and quantity are not allowed for %s", d.Type))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown transaction type %q", d.Type))
	}

	if len(errs) > 0 {
		return &ValidationError{Type: d.Type, Err: errors.Join(errs...)}
	}
	return nil
}

// build turns a valid draft into its transaction variant.
func (d Draft) build(id string) Transaction {
	base := baseTx{id: id, Type: d.Type, Date: d.Date, Name: d.Name}
	if d.Notes != nil {
		base.Notes = Text(*d.Notes)
	}
	switch d.Type {
	case TypeStockIn:
		return StockIn{stockTx{baseTx: base, Item: d.Item, Quantity: d.Quantity}}
	case TypeStockOut:
		return StockOut{stockTx{baseTx: base, Item: d.Item, Quantity: d.Quantity}}
	case TypeIncome:
		return Income{paymentTx{baseTx: base, Amount: d.Amount}}
	case TypeExpense:
		return Expense{paymentTx{baseTx: base, Amount: d.Amount}}
	default:
		panic(fmt.Sprintf("build of an invalid draft type %q", d.Type))
	}
}
