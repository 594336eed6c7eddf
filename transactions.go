package flowtrack

import (
	"fmt"
	"strings"

	"github.com/etnz/flowtrack/date"
)

// Type identifies the kind of event a transaction records.
type Type string

// Transaction types.
const (
	TypeStockIn  Type = "stock-in"
	TypeStockOut Type = "stock-out"
	TypeIncome   Type = "income"
	TypeExpense  Type = "expense"
)

// Types lists every transaction type, stock types first.
var Types = []Type{TypeStockIn, TypeStockOut, TypeIncome, TypeExpense}

// ParseType parses one of "stock-in", "stock-out", "income" or "expense".
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsStock() && !t.IsPayment() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// IsStock reports whether t moves goods (item and quantity).
func (t Type) IsStock() bool { return t == TypeStockIn || t == TypeStockOut }

// IsPayment reports whether t moves money (amount).
func (t Type) IsPayment() bool { return t == TypeIncome || t == TypeExpense }

// Transaction is a single record of the ledger. It is implemented by
// StockIn, StockOut, Income and Expense and never mutated once created.
type Transaction interface {
	ID() string           // ID returns the unique and immutable identifier of the transaction.
	What() Type           // What returns the type of the transaction.
	When() date.Date      // When returns the date on which the event occurred.
	Counterparty() string // Counterparty returns the name: supplier, customer, source or description.
	Note() (string, bool) // Note returns the notes and whether they were given at all.
	Equal(Transaction) bool
}

// StockMovement is implemented by StockIn and StockOut.
type StockMovement interface {
	Transaction
	Goods() (item string, quantity Quantity)
}

// CashMovement is implemented by Income and Expense.
type CashMovement interface {
	Transaction
	Money() Money
	// Signed returns the amount, negative for an expense.
	Signed() Money
}

type baseTx struct {
	id    string
	Type  Type      // Type of the transaction, matches the concrete Go type.
	Date  date.Date // Date is the day of the event, chosen by the user.
	Name  string    // Name is the counterparty, source or expense description.
	Notes *string   // Notes is nil when absent, and may point to an empty string.
}

func (t baseTx) ID() string           { return t.id }
func (t baseTx) What() Type           { return t.Type }
func (t baseTx) When() date.Date      { return t.Date }
func (t baseTx) Counterparty() string { return t.Name }

func (t baseTx) Note() (string, bool) {
	if t.Notes == nil {
		return "", false
	}
	return *t.Notes, true
}

func (t baseTx) equal(o baseTx) bool {
	if t.id != o.id || t.Type != o.Type || t.Date != o.Date || t.Name != o.Name {
		return false
	}
	if (t.Notes == nil) != (o.Notes == nil) {
		return false
	}
	return t.Notes == nil || *t.Notes == *o.Notes
}

// MarshalJSON implements the json.Marshaler interface for baseTx.
func (t baseTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.id)
	w.Append("type", t.Type)
	w.Append("date", t.Date)
	w.Append("name", t.Name)
	w.Optional("notes", t.Notes)
	return w.MarshalJSON()
}

// stockTx is the component shared by stock movements.
type stockTx struct {
	baseTx
	Item     string   // Item is the good received or dispensed.
	Quantity Quantity // Quantity is the positive number of items.
}

func (t stockTx) Goods() (string, Quantity) { return t.Item, t.Quantity }

func (t stockTx) equal(o stockTx) bool {
	return t.baseTx.equal(o.baseTx) && t.Item == o.Item && t.Quantity.Equal(o.Quantity)
}

// MarshalJSON implements the json.Marshaler interface for stockTx.
func (t stockTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Append("item", t.Item)
	w.Append("quantity", t.Quantity)
	return w.MarshalJSON()
}

// StockIn records goods received.
type StockIn struct{ stockTx }

// StockOut records goods dispensed.
type StockOut struct{ stockTx }

func (t StockIn) Equal(other Transaction) bool {
	o, ok := other.(StockIn)
	return ok && t.stockTx.equal(o.stockTx)
}

func (t StockOut) Equal(other Transaction) bool {
	o, ok := other.(StockOut)
	return ok && t.stockTx.equal(o.stockTx)
}

// paymentTx is the component shared by cash movements.
type paymentTx struct {
	baseTx
	Amount Money // Amount is the positive value paid or received.
}

func (t paymentTx) Money() Money { return t.Amount }

func (t paymentTx) equal(o paymentTx) bool {
	return t.baseTx.equal(o.baseTx) && t.Amount.Equal(o.Amount)
}

// MarshalJSON implements the json.Marshaler interface for paymentTx.
func (t paymentTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.EmbedFrom(t.Amount)
	return w.MarshalJSON()
}

// Income records money received.
type Income struct{ paymentTx }

// Expense records money spent.
type Expense struct{ paymentTx }

func (t Income) Signed() Money  { return t.Amount }
func (t Expense) Signed() Money { return t.Amount.Neg() }

func (t Income) Equal(other Transaction) bool {
	o, ok := other.(Income)
	return ok && t.paymentTx.equal(o.paymentTx)
}

func (t Expense) Equal(other Transaction) bool {
	o, ok := other.(Expense)
	return ok && t.paymentTx.equal(o.paymentTx)
}

var (
	_ StockMovement = StockIn{}
	_ StockMovement = StockOut{}
	_ CashMovement  = Income{}
	_ CashMovement  = Expense{}
)
