package flowtrack

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultCurrency is the currency of amounts recorded without one.
const DefaultCurrency = "USD"

// maxIDAttempts bounds the search for an identifier not used yet.
const maxIDAttempts = 16

// Ledger holds the list of transactions, most recently added first, and
// keeps its Storage in sync with it.
//
// Every mutation computes the new list, persists it in full, then replaces
// the in-memory list. A Ledger is not safe for concurrent use.
type Ledger struct {
	transactions []Transaction
	storage      Storage
	currency     string
	newID        func() string
	log          zerolog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used to report loads, mutations and storage failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Ledger) { l.log = logger }
}

// WithCurrency sets the currency given to amounts drafted without one.
func WithCurrency(currency string) Option {
	return func(l *Ledger) { l.currency = strings.ToUpper(currency) }
}

// WithIDGenerator replaces the random UUID generator of new transaction ids.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// NewLedger creates an empty ledger persisted in storage. It does not read
// the storage, see Open.
func NewLedger(storage Storage, opts ...Option) *Ledger {
	l := &Ledger{
		transactions: make([]Transaction, 0),
		storage:      storage,
		currency:     DefaultCurrency,
		newID:        uuid.NewString,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open creates a ledger and loads it from storage.
//
// The returned ledger is always usable: if the persisted data cannot be
// read, the ledger starts empty and the error is returned for reporting.
func Open(storage Storage, opts ...Option) (*Ledger, error) {
	l := NewLedger(storage, opts...)
	return l, l.Load()
}

// Load replaces the ledger content with the persisted one. When nothing is
// persisted the ledger is empty. When the persisted data is unreadable the
// ledger is empty too, and the error is returned.
func (l *Ledger) Load() error {
	txs, err := l.storage.Load()
	switch {
	case errors.Is(err, ErrNoData):
		l.transactions = make([]Transaction, 0)
		l.log.Debug().Msg("no persisted ledger, starting empty")
		return nil
	case err != nil:
		l.transactions = make([]Transaction, 0)
		l.log.Error().Err(err).Msg("discarding unreadable ledger data, starting empty")
		return fmt.Errorf("could not load ledger: %w", err)
	}
	l.transactions = txs
	l.log.Debug().Int("count", len(txs)).Msg("ledger loaded")
	return nil
}

// SaveError reports that a mutation was applied in memory but could not be
// persisted.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return "changes may not be saved: " + e.Err.Error() }
func (e *SaveError) Unwrap() error { return e.Err }

// Add validates the draft, gives it a fresh id and records it as the most
// recent transaction. The full list is persisted before Add returns.
//
// A draft that fails validation returns a *ValidationError and leaves the
// ledger untouched. If persisting fails, the transaction is still recorded
// in memory and returned along with a *SaveError.
func (l *Ledger) Add(d Draft) (Transaction, error) {
	if d.Type.IsPayment() && d.Amount.Currency() == "" {
		d.Amount = d.Amount.WithCurrency(l.currency)
	}
	if err := d.Validate(); err != nil {
		l.log.Debug().Err(err).Str("type", string(d.Type)).Msg("draft rejected")
		return nil, err
	}
	id, err := l.uniqueID()
	if err != nil {
		return nil, err
	}
	tx := d.build(id)

	updated := make([]Transaction, 0, len(l.transactions)+1)
	updated = append(updated, tx)
	updated = append(updated, l.transactions...)

	err = l.persist(updated)
	l.transactions = updated
	l.log.Debug().Str("id", id).Str("type", string(tx.What())).Msg("transaction added")
	return tx, err
}

// Delete removes the transaction with this id. Deleting an unknown id does
// nothing and is not an error. When the last transaction is deleted the
// persisted representation is removed.
//
// As for Add, a persistence failure returns a *SaveError after the deletion
// is applied in memory.
func (l *Ledger) Delete(id string) error {
	i := l.index(id)
	if i < 0 {
		l.log.Debug().Str("id", id).Msg("nothing to delete")
		return nil
	}
	updated := slices.Delete(slices.Clone(l.transactions), i, i+1)

	err := l.persist(updated)
	l.transactions = updated
	l.log.Debug().Str("id", id).Int("remaining", len(updated)).Msg("transaction deleted")
	return err
}

// Save persists the current content of the ledger, in full.
func (l *Ledger) Save() error {
	return l.persist(l.transactions)
}

// persist writes the complete list, or removes the persisted entry when the
// list is empty.
func (l *Ledger) persist(txs []Transaction) error {
	var err error
	if len(txs) == 0 {
		err = l.storage.Remove()
	} else {
		err = l.storage.SaveAll(txs)
	}
	if err != nil {
		l.log.Warn().Err(err).Msg("changes may not be saved")
		return &SaveError{Err: err}
	}
	return nil
}

func (l *Ledger) uniqueID() (string, error) {
	for range maxIDAttempts {
		id := l.newID()
		if id != "" && l.index(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique transaction id after %d attempts", maxIDAttempts)
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID() == id })
}

// Currency returns the currency given to amounts drafted without one.
func (l *Ledger) Currency() string { return l.currency }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Get returns the transaction with this id.
func (l *Ledger) Get(id string) (Transaction, bool) {
	if i := l.index(id); i >= 0 {
		return l.transactions[i], true
	}
	return nil, false
}

// Transactions returns all transactions, most recently added first.
func (l *Ledger) Transactions() []Transaction {
	return slices.Clone(l.transactions)
}

// ByType returns the transactions accepted by the filter, most recently
// added first.
func (l *Ledger) ByType(filter Filter) []Transaction {
	if filter == All {
		return l.Transactions()
	}
	return slices.Collect(values(l.Iter(filter.Accept)))
}

// Iter returns an iterator over the transactions accepted by every
// predicate, most recently added first, with their position in the ledger.
func (l *Ledger) Iter(predicates ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !acceptAll(tx, predicates) {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

func acceptAll(tx Transaction, predicates []func(Transaction) bool) bool {
	for _, accept := range predicates {
		if !accept(tx) {
			return false
		}
	}
	return true
}

func values[K, V any](seq iter.Seq2[K, V]) iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range seq {
			if !yield(v) {
				return
			}
		}
	}
}

// Filter narrows a history view: All, or a single transaction type.
type Filter string

// All is the filter accepting every transaction.
const All Filter = "all"

// ParseFilter parses "all" or a transaction type. The empty string is All.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(All) {
		return All, nil
	}
	t, err := ParseType(s)
	if err != nil {
		return "", fmt.Errorf("unknown filter %q, want %q or a transaction type", s, All)
	}
	return Filter(t), nil
}

// Accept reports whether tx passes the filter.
func (f Filter) Accept(tx Transaction) bool {
	return f == All || Type(f) == tx.What()
}

// OfType returns a predicate accepting transactions of type t.
func OfType(t Type) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.What() == t }
}
