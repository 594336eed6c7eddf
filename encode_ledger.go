package flowtrack

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/etnz/flowtrack/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// maxLineSize bounds a single JSONL line, notes included.
const maxLineSize = 1 << 20

// jsonTx has all the fields a persisted transaction can have.
type jsonTx struct {
	ID       string           `json:"id"`
	Type     Type             `json:"type"`
	Date     date.Date        `json:"date"`
	Name     string           `json:"name"`
	Notes    *string          `json:"notes"`
	Item     string           `json:"item"`
	Quantity Quantity         `json:"quantity"`
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency"`
}

func (j jsonTx) draft() Draft {
	d := Draft{
		Type:     j.Type,
		Date:     j.Date,
		Name:     j.Name,
		Item:     j.Item,
		Quantity: j.Quantity,
		Notes:    j.Notes,
	}
	if j.Amount != nil {
		d.Amount = M(*j.Amount, j.Currency)
	}
	return d
}

// DecodeTransactions decodes transactions from a stream of JSONL data, in
// the order they appear. Any line that is not a valid transaction makes the
// whole stream corrupt: the returned error wraps ErrCorrupt.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	txs := make([]Transaction, 0)
	seen := make(map[string]int)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for scanner.Scan() {
		n++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var temp jsonTx
		if err := json.Unmarshal(lineBytes, &temp); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorrupt, n, err)
		}
		if temp.ID == "" {
			return nil, fmt.Errorf("%w: line %d: missing id", ErrCorrupt, n)
		}
		if first, exists := seen[temp.ID]; exists {
			return nil, fmt.Errorf("%w: line %d: id %q already used on line %d", ErrCorrupt, n, temp.ID, first)
		}
		seen[temp.ID] = n

		d := temp.draft()
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorrupt, n, err)
		}
		txs = append(txs, d.build(temp.ID))
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorrupt, n+1, err)
		}
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return txs, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction %q: %w", tx.ID(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction %q: %w", tx.ID(), err)
	}
	return nil
}

// EncodeTransactions writes transactions in JSONL format, in the given order.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	bw := bufio.NewWriter(w)
	for _, tx := range txs {
		if err := EncodeTransaction(bw, tx); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeLedger writes the ledger in JSONL format, most recently added first.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	return EncodeTransactions(w, ledger.transactions)
}
