package flowtrack

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/flowtrack/date"
	"github.com/shopspring/decimal"
)

// this file handles the import of the history kept by the FlowTrack web app.
// The web app stores a JSON array of transactions, as a string, under the
// local storage key "flowtrack-transactions". Browser tools usually export
// local storage as a JSON object of key/value pairs.

// BrowserStorageKey is the local storage key used by the FlowTrack web app.
const BrowserStorageKey = "flowtrack-transactions"

// DefaultBrowserPath is the JSONPath locating the transactions in a local storage export.
const DefaultBrowserPath = `$["` + BrowserStorageKey + `"]`

// browserTx is a transaction as serialized by the web app. Dates are
// serialized by Date.toJSON, as an RFC 3339 date-time in UTC.
type browserTx struct {
	ID       string           `json:"id"`
	Type     Type             `json:"type"`
	Name     string           `json:"name"`
	Item     string           `json:"item"`
	Quantity *decimal.Decimal `json:"quantity"`
	Amount   *decimal.Decimal `json:"amount"`
	Notes    *string          `json:"notes"`
	Date     string           `json:"date"`
}

// ImportBrowser reads a JSON document exported from the web app and returns
// one draft per transaction, in document order (most recent first).
//
// path is a JSONPath expression locating the transactions in the document,
// DefaultBrowserPath when empty. Use "$" when the document is the array
// itself. The located value may be the array or a string holding it.
// Amounts get the currency cur.
func ImportBrowser(r io.Reader, path, cur string) ([]Draft, error) {
	if path == "" {
		path = DefaultBrowserPath
	}
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse browser export: %w", err)
	}

	found, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot find transactions at %q: %w", path, err)
	}

	var raw []byte
	switch v := found.(type) {
	case string:
		raw = []byte(v)
	case []any:
		if raw, err = json.Marshal(v); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("value at %q is a %T, want a list of transactions", path, found)
	}

	var list []browserTx
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("cannot parse transactions at %q: %w", path, err)
	}

	drafts := make([]Draft, 0, len(list))
	for i, btx := range list {
		d, err := btx.draft(cur)
		if err != nil {
			return nil, fmt.Errorf("transaction #%d (%s): %w", i+1, btx.ID, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (b browserTx) draft(cur string) (Draft, error) {
	day, err := date.ParseStored(b.Date)
	if err != nil {
		return Draft{}, err
	}
	d := Draft{
		Type:  b.Type,
		Date:  day,
		Name:  b.Name,
		Item:  b.Item,
		Notes: b.Notes,
	}
	if b.Quantity != nil {
		d.Quantity = Q(*b.Quantity)
	}
	if b.Amount != nil {
		d.Amount = M(*b.Amount, cur)
	}
	return d, d.Validate()
}
