// Package flowtrack records the small business events of a stock and cash
// ledger: goods received and dispensed, money received and spent.
//
// The core functionalities include:
//   - Ledger Management: adding validated transactions, deleting them by id,
//     and listing them most recent first, optionally filtered by type.
//   - Data Persistence: keeping the full list in a Storage, a JSONL file by
//     default, rewritten completely after every change.
//   - Browser Import: reading the history kept by the FlowTrack web app in
//     the local storage of a browser.
//
// This package serves as the foundational logic for the `ft` command-line
// tool.
package flowtrack
