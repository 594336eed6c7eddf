package flowtrack

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrNoData is returned by Storage.Load when nothing has been persisted yet.
	ErrNoData = errors.New("no ledger data")
	// ErrCorrupt is wrapped by errors about persisted data that cannot be decoded.
	ErrCorrupt = errors.New("corrupt ledger data")
)

// Storage persists the complete list of transactions of a Ledger.
//
// The ledger always hands over the complete list, most recently added first,
// and expects it back in the same order.
type Storage interface {
	// Load returns the persisted transactions, or ErrNoData.
	Load() ([]Transaction, error)
	// SaveAll replaces the persisted transactions with txs.
	SaveAll(txs []Transaction) error
	// Remove deletes the persisted representation. Removing nothing is not an error.
	Remove() error
}

// FileStorage persists transactions in a single JSONL file.
type FileStorage struct {
	path string
}

// NewFileStorage returns a Storage backed by the file at path. The file is
// created on the first save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the file path of the storage.
func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Load() ([]Transaction, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", s.path, err)
	}
	defer f.Close()

	txs, err := DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", s.path, err)
	}
	return txs, nil
}

// SaveAll writes the transactions to a temporary file and renames it over
// the ledger file, so a failed write never leaves a truncated ledger behind.
func (s *FileStorage) SaveAll(txs []Transaction) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", s.path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := EncodeTransactions(tmp, txs); err != nil {
		return fmt.Errorf("error writing ledger file %q: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing ledger file %q: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace ledger file %q: %w", s.path, err)
	}
	return nil
}

func (s *FileStorage) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not remove ledger file %q: %w", s.path, err)
	}
	return nil
}

// MemoryStorage keeps the encoded ledger in memory. It goes through the
// same codec as FileStorage.
type MemoryStorage struct {
	data    []byte
	present bool

	// WriteErr, when set, is returned by SaveAll and Remove without changing
	// the stored data.
	WriteErr error
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

// Bytes returns the persisted JSONL content, and false if nothing is persisted.
func (s *MemoryStorage) Bytes() ([]byte, bool) {
	return bytes.Clone(s.data), s.present
}

// Set replaces the persisted content with raw data.
func (s *MemoryStorage) Set(data []byte) {
	s.data, s.present = bytes.Clone(data), true
}

func (s *MemoryStorage) Load() ([]Transaction, error) {
	if !s.present {
		return nil, ErrNoData
	}
	return DecodeTransactions(bytes.NewReader(s.data))
}

func (s *MemoryStorage) SaveAll(txs []Transaction) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	var buf bytes.Buffer
	if err := EncodeTransactions(&buf, txs); err != nil {
		return err
	}
	s.data, s.present = buf.Bytes(), true
	return nil
}

func (s *MemoryStorage) Remove() error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.data, s.present = nil, false
	return nil
}

var (
	_ Storage = (*FileStorage)(nil)
	_ Storage = (*MemoryStorage)(nil)
)
