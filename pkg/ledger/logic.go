package ledger

import (
	"errors"
	"fmt"
)

// DefaultPath is the ledger kept next to a mapping file.
func DefaultPath(input string) string {
	return input + ".ledger.json"
}

// Find returns the entry for recordID, or nil if it was never submitted.
func (data *Data) Find(recordID string) *Entry {
	for i := range data.Entries {
		if data.Entries[i].RecordID == recordID {
			return &data.Entries[i]
		}
	}
	return nil
}

// Add appends e. A record is only ever submitted once.
func (data *Data) Add(e Entry) error {
	if e.RecordID == "" {
		return errors.New("ledger entry has no record id")
	}
	if data.Find(e.RecordID) != nil {
		return fmt.Errorf("record %s already in ledger", e.RecordID)
	}
	data.Entries = append(data.Entries, e)
	return nil
}

// Ledger is a Data bound to the file it persists to.
type Ledger struct {
	path string
	data *Data
}

func Open(path string) (*Ledger, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Ledger{path: path, data: data}, nil
}

func (l *Ledger) Path() string {
	return l.path
}

func (l *Ledger) Lookup(recordID string) *Entry {
	return l.data.Find(recordID)
}

func (l *Ledger) Len() int {
	return len(l.data.Entries)
}

// Record adds e and saves the file immediately.
func (l *Ledger) Record(e Entry) error {
	if err := l.data.Add(e); err != nil {
		return err
	}
	return Save(l.path, l.data)
}
