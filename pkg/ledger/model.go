package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry records one successful live stake submission.
type Entry struct {
	RecordID    string    `json:"record_id"`
	Line        int       `json:"line"`
	ServiceID   string    `json:"service_id"`
	Owner       string    `json:"owner_address"`
	Operator    string    `json:"operator_address"`
	Increment   uint64    `json:"stake_increment"`
	StakeAmount uint64    `json:"stake_amount"`
	Kind        string    `json:"kind"`
	TxHash      string    `json:"txhash,omitempty"`
	RunID       string    `json:"run_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Data is the top-level structure of a ledger file.
type Data struct {
	Entries []Entry `json:"entries"`
}

// Load reads a ledger file. A missing file is an empty ledger.
func Load(path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Data{}, nil
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	var data Data
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("unmarshal ledger %s: %w", path, err)
	}
	return &data, nil
}

// Save writes the ledger through a temp file and rename so an interrupted
// run never leaves a truncated file behind.
func Save(path string, data *Data) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}
