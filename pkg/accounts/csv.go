package accounts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Columns of an accounts file, in the order they are written.
var Header = []string{
	"customer_id",
	"operator_address",
	"mnemonic",
	"owner_address",
	"revshare_address",
	"publicly_exposed_url",
	"rpc_type",
}

// Account is one row of an accounts file.
type Account struct {
	CustomerID         string
	OperatorAddress    string
	Mnemonic           string
	OwnerAddress       string
	RevShareAddress    string
	PubliclyExposedURL string
	RPCType            string
}

func (a Account) row() []string {
	return []string{a.CustomerID, a.OperatorAddress, a.Mnemonic, a.OwnerAddress, a.RevShareAddress, a.PubliclyExposedURL, a.RPCType}
}

// Write writes the header and every account.
func Write(w io.Writer, accounts []Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	for _, a := range accounts {
		if err := cw.Write(a.row()); err != nil {
			return fmt.Errorf("write account %s: %w", a.CustomerID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	return nil
}

// Read parses an accounts file. Columns are matched by header name, so
// extra or reordered columns are fine; customer_id is required.
func Read(r io.Reader) ([]Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("accounts file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read accounts header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["customer_id"]; !ok {
		return nil, errors.New("accounts file has no customer_id column")
	}

	var out []Account
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read accounts: %w", err)
		}
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		a := Account{
			CustomerID:         get("customer_id"),
			OperatorAddress:    get("operator_address"),
			Mnemonic:           get("mnemonic"),
			OwnerAddress:       get("owner_address"),
			RevShareAddress:    get("revshare_address"),
			PubliclyExposedURL: get("publicly_exposed_url"),
			RPCType:            get("rpc_type"),
		}
		if a == (Account{}) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
