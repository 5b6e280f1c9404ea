package supplier

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// recordNamespace scopes the deterministic record IDs kept in the ledger.
var recordNamespace = uuid.MustParse("6f1c7f0e-3a8e-4d55-9b1e-2f6a0c9d4e21")

// RevShare is one explicit revenue-share allocation.
type RevShare struct {
	Address string
	Percent int
}

// Record is one line of the supplier mapping file:
//
//	<service_id> <owner> <operator> <stake_increment> <relay_url> [<addr> <percent>]*
type Record struct {
	Line            int
	ServiceID       string
	OwnerAddress    string
	OperatorAddress string
	StakeIncrement  uint64
	RelayURL        string
	RevShares       []RevShare
}

const requiredFields = 5

// ParseRecord parses a single non-comment line. Percent range checks are left
// to DeriveRevShares.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < requiredFields {
		return Record{}, fmt.Errorf("%w: expected at least %d fields, got %d", ErrMalformedRecord, requiredFields, len(fields))
	}

	increment, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: stake increment %q is not a non-negative integer", ErrMalformedRecord, fields[3])
	}

	u, err := url.Parse(fields[4])
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Record{}, fmt.Errorf("%w: relay url %q must be absolute", ErrMalformedRecord, fields[4])
	}

	rest := fields[requiredFields:]
	if len(rest)%2 != 0 {
		return Record{}, fmt.Errorf("%w: revenue share address %q has no percentage", ErrMalformedRecord, rest[len(rest)-1])
	}
	var shares []RevShare
	for i := 0; i < len(rest); i += 2 {
		pct, err := strconv.Atoi(rest[i+1])
		if err != nil {
			return Record{}, fmt.Errorf("%w: revenue share percentage %q for %s is not an integer", ErrMalformedRecord, rest[i+1], rest[i])
		}
		shares = append(shares, RevShare{Address: rest[i], Percent: pct})
	}

	return Record{
		ServiceID:       fields[0],
		OwnerAddress:    fields[1],
		OperatorAddress: fields[2],
		StakeIncrement:  increment,
		RelayURL:        fields[4],
		RevShares:       shares,
	}, nil
}

// ID is a deterministic identifier derived from the record's content, so the
// same line yields the same ID across runs and line moves.
func (r Record) ID() uuid.UUID {
	parts := []string{r.ServiceID, r.OwnerAddress, r.OperatorAddress, strconv.FormatUint(r.StakeIncrement, 10), r.RelayURL}
	for _, s := range r.RevShares {
		parts = append(parts, s.Address, strconv.Itoa(s.Percent))
	}
	return uuid.NewSHA1(recordNamespace, []byte(strings.Join(parts, "\x00")))
}

func (r Record) String() string {
	return fmt.Sprintf("line %d service=%s owner=%s operator=%s", r.Line, r.ServiceID, r.OwnerAddress, r.OperatorAddress)
}

// Entry is one data line of a mapping file: either a parsed record or the
// reason it could not be parsed.
type Entry struct {
	Line   int
	Raw    string
	Record Record
	Err    error
}

// Owner returns the owner address of the entry, best effort for malformed lines.
func (e Entry) Owner() string {
	if e.Err == nil {
		return e.Record.OwnerAddress
	}
	if f := strings.Fields(e.Raw); len(f) > 1 {
		return f[1]
	}
	return ""
}

// ReadEntries reads every non-blank, non-comment line of a mapping file.
// Malformed lines are returned with Err set; only I/O errors fail the read.
func ReadEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := ParseRecord(line)
		rec.Line = n
		entries = append(entries, Entry{Line: n, Raw: line, Record: rec, Err: err})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	return entries, nil
}
