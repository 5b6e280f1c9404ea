package supplier

import "fmt"

const fullShare = 100

// DeriveRevShares computes the default_rev_share_percent allocation for r.
// Explicit shares are kept in input order. Whatever they leave unallocated
// goes to the owner; with no explicit shares the owner receives everything.
// If the owner is listed explicitly the remainder is added to that entry.
func DeriveRevShares(r Record) ([]RevShare, error) {
	if len(r.RevShares) == 0 {
		return []RevShare{{Address: r.OwnerAddress, Percent: fullShare}}, nil
	}

	shares := make([]RevShare, 0, len(r.RevShares)+1)
	index := make(map[string]int, len(r.RevShares))
	consumed := 0
	for _, s := range r.RevShares {
		if s.Percent < 0 || s.Percent > fullShare {
			return nil, fmt.Errorf("%w: percentage %d for %s is outside 0-100", ErrMalformedRecord, s.Percent, s.Address)
		}
		if _, dup := index[s.Address]; dup {
			return nil, fmt.Errorf("%w: revenue share address %s listed twice", ErrMalformedRecord, s.Address)
		}
		consumed += s.Percent
		if consumed > fullShare {
			return nil, fmt.Errorf("%w: explicit shares add up to at least %d", ErrRevShareOverflow, consumed)
		}
		index[s.Address] = len(shares)
		shares = append(shares, s)
	}

	if remainder := fullShare - consumed; remainder > 0 {
		if i, ok := index[r.OwnerAddress]; ok {
			shares[i].Percent += remainder
		} else {
			shares = append(shares, RevShare{Address: r.OwnerAddress, Percent: remainder})
		}
	}
	return shares, nil
}
