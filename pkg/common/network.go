package common

import (
	"fmt"
	"sort"
	"strings"
)

// Network is a named Pocket network with the node endpoint and chain id every
// pocketd invocation is pinned to.
type Network struct {
	Name    string `toml:"-"`
	Node    string `toml:"node"`
	ChainID string `toml:"chain_id"`
}

const (
	NetworkMain = "main"
	NetworkBeta = "beta"
)

var knownNetworks = map[string]Network{
	NetworkMain: {
		Name:    NetworkMain,
		Node:    "https://shannon-grove-rpc.mainnet.poktroll.com",
		ChainID: "pocket",
	},
	NetworkBeta: {
		Name:    NetworkBeta,
		Node:    "https://shannon-testnet-grove-rpc.beta.poktroll.com",
		ChainID: "pocket-beta",
	},
}

// NetworkNames returns the supported network names in a stable order.
func NetworkNames() []string {
	names := make([]string, 0, len(knownNetworks))
	for n := range knownNetworks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupNetwork resolves name against the built-in table. Non-empty fields in
// override replace the built-in endpoint or chain id; unknown names are rejected
// even when an override exists for them.
func LookupNetwork(name string, overrides map[string]Network) (Network, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	n, ok := knownNetworks[name]
	if !ok {
		return Network{}, fmt.Errorf("unknown network %q (supported: %s)", name, strings.Join(NetworkNames(), ", "))
	}
	if o, ok := overrides[name]; ok {
		if o.Node != "" {
			n.Node = o.Node
		}
		if o.ChainID != "" {
			n.ChainID = o.ChainID
		}
	}
	return n, nil
}
