package supplier

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pokt-ops/supplierkit/pkg/common"
	"gopkg.in/yaml.v3"
)

// SupplierConfig is the document consumed by `pocketd tx supplier stake-supplier --config`.
// Field order is the emitted key order.
type SupplierConfig struct {
	OwnerAddress           string          `yaml:"owner_address"`
	OperatorAddress        string          `yaml:"operator_address"`
	StakeAmount            string          `yaml:"stake_amount"`
	DefaultRevSharePercent RevShares       `yaml:"default_rev_share_percent"`
	Services               []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	ServiceID string           `yaml:"service_id"`
	Endpoints []EndpointConfig `yaml:"endpoints"`
}

type EndpointConfig struct {
	PubliclyExposedURL string `yaml:"publicly_exposed_url"`
	RPCType            string `yaml:"rpc_type"`
}

// RevShares is an ordered address => percent mapping. A Go map would lose
// the input order, so it is marshalled through a yaml.Node.
type RevShares []RevShare

func (rs RevShares) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, s := range rs {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Address},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(s.Percent)},
		)
	}
	return node, nil
}

func (rs *RevShares) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("default_rev_share_percent: expected a mapping, got line %d", value.Line)
	}
	out := make(RevShares, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var pct int
		if err := value.Content[i+1].Decode(&pct); err != nil {
			return fmt.Errorf("default_rev_share_percent[%s]: %w", value.Content[i].Value, err)
		}
		out = append(out, RevShare{Address: value.Content[i].Value, Percent: pct})
	}
	*rs = out
	return nil
}

// StakeAmount formats an amount in the base denomination.
func StakeAmount(amount uint64) string {
	return strconv.FormatUint(amount, 10) + common.Denom
}

// BuildConfig assembles the supplier config for r staked at stake.
func BuildConfig(r Record, stake uint64) (SupplierConfig, error) {
	shares, err := DeriveRevShares(r)
	if err != nil {
		return SupplierConfig{}, err
	}
	return SupplierConfig{
		OwnerAddress:           r.OwnerAddress,
		OperatorAddress:        r.OperatorAddress,
		StakeAmount:            StakeAmount(stake),
		DefaultRevSharePercent: shares,
		Services: []ServiceConfig{{
			ServiceID: r.ServiceID,
			Endpoints: []EndpointConfig{{
				PubliclyExposedURL: r.RelayURL,
				RPCType:            common.RPCTypeJSONRPC,
			}},
		}},
	}, nil
}

// Render produces the YAML supplier config for r staked at stake.
func Render(r Record, stake uint64) ([]byte, error) {
	cfg, err := BuildConfig(r, stake)
	if err != nil {
		return nil, err
	}
	return cfg.Marshal()
}

func (c SupplierConfig) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode supplier config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode supplier config: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseSupplierConfig decodes a pre-rendered supplier config and checks the
// fields needed to submit it.
func ParseSupplierConfig(data []byte) (SupplierConfig, error) {
	var cfg SupplierConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	var missing []string
	if cfg.OwnerAddress == "" {
		missing = append(missing, "owner_address")
	}
	if cfg.OperatorAddress == "" {
		missing = append(missing, "operator_address")
	}
	if cfg.StakeAmount == "" {
		missing = append(missing, "stake_amount")
	}
	if len(cfg.Services) == 0 {
		missing = append(missing, "services")
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("%w: missing %s", ErrMalformedRecord, strings.Join(missing, ", "))
	}
	return cfg, nil
}
