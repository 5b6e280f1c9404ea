package common

import "time"

// Denom is the base denomination every stake, fee and transfer amount is expressed in.
const Denom = "upokt"

// RPCTypeJSONRPC is the only endpoint protocol tag emitted into supplier configs.
const RPCTypeJSONRPC = "JSON_RPC"

const (
	DefaultBinary         = "pocketd"
	DefaultFees           = "20000upokt"
	DefaultKeyringBackend = "test"
	DefaultTxDelay        = 2 * time.Second
	DefaultTxTimeout      = time.Minute
	DefaultConfigFile     = "supplierkit.toml"
	EnvFile               = ".env"
)
