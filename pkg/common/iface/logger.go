package iface

// Actor represents different actors in the system for color-coded logging
type Actor string

const (
	ActorSystem    Actor = "SYSTEM"    // File I/O, process lifecycle
	ActorOwner     Actor = "OWNER"     // Owner-signed transactions (stake, fund)
	ActorOperator  Actor = "OPERATOR"  // Operator accounts and keyring
	ActorConfig    Actor = "CONFIG"    // Configuration and rendered supplier configs
	ActorNetwork   Actor = "NETWORK"   // pocketd queries against the network
	ActorTelemetry Actor = "TELEMETRY" // Batch metrics
)

type Logger interface {
	Title(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)

	// Actor-based methods for color-coded logging
	TitleWithActor(actor Actor, msg string, args ...any)
	InfoWithActor(actor Actor, msg string, args ...any)
	WarnWithActor(actor Actor, msg string, args ...any)
	ErrorWithActor(actor Actor, msg string, args ...any)
	DebugWithActor(actor Actor, msg string, args ...any)
}
