package constants

// Node client defaults
const (
	DefaultBinary = "junod"
	DefaultOutput = "json"

	// DefaultNetwork is the preset used when neither config nor flags name one.
	DefaultNetwork = "uni"
)

// Config discovery
const (
	DefaultConfigPath = "./cwquery.yaml"
	EnvPrefix         = "CWQUERY"
)

// Exit statuses produced locally (everything else comes from the node client)
const (
	ExitOK            = 0
	ExitMissingArg    = 1
	ExitStartFailure  = 1
	ExitInvalidConfig = 2
)

// MissingContractMessage is printed to stdout when no address is given.
const MissingContractMessage = "Must provide contract address"
