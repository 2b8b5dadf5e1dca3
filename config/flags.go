package config

import "github.com/urfave/cli/v2"

const envPrefix = "TOKENHOLDERS_"

func prefixEnvVars(name string) []string {
	return []string{envPrefix + name}
}

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "path to yaml config",
		EnvVars: prefixEnvVars("CONFIG"),
	}
	RPCURLFlag = &cli.StringFlag{
		Name:    "rpc-url",
		Usage:   "JSON-RPC endpoint, {key} is replaced with the API key",
		Value:   DefaultRPCURL,
		EnvVars: prefixEnvVars("RPC_URL"),
	}
	APIKeyFlag = &cli.StringFlag{
		Name:    "api-key",
		Usage:   "node provider API key",
		EnvVars: []string{"INFURA_KEY"},
	}
	ContractFlag = &cli.StringFlag{
		Name:    "contract",
		Usage:   "token contract address",
		EnvVars: prefixEnvVars("CONTRACT"),
	}
	DecimalsFlag = &cli.IntFlag{
		Name:  "decimals",
		Usage: "token decimals",
		Value: DefaultDecimals,
	}
	FromBlockFlag = &cli.StringFlag{
		Name:  "from-block",
		Usage: "first block: number, hex quantity or tag (default 0x0)",
	}
	ToBlockFlag = &cli.StringFlag{
		Name:  "to-block",
		Usage: "last block: number, hex quantity or tag (default latest)",
	}
	TopicFlag = &cli.StringSliceFlag{
		Name:  "topic",
		Usage: "positional topic filter, repeatable; '*' is a wildcard, 'a|b' matches either",
	}
	SortedFlag = &cli.BoolFlag{
		Name:  "sorted",
		Usage: "list balances by descending absolute amount instead of by address",
	}
	IncludeNegativeFlag = &cli.BoolFlag{
		Name:  "include-negative",
		Usage: "keep addresses with a net negative balance",
	}
	OutputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "output format: table or json",
		Value: OutputTable,
	}
	DebugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "development logging",
	}
)

// Flags are shared by every command.
var Flags = []cli.Flag{
	ConfigFlag,
	RPCURLFlag,
	APIKeyFlag,
	ContractFlag,
	DecimalsFlag,
	FromBlockFlag,
	ToBlockFlag,
	TopicFlag,
	SortedFlag,
	IncludeNegativeFlag,
	OutputFlag,
	DebugFlag,
}
