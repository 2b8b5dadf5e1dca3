// Package config loads run settings from command-line flags and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/tokenholders/internal/domain"
)

const (
	// DefaultRPCURL points at Infura mainnet; {key} is the project key.
	DefaultRPCURL   = "https://mainnet.infura.io/v3/{key}"
	DefaultDecimals = 18

	OutputTable = "table"
	OutputJSON  = "json"

	keyPlaceholder = "{key}"
	// maxDecimals keeps 10^decimals within uint256.
	maxDecimals = 77
)

// ErrMissingAPIKey is returned when the endpoint needs a key and none was given.
var ErrMissingAPIKey = errors.New("rpc url needs an API key: set INFURA_KEY or --api-key")

type Config struct {
	RPCURL          string
	APIKey          string
	Contract        string
	Decimals        int32
	FromBlock       domain.BlockTag
	ToBlock         domain.BlockTag
	Topics          []string
	Sorted          bool
	IncludeNegative bool
	Output          string
	Debug           bool
}

type ConfigTmp struct {
	RPCURL          string   `yaml:"rpc_url,omitempty"`
	Contract        string   `yaml:"contract"`
	DecimalsStr     string   `yaml:"decimals,omitempty"`
	FromBlock       string   `yaml:"from_block,omitempty"`
	ToBlock         string   `yaml:"to_block,omitempty"`
	Topics          []string `yaml:"topics"`
	Sorted          bool     `yaml:"sorted,omitempty"`
	IncludeNegative bool     `yaml:"include_negative,omitempty"`
	Output          string   `yaml:"output,omitempty"`
}

// Default returns the settings used when nothing is configured.
// Only Transfer events are requested by default.
func Default() Config {
	return Config{
		RPCURL:   DefaultRPCURL,
		Decimals: DefaultDecimals,
		Topics:   []string{domain.TransferEventTopic},
		Output:   OutputTable,
	}
}

// Load builds the config from the yaml file named by --config (if any) and
// then applies every flag that was set explicitly. Flags may be given before
// or after the command name.
func Load(c *cli.Context) (Config, error) {
	cfg := Default()
	if fc, ok := lookup(c, ConfigFlag.Name); ok {
		if path := fc.String(ConfigFlag.Name); path != "" {
			var err error
			cfg, err = getYaml(path)
			if err != nil {
				return Config{}, err
			}
		}
	}

	if fc, ok := lookup(c, RPCURLFlag.Name); ok {
		cfg.RPCURL = fc.String(RPCURLFlag.Name)
	}
	fc, _ := lookup(c, APIKeyFlag.Name)
	cfg.APIKey = fc.String(APIKeyFlag.Name)
	if fc, ok := lookup(c, ContractFlag.Name); ok {
		cfg.Contract = fc.String(ContractFlag.Name)
	}
	if fc, ok := lookup(c, DecimalsFlag.Name); ok {
		decimals := fc.Int(DecimalsFlag.Name)
		if decimals < 0 || decimals > maxDecimals {
			return Config{}, fmt.Errorf("decimals must be in [0, %d], got %d", maxDecimals, decimals)
		}
		cfg.Decimals = int32(decimals)
	}
	if fc, ok := lookup(c, FromBlockFlag.Name); ok {
		tag, err := domain.ParseBlockTag(fc.String(FromBlockFlag.Name))
		if err != nil {
			return Config{}, errors.Wrap(err, "--from-block")
		}
		cfg.FromBlock = tag
	}
	if fc, ok := lookup(c, ToBlockFlag.Name); ok {
		tag, err := domain.ParseBlockTag(fc.String(ToBlockFlag.Name))
		if err != nil {
			return Config{}, errors.Wrap(err, "--to-block")
		}
		cfg.ToBlock = tag
	}
	if fc, ok := lookup(c, TopicFlag.Name); ok {
		cfg.Topics = fc.StringSlice(TopicFlag.Name)
	}
	if fc, ok := lookup(c, SortedFlag.Name); ok {
		cfg.Sorted = fc.Bool(SortedFlag.Name)
	}
	if fc, ok := lookup(c, IncludeNegativeFlag.Name); ok {
		cfg.IncludeNegative = fc.Bool(IncludeNegativeFlag.Name)
	}
	if fc, ok := lookup(c, OutputFlag.Name); ok {
		cfg.Output = fc.String(OutputFlag.Name)
	}
	if fc, ok := lookup(c, DebugFlag.Name); ok {
		cfg.Debug = fc.Bool(DebugFlag.Name)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// lookup returns the nearest context in c's lineage where the flag was set.
// Commands declare the same flags as the app, so a flag given before the
// command name lives in a parent context. Falls back to c when unset.
func lookup(c *cli.Context, name string) (*cli.Context, bool) {
	for _, fc := range c.Lineage() {
		if fc.IsSet(name) {
			return fc, true
		}
	}
	return c, false
}

// Validate checks the settings needed to run a scan.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return errors.New("rpc url is required")
	}
	if !common.IsHexAddress(c.Contract) {
		return fmt.Errorf("invalid contract address %q", c.Contract)
	}
	if c.Decimals < 0 || c.Decimals > maxDecimals {
		return fmt.Errorf("decimals must be in [0, %d], got %d", maxDecimals, c.Decimals)
	}
	if c.Output != OutputTable && c.Output != OutputJSON {
		return fmt.Errorf("unknown output %q, use %s or %s", c.Output, OutputTable, OutputJSON)
	}
	if _, err := c.TopicFilters(); err != nil {
		return err
	}
	return nil
}

// Endpoint returns the RPC URL with the API key substituted.
func (c Config) Endpoint() (string, error) {
	if !strings.Contains(c.RPCURL, keyPlaceholder) {
		return c.RPCURL, nil
	}
	if c.APIKey == "" {
		return "", ErrMissingAPIKey
	}
	return strings.ReplaceAll(c.RPCURL, keyPlaceholder, c.APIKey), nil
}

// TopicFilters converts the configured topics into eth_getLogs positional filters.
// "*" or "" is a wildcard (null), "a|b" is an OR list.
func (c Config) TopicFilters() ([]any, error) {
	filters := make([]any, 0, len(c.Topics))
	for i, t := range c.Topics {
		t = strings.TrimSpace(t)
		if t == "" || t == "*" {
			filters = append(filters, nil)
			continue
		}

		alternatives := strings.Split(t, "|")
		for _, a := range alternatives {
			if !isTopic(a) {
				return nil, fmt.Errorf("topic %d: %q is not a 32-byte hex value", i, a)
			}
		}
		if len(alternatives) == 1 {
			filters = append(filters, alternatives[0])
			continue
		}
		filters = append(filters, alternatives)
	}
	return filters, nil
}

func isTopic(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == common.HashLength
}

func getYaml(path string) (Config, error) {
	var tmp ConfigTmp

	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse yaml config %s", path)
	}

	cfg := Default()
	if tmp.RPCURL != "" {
		cfg.RPCURL = tmp.RPCURL
	}
	cfg.Contract = tmp.Contract

	if tmp.DecimalsStr != "" {
		decimals, err := strconv.ParseInt(tmp.DecimalsStr, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'decimals' param in yaml config (must be an integer), error: %w", err)
		}
		cfg.Decimals = int32(decimals)
	}

	if cfg.FromBlock, err = domain.ParseBlockTag(tmp.FromBlock); err != nil {
		return Config{}, fmt.Errorf("incorrect 'from_block' param in yaml config, error: %w", err)
	}
	if cfg.ToBlock, err = domain.ParseBlockTag(tmp.ToBlock); err != nil {
		return Config{}, fmt.Errorf("incorrect 'to_block' param in yaml config, error: %w", err)
	}

	if tmp.Topics != nil {
		cfg.Topics = tmp.Topics
	}
	cfg.Sorted = tmp.Sorted
	cfg.IncludeNegative = tmp.IncludeNegative
	if tmp.Output != "" {
		cfg.Output = tmp.Output
	}

	return cfg, nil
}

// Save writes cfg as a yaml config file. The API key is never written.
func Save(path string, cfg Config) error {
	// nil means the default filter, an empty list means all logs.
	topics := cfg.Topics
	if topics == nil {
		topics = Default().Topics
	}

	tmp := ConfigTmp{
		RPCURL:          cfg.RPCURL,
		Contract:        cfg.Contract,
		DecimalsStr:     strconv.Itoa(int(cfg.Decimals)),
		FromBlock:       cfg.FromBlock.String(),
		ToBlock:         cfg.ToBlock.String(),
		Topics:          topics,
		Sorted:          cfg.Sorted,
		IncludeNegative: cfg.IncludeNegative,
		Output:          cfg.Output,
	}

	out, err := yaml.Marshal(tmp)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return os.WriteFile(path, out, 0o600)
}
