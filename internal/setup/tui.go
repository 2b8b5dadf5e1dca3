package setup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vadiminshakov/tokenholders/config"
	"github.com/vadiminshakov/tokenholders/internal/domain"
)

// DefaultPath is where the wizard writes its config.
const DefaultPath = "tokenholders.yaml"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// answers holds the raw wizard input.
type answers struct {
	rpcURL          string
	contract        string
	decimals        string
	fromBlock       string
	toBlock         string
	onlyTransfers   bool
	sorted          bool
	includeNegative bool
	output          string
	path            string
}

func defaultAnswers() answers {
	return answers{
		rpcURL:        config.DefaultRPCURL,
		decimals:      strconv.Itoa(config.DefaultDecimals),
		onlyTransfers: true,
		sorted:        true,
		output:        config.OutputTable,
		path:          DefaultPath,
	}
}

// Config converts the answers into a validated config.
func (a answers) Config() (config.Config, error) {
	cfg := config.Default()
	cfg.RPCURL = strings.TrimSpace(a.rpcURL)
	cfg.Contract = strings.TrimSpace(a.contract)

	decimals, err := strconv.ParseInt(strings.TrimSpace(a.decimals), 10, 32)
	if err != nil {
		return config.Config{}, fmt.Errorf("decimals must be an integer")
	}
	cfg.Decimals = int32(decimals)

	if cfg.FromBlock, err = domain.ParseBlockTag(a.fromBlock); err != nil {
		return config.Config{}, err
	}
	if cfg.ToBlock, err = domain.ParseBlockTag(a.toBlock); err != nil {
		return config.Config{}, err
	}

	if !a.onlyTransfers {
		cfg.Topics = []string{}
	}
	cfg.Sorted = a.sorted
	cfg.IncludeNegative = a.includeNegative
	cfg.Output = a.output

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// RunTUI launches the terminal configuration wizard and writes the result to a yaml file.
// It returns the path of the written file.
func RunTUI() (string, error) {
	a := defaultAnswers()
	var confirm bool

	// step 1: node
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("TOKENHOLDERS CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Point the scanner at a node and a token.\n"))
	fmt.Println(stepStyle.Render("STEP 1: NODE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("JSON-RPC URL").
				Description("{key} is replaced with INFURA_KEY at run time").
				Value(&a.rpcURL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("rpc url cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return "", err
	}

	// step 2: token
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TOKENHOLDERS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: TOKEN"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Contract Address").
				Description("ERC-20 contract (0x...)").
				Value(&a.contract).
				Validate(validateContract),
			huh.NewInput().
				Title("Decimals").
				Description("Token decimals, 18 for most tokens").
				Value(&a.decimals).
				Validate(validateDecimals),
		),
	).Run()
	if err != nil {
		return "", err
	}

	// step 3: range
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TOKENHOLDERS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: BLOCK RANGE"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From Block").
				Description("Number, hex or tag; empty for genesis").
				Value(&a.fromBlock).
				Validate(validateBlock),
			huh.NewInput().
				Title("To Block").
				Description("Number, hex or tag; empty for latest").
				Value(&a.toBlock).
				Validate(validateBlock),
			huh.NewConfirm().
				Title("Only Transfer events?").
				Value(&a.onlyTransfers),
		),
	).Run()
	if err != nil {
		return "", err
	}

	// step 4: output
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TOKENHOLDERS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: OUTPUT"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("Table", config.OutputTable),
					huh.NewOption("JSON", config.OutputJSON),
				).
				Value(&a.output),
			huh.NewConfirm().
				Title("Sort by balance?").
				Value(&a.sorted),
			huh.NewConfirm().
				Title("Show negative balances?").
				Description("Mint sources such as the zero address end up negative").
				Value(&a.includeNegative),
			huh.NewInput().
				Title("Config file").
				Value(&a.path),
		),
	).Run()
	if err != nil {
		return "", err
	}

	cfg, err := a.Config()
	if err != nil {
		return "", err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("TOKENHOLDERS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Node: %s\nContract: %s\nDecimals: %d\nBlocks: %s .. %s\nSorted: %t\nOutput: %s\n",
		cfg.RPCURL, cfg.Contract, cfg.Decimals, orDefault(cfg.FromBlock, domain.BlockEarliest),
		orDefault(cfg.ToBlock, domain.BlockLatest), cfg.Sorted, cfg.Output,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return "", err
	}

	if !confirm {
		return "", fmt.Errorf("setup cancelled by user")
	}

	if err := config.Save(a.path, cfg); err != nil {
		return "", fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", a.path)))
	return a.path, nil
}

func validateContract(s string) error {
	if !common.IsHexAddress(strings.TrimSpace(s)) {
		return fmt.Errorf("must be a 20-byte hex address")
	}
	return nil
}

func validateDecimals(s string) error {
	d, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if d < 0 || d > 77 {
		return fmt.Errorf("must be between 0 and 77")
	}
	return nil
}

func validateBlock(s string) error {
	_, err := domain.ParseBlockTag(s)
	return err
}

func orDefault(tag, def domain.BlockTag) domain.BlockTag {
	if tag == "" {
		return def
	}
	return tag
}
