// Package render prints balances and transfers as terminal tables or JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/tokenholders/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	negative  = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF6B6B"}

	headerStyle  = lipgloss.NewStyle().Foreground(highlight).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	amountStyle  = cellStyle.Align(lipgloss.Right)
	summaryStyle = lipgloss.NewStyle().Foreground(subtle).MarginTop(1)
)

// BalancesTable writes records as a table followed by a holder count and total.
func BalancesTable(w io.Writer, records []domain.BalanceRecord, total decimal.Decimal) error {
	rows := make([][]string, 0, len(records))
	negativeRows := make(map[int]bool)
	for i, r := range records {
		rows = append(rows, []string{strconv.Itoa(i + 1), r.Address, r.Amount.String()})
		if r.Amount.IsNegative() {
			negativeRows[i] = true
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(highlight)).
		Headers("#", "ADDRESS", "BALANCE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 && negativeRows[row]:
				return amountStyle.Foreground(negative)
			case col == 2:
				return amountStyle
			default:
				return cellStyle
			}
		})

	summary := summaryStyle.Render(fmt.Sprintf("%d holders, total %s", len(records), total.String()))
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, t.Render(), summary))
	return err
}

// TransfersTable writes decoded transfers in input order.
func TransfersTable(w io.Writer, transfers []domain.Transfer) error {
	rows := make([][]string, 0, len(transfers))
	for _, tr := range transfers {
		rows = append(rows, []string{tr.Log.BlockNumber, tr.Log.TransactionHash, tr.From, tr.To, tr.Amount.String()})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(highlight)).
		Headers("BLOCK", "TX", "FROM", "TO", "AMOUNT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 4:
				return amountStyle
			default:
				return cellStyle
			}
		})

	summary := summaryStyle.Render(fmt.Sprintf("%d transfers", len(transfers)))
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, t.Render(), summary))
	return err
}

// BalancesJSON writes records as a JSON array; amounts are exact decimal strings.
func BalancesJSON(w io.Writer, records []domain.BalanceRecord) error {
	if records == nil {
		records = []domain.BalanceRecord{}
	}
	return writeJSON(w, records)
}

// TransfersJSON writes transfers as a JSON array.
func TransfersJSON(w io.Writer, transfers []domain.Transfer) error {
	views := make([]domain.TransferView, 0, len(transfers))
	for _, tr := range transfers {
		views = append(views, tr.View())
	}
	return writeJSON(w, views)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode json output")
	}
	return nil
}
