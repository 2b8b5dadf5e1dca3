// Package balances folds decoded transfers into per-address net balances.
package balances

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/tokenholders/internal/domain"
)

type options struct {
	threshold decimal.Decimal
	negative  bool
}

// Option configures aggregation.
type Option func(*options)

// WithNegative keeps addresses whose net balance is below -threshold.
// Without it only balances strictly above the threshold are returned, which
// hides mint/burn sources such as the zero address.
func WithNegative() Option {
	return func(o *options) {
		o.negative = true
	}
}

// WithThreshold overrides domain.DustThreshold.
func WithThreshold(threshold decimal.Decimal) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

func newOptions(opts []Option) options {
	o := options{threshold: domain.DustThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Aggregate sums transfers into net balances: amount leaves From and arrives at To.
// Dust (balance <= threshold) is dropped.
func Aggregate(transfers []domain.Transfer, opts ...Option) domain.Balances {
	o := newOptions(opts)

	net := make(map[string]decimal.Decimal)
	for _, t := range transfers {
		net[t.From] = net[t.From].Sub(t.Amount)
		net[t.To] = net[t.To].Add(t.Amount)
	}

	balances := make(domain.Balances, len(net))
	for address, amount := range net {
		if keep(amount, o) {
			balances[address] = amount
		}
	}
	return balances
}

// AggregateSorted returns Aggregate as a list ordered by descending absolute amount.
// Equal magnitudes are ordered by address.
func AggregateSorted(transfers []domain.Transfer, opts ...Option) []domain.BalanceRecord {
	return Sorted(Aggregate(transfers, opts...))
}

// Sorted converts balances into records ordered by descending absolute amount.
func Sorted(balances domain.Balances) []domain.BalanceRecord {
	records := make([]domain.BalanceRecord, 0, len(balances))
	for address, amount := range balances {
		records = append(records, domain.BalanceRecord{Address: address, Amount: amount})
	}

	sort.SliceStable(records, func(i, j int) bool {
		if c := records[i].Amount.Abs().Cmp(records[j].Amount.Abs()); c != 0 {
			return c > 0
		}
		return records[i].Address < records[j].Address
	})
	return records
}

// ByAddress converts balances into records ordered by address.
func ByAddress(balances domain.Balances) []domain.BalanceRecord {
	records := make([]domain.BalanceRecord, 0, len(balances))
	for address, amount := range balances {
		records = append(records, domain.BalanceRecord{Address: address, Amount: amount})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Address < records[j].Address
	})
	return records
}

// Total sums the amounts of all records.
func Total(records []domain.BalanceRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

func keep(amount decimal.Decimal, o options) bool {
	if o.negative {
		return amount.Abs().GreaterThan(o.threshold)
	}
	return amount.GreaterThan(o.threshold)
}
