package app

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tokenholders/config"
	"github.com/vadiminshakov/tokenholders/internal/clients"
	"github.com/vadiminshakov/tokenholders/internal/domain"
	"github.com/vadiminshakov/tokenholders/internal/render"
	"github.com/vadiminshakov/tokenholders/internal/services/balances"
	"github.com/vadiminshakov/tokenholders/internal/services/logs"
)

type transferFetcher interface {
	FetchTransfers(ctx context.Context, q logs.Query) ([]domain.Transfer, error)
}

// Scanner runs one fetch-decode-aggregate pass for a token contract.
type Scanner struct {
	Config  config.Config
	fetcher transferFetcher
	logger  *zap.Logger
}

// New creates a Scanner talking to the node configured in conf.
func New(conf config.Config, logger *zap.Logger) (*Scanner, error) {
	endpoint, err := conf.Endpoint()
	if err != nil {
		return nil, err
	}

	rpc, err := clients.NewRPCClient(endpoint, logger.Named("rpc"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rpc client")
	}

	return NewScanner(conf, logs.NewFetcher(rpc, logger.Named("logs")), logger), nil
}

// NewScanner creates a Scanner over an existing fetcher.
func NewScanner(conf config.Config, fetcher transferFetcher, logger *zap.Logger) *Scanner {
	return &Scanner{
		Config:  conf,
		fetcher: fetcher,
		logger:  logger.With(zap.String("contract", conf.Contract)),
	}
}

// Query returns the log query described by the config.
func (s *Scanner) Query() (logs.Query, error) {
	topics, err := s.Config.TopicFilters()
	if err != nil {
		return logs.Query{}, err
	}

	q := logs.NewQuery(s.Config.Contract)
	q.Decimals = s.Config.Decimals
	q.FromBlock = s.Config.FromBlock
	q.ToBlock = s.Config.ToBlock
	q.Topics = topics
	return q, nil
}

// Balances fetches transfers and returns the holder balances in output order.
func (s *Scanner) Balances(ctx context.Context) ([]domain.BalanceRecord, error) {
	transfers, err := s.transfers(ctx)
	if err != nil {
		return nil, err
	}

	var opts []balances.Option
	if s.Config.IncludeNegative {
		opts = append(opts, balances.WithNegative())
	}

	var records []domain.BalanceRecord
	if s.Config.Sorted {
		records = balances.AggregateSorted(transfers, opts...)
	} else {
		records = balances.ByAddress(balances.Aggregate(transfers, opts...))
	}

	s.logger.Info("aggregated balances",
		zap.Int("transfers", len(transfers)),
		zap.Int("holders", len(records)))

	return records, nil
}

// Run writes the holder balances to w in the configured format.
func (s *Scanner) Run(ctx context.Context, w io.Writer) error {
	records, err := s.Balances(ctx)
	if err != nil {
		return err
	}

	if s.Config.Output == config.OutputJSON {
		return render.BalancesJSON(w, records)
	}
	return render.BalancesTable(w, records, balances.Total(records))
}

// Transfers writes the decoded transfers to w in the configured format.
func (s *Scanner) Transfers(ctx context.Context, w io.Writer) error {
	transfers, err := s.transfers(ctx)
	if err != nil {
		return err
	}

	if s.Config.Output == config.OutputJSON {
		return render.TransfersJSON(w, transfers)
	}
	return render.TransfersTable(w, transfers)
}

func (s *Scanner) transfers(ctx context.Context) ([]domain.Transfer, error) {
	q, err := s.Query()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetching transfers",
		zap.String("from_block", q.Filter().FromBlock.String()),
		zap.String("to_block", q.Filter().ToBlock.String()),
		zap.Int32("decimals", q.Decimals))

	transfers, err := s.fetcher.FetchTransfers(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch transfers")
	}
	return transfers, nil
}
