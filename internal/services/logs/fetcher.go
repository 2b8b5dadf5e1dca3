// Package logs fetches contract event logs over JSON-RPC and decodes them into transfers.
package logs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tokenholders/internal/clients"
	"github.com/vadiminshakov/tokenholders/internal/domain"
	"github.com/vadiminshakov/tokenholders/internal/services/decoder"
)

const methodGetLogs = "eth_getLogs"

type requester interface {
	Request(ctx context.Context, method string, params []any) (*clients.RPCResponse, error)
}

// Query selects the logs of one contract.
type Query struct {
	Address   string
	Decimals  int32
	FromBlock domain.BlockTag
	ToBlock   domain.BlockTag
	Topics    []any
}

// NewQuery creates a query for the whole history of a contract with 18 decimals.
func NewQuery(address string) Query {
	return Query{
		Address:  address,
		Decimals: decoder.DefaultDecimals,
	}
}

// Filter returns the eth_getLogs filter with defaults applied.
func (q Query) Filter() domain.LogFilter {
	filter := domain.LogFilter{
		Address:   q.Address,
		FromBlock: q.FromBlock,
		ToBlock:   q.ToBlock,
		Topics:    q.Topics,
	}
	if filter.FromBlock == "" {
		filter.FromBlock = domain.BlockEarliest
	}
	if filter.ToBlock == "" {
		filter.ToBlock = domain.BlockLatest
	}
	if filter.Topics == nil {
		filter.Topics = []any{}
	}
	return filter
}

// Fetcher loads and decodes logs.
type Fetcher struct {
	rpc    requester
	logger *zap.Logger
}

// NewFetcher creates a new Fetcher.
func NewFetcher(rpc requester, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{rpc: rpc, logger: logger}
}

// FetchLogs returns the contract logs matching q, decoded as transfers.
func (f *Fetcher) FetchLogs(ctx context.Context, q Query) ([]domain.Transfer, error) {
	return f.fetch(ctx, q)
}

// FetchTransfers returns the contract's Transfer events matching q.
// It behaves exactly like FetchLogs; callers pass domain.TransferEventTopic
// in q.Topics to restrict the node-side match.
func (f *Fetcher) FetchTransfers(ctx context.Context, q Query) ([]domain.Transfer, error) {
	return f.fetch(ctx, q)
}

func (f *Fetcher) fetch(ctx context.Context, q Query) ([]domain.Transfer, error) {
	filter := q.Filter()
	start := time.Now()

	resp, err := f.rpc.Request(ctx, methodGetLogs, []any{filter})
	if err != nil {
		return nil, err
	}

	var raw []domain.Log
	if err := resp.ResultInto(&raw); err != nil {
		return nil, errors.Wrap(err, methodGetLogs)
	}

	transfers, err := decoder.DecodeAll(raw, q.Decimals)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode logs")
	}

	f.logger.Info("fetched logs",
		zap.String("contract", filter.Address),
		zap.String("from_block", filter.FromBlock.String()),
		zap.String("to_block", filter.ToBlock.String()),
		zap.Int("logs", len(raw)),
		zap.Duration("took", time.Since(start)))

	return transfers, nil
}
