package logs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tokenholders/internal/clients"
	"github.com/vadiminshakov/tokenholders/internal/domain"
	"github.com/vadiminshakov/tokenholders/internal/services/decoder"
)

const contract = "0xdac17f958d2ee523a2206206994597c13d831ec7"

// mockRequester records the last call and replays a fixed response.
type mockRequester struct {
	method string
	params []any
	resp   *clients.RPCResponse
	err    error
}

func (m *mockRequester) Request(ctx context.Context, method string, params []any) (*clients.RPCResponse, error) {
	m.method = method
	m.params = params
	return m.resp, m.err
}

func topic(hex40 string) string {
	return "0x" + strings.Repeat("0", 24) + hex40
}

func resultOf(t *testing.T, logs []domain.Log) *clients.RPCResponse {
	t.Helper()
	raw, err := json.Marshal(logs)
	require.NoError(t, err)
	return &clients.RPCResponse{JSONRPC: "2.0", ID: json.RawMessage("1"), Result: raw}
}

func TestQuery_Filter_Defaults(t *testing.T) {
	f := NewQuery(contract).Filter()
	assert.Equal(t, contract, f.Address)
	assert.Equal(t, domain.BlockTag("0x0"), f.FromBlock)
	assert.Equal(t, domain.BlockTag("latest"), f.ToBlock)
	assert.Equal(t, []any{}, f.Topics)

	q := NewQuery(contract)
	assert.Equal(t, decoder.DefaultDecimals, q.Decimals)
	q.FromBlock = domain.BlockNumber(100)
	q.ToBlock = domain.BlockNumber(200)
	q.Topics = []any{domain.TransferEventTopic}
	f = q.Filter()
	assert.Equal(t, domain.BlockTag("0x64"), f.FromBlock)
	assert.Equal(t, domain.BlockTag("0xc8"), f.ToBlock)
	assert.Equal(t, []any{domain.TransferEventTopic}, f.Topics)
}

func TestFetcher_FetchTransfers(t *testing.T) {
	a := strings.Repeat("a", 40)
	b := strings.Repeat("b", 40)
	rpc := &mockRequester{resp: resultOf(t, []domain.Log{
		{Address: contract, Topics: []string{domain.TransferEventTopic, topic(a), topic(b)}, Data: "0x64", LogIndex: "0x0"},
		{Address: contract, Topics: []string{domain.TransferEventTopic, topic(b), topic(a)}, Data: "0x0a", LogIndex: "0x1"},
	})}

	q := NewQuery(contract)
	q.Decimals = 2
	q.Topics = []any{domain.TransferEventTopic}

	f := NewFetcher(rpc, zap.NewNop())
	for name, fetch := range map[string]func(context.Context, Query) ([]domain.Transfer, error){
		"FetchLogs":      f.FetchLogs,
		"FetchTransfers": f.FetchTransfers,
	} {
		t.Run(name, func(t *testing.T) {
			transfers, err := fetch(context.Background(), q)
			require.NoError(t, err)

			assert.Equal(t, "eth_getLogs", rpc.method)
			require.Len(t, rpc.params, 1)
			assert.Equal(t, q.Filter(), rpc.params[0])

			require.Len(t, transfers, 2)
			assert.Equal(t, "0x"+a, transfers[0].From)
			assert.Equal(t, "0x"+b, transfers[0].To)
			assert.True(t, decimal.RequireFromString("1").Equal(transfers[0].Amount))
			assert.True(t, decimal.RequireFromString("0.1").Equal(transfers[1].Amount))
			assert.Equal(t, "0x1", transfers[1].Log.LogIndex)
		})
	}
}

func TestFetcher_Errors(t *testing.T) {
	transportErr := errors.New("dial tcp: no such host")

	tests := []struct {
		name  string
		rpc   *mockRequester
		check func(t *testing.T, err error)
	}{
		{
			name: "transport failure",
			rpc:  &mockRequester{err: transportErr},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, transportErr)
			},
		},
		{
			name: "rpc error member",
			rpc: &mockRequester{resp: &clients.RPCResponse{
				Error: &clients.RPCError{Code: -32602, Message: "invalid argument"},
			}},
			check: func(t *testing.T, err error) {
				var rpcErr *clients.RPCError
				require.ErrorAs(t, err, &rpcErr)
				assert.Equal(t, -32602, rpcErr.Code)
			},
		},
		{
			name: "missing result",
			rpc:  &mockRequester{resp: &clients.RPCResponse{JSONRPC: "2.0"}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, clients.ErrMissingResult)
			},
		},
		{
			name: "malformed log",
			rpc: &mockRequester{resp: resultOf(t, []domain.Log{
				{Topics: []string{domain.TransferEventTopic}, Data: "0x1"},
			})},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, decoder.ErrMalformedLog)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfers, err := NewFetcher(tt.rpc, zap.NewNop()).FetchLogs(context.Background(), NewQuery(contract))
			assert.Nil(t, transfers)
			tt.check(t, err)
		})
	}
}

func TestFetcher_OverHTTP(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[{
			"address":"` + contract + `",
			"topics":["` + domain.TransferEventTopic + `","` + topic(strings.Repeat("1", 40)) + `","` + topic(strings.Repeat("2", 40)) + `"],
			"data":"0x00000000000000000000000000000000000000000000000000000000000f4240",
			"blockNumber":"0xe4e1c0",
			"transactionHash":"0x01",
			"logIndex":"0x5",
			"removed":false
		}]}`))
	}))
	defer srv.Close()

	rpc, err := clients.NewRPCClient(srv.URL, zap.NewNop())
	require.NoError(t, err)

	q := NewQuery(contract)
	q.Decimals = 6
	transfers, err := NewFetcher(rpc, zap.NewNop()).FetchTransfers(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "eth_getLogs", body["method"])
	assert.Equal(t, float64(1), body["id"])
	params, ok := body["params"].([]any)
	require.True(t, ok)
	require.Len(t, params, 1)
	assert.Equal(t, map[string]any{
		"address":   contract,
		"fromBlock": "0x0",
		"toBlock":   "latest",
		"topics":    []any{},
	}, params[0])

	require.Len(t, transfers, 1)
	assert.True(t, decimal.NewFromInt(1).Equal(transfers[0].Amount))
	assert.Equal(t, "0x"+strings.Repeat("1", 40), transfers[0].From)
	assert.Equal(t, "0xe4e1c0", transfers[0].Log.BlockNumber)
}
