package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/tokenholders/internal/domain"
)

func records() []domain.BalanceRecord {
	return []domain.BalanceRecord{
		{Address: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Amount: decimal.RequireFromString("-10")},
		{Address: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Amount: decimal.RequireFromString("3.000000000000000001")},
	}
}

func TestBalancesTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BalancesTable(&buf, records(), decimal.RequireFromString("-6.999999999999999999")))

	out := buf.String()
	assert.Contains(t, out, "ADDRESS")
	assert.Contains(t, out, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	assert.Contains(t, out, "3.000000000000000001")
	assert.Contains(t, out, "-10")
	assert.Contains(t, out, "2 holders, total -6.999999999999999999")
}

func TestTransfersTable(t *testing.T) {
	tr := domain.NewTransfer(domain.Log{BlockNumber: "0x10", TransactionHash: "0xfeed"},
		"0x1111111111111111111111111111111111111111", "0x2222222222222222222222222222222222222222",
		decimal.RequireFromString("0.5"))

	var buf bytes.Buffer
	require.NoError(t, TransfersTable(&buf, []domain.Transfer{tr}))

	out := buf.String()
	assert.Contains(t, out, "0xfeed")
	assert.Contains(t, out, "0x2222222222222222222222222222222222222222")
	assert.Contains(t, out, "0.5")
	assert.Contains(t, out, "1 transfers")
}

func TestBalancesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BalancesJSON(&buf, records()))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", got[0]["address"])
	assert.Equal(t, "-10", got[0]["amount"])
	assert.Equal(t, "3.000000000000000001", got[1]["amount"])

	buf.Reset()
	require.NoError(t, BalancesJSON(&buf, nil))
	assert.JSONEq(t, "[]", buf.String())
}

func TestTransfersJSON(t *testing.T) {
	tr := domain.NewTransfer(domain.Log{BlockNumber: "0x10", TransactionHash: "0xfeed", LogIndex: "0x2"},
		"0x1", "0x2", decimal.RequireFromString("1.25"))

	var buf bytes.Buffer
	require.NoError(t, TransfersJSON(&buf, []domain.Transfer{tr}))
	assert.JSONEq(t, `[{"from":"0x1","to":"0x2","amount":"1.25","blockNumber":"0x10","transactionHash":"0xfeed","logIndex":"0x2"}]`, buf.String())
}
