package domain

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// TransferEventTopic is topic0 of the ERC-20 Transfer(address,address,uint256) event.
var TransferEventTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")).Hex()

// Transfer is a decoded Transfer event. It is built once from a Log and never changed.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
	Log    Log
}

// NewTransfer creates a new Transfer.
func NewTransfer(log Log, from, to string, amount decimal.Decimal) Transfer {
	topics := make([]string, len(log.Topics))
	copy(topics, log.Topics)
	log.Topics = topics

	return Transfer{
		From:   from,
		To:     to,
		Amount: amount,
		Log:    log,
	}
}

// TransferView is the flat JSON shape of a transfer.
type TransferView struct {
	From            string `json:"from"`
	To              string `json:"to"`
	Amount          string `json:"amount"`
	BlockNumber     string `json:"blockNumber,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
	LogIndex        string `json:"logIndex,omitempty"`
}

// View returns the flat JSON shape of the transfer.
func (t Transfer) View() TransferView {
	return TransferView{
		From:            t.From,
		To:              t.To,
		Amount:          t.Amount.String(),
		BlockNumber:     t.Log.BlockNumber,
		TransactionHash: t.Log.TransactionHash,
		LogIndex:        t.Log.LogIndex,
	}
}
