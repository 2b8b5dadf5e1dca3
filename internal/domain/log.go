// Package domain defines the log, transfer and balance types shared by the scanner.
package domain

// Log is a raw event log as returned by eth_getLogs.
// Node-assigned metadata is kept verbatim.
type Log struct {
	Address          string   `json:"address"`
	Topics           []string `json:"topics"`
	Data             string   `json:"data"`
	BlockNumber      string   `json:"blockNumber,omitempty"`
	BlockHash        string   `json:"blockHash,omitempty"`
	TransactionHash  string   `json:"transactionHash,omitempty"`
	TransactionIndex string   `json:"transactionIndex,omitempty"`
	LogIndex         string   `json:"logIndex,omitempty"`
	Removed          bool     `json:"removed,omitempty"`
}

// LogFilter is the single filter object accepted by eth_getLogs.
type LogFilter struct {
	Address   string   `json:"address"`
	FromBlock BlockTag `json:"fromBlock"`
	ToBlock   BlockTag `json:"toBlock"`
	// Topics holds positional topic filters: a hex string, nil for a wildcard
	// or a []string for an OR match.
	Topics []any `json:"topics"`
}
