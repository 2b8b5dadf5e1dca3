// Package decoder turns raw ERC-20 Transfer logs into typed transfers.
package decoder

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/tokenholders/internal/domain"
)

// DefaultDecimals is the scale used by most ERC-20 tokens.
const DefaultDecimals int32 = 18

// topicLength is a 32-byte topic in 0x-prefixed hex.
const topicLength = 2 + 64

// addressOffset is where the low 20 bytes of a left-padded topic start.
const addressOffset = 2 + 24

var (
	// ErrMalformedLog is wrapped by every error describing a log that is not a valid Transfer.
	ErrMalformedLog    = errors.New("malformed transfer log")
	// ErrTooFewTopics means the log lacks the from and to topics.
	ErrTooFewTopics    = errors.Wrap(ErrMalformedLog, "transfer log needs 3 topics")
	// ErrEmptyData means the log carries no amount.
	ErrEmptyData       = errors.Wrap(ErrMalformedLog, "empty data")
	// ErrInvalidData means the data field is not a hex integer.
	ErrInvalidData     = errors.Wrap(ErrMalformedLog, "data is not a hex integer")
	// ErrInvalidTopic means an address topic is not a 32-byte hex word.
	ErrInvalidTopic    = errors.Wrap(ErrMalformedLog, "topic is not a 32-byte hex word")
	// ErrInvalidDecimals is returned for a negative token scale.
	ErrInvalidDecimals = errors.New("decimals must not be negative")
)

// Decode builds a Transfer from a Transfer event log.
// The amount is the data word scaled by 10^-decimals; from and to are the
// low 20 bytes of topics[1] and topics[2].
func Decode(log domain.Log, decimals int32) (domain.Transfer, error) {
	if len(log.Topics) < 3 {
		return domain.Transfer{}, errors.Wrapf(ErrTooFewTopics, "got %d", len(log.Topics))
	}

	amount, err := DecodeAmount(log.Data, decimals)
	if err != nil {
		return domain.Transfer{}, err
	}

	from, err := TopicAddress(log.Topics[1])
	if err != nil {
		return domain.Transfer{}, errors.Wrap(err, "from")
	}

	to, err := TopicAddress(log.Topics[2])
	if err != nil {
		return domain.Transfer{}, errors.Wrap(err, "to")
	}

	return domain.NewTransfer(log, from, to, amount), nil
}

// DecodeAll decodes every log. The first bad log fails the whole batch.
func DecodeAll(logs []domain.Log, decimals int32) ([]domain.Transfer, error) {
	transfers := make([]domain.Transfer, 0, len(logs))
	for i, l := range logs {
		t, err := Decode(l, decimals)
		if err != nil {
			return nil, errors.Wrapf(err, "log %d (tx %s, index %s)", i, l.TransactionHash, l.LogIndex)
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

// DecodeAmount parses a hex integer and scales it by 10^-decimals without rounding.
func DecodeAmount(data string, decimals int32) (decimal.Decimal, error) {
	if decimals < 0 {
		return decimal.Decimal{}, errors.Wrapf(ErrInvalidDecimals, "got %d", decimals)
	}

	digits := data
	if len(digits) >= 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}
	if digits == "" {
		return decimal.Decimal{}, ErrEmptyData
	}
	if digits[0] == '+' || digits[0] == '-' {
		return decimal.Decimal{}, errors.Wrapf(ErrInvalidData, "%q", data)
	}

	raw, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return decimal.Decimal{}, errors.Wrapf(ErrInvalidData, "%q", data)
	}

	return decimal.NewFromBigInt(raw, -decimals), nil
}

// TopicAddress extracts the address stored in an indexed address topic.
// The result keeps the topic's "0x" and its last 40 hex characters.
func TopicAddress(topic string) (string, error) {
	if len(topic) != topicLength {
		return "", errors.Wrapf(ErrInvalidTopic, "%q has length %d", topic, len(topic))
	}
	if _, err := hexutil.Decode(topic); err != nil {
		return "", errors.Wrapf(ErrInvalidTopic, "%q: %v", topic, err)
	}
	return topic[:2] + topic[addressOffset:], nil
}
