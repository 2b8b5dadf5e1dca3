package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockTag identifies a block in a log filter: a named tag or a hex quantity.
type BlockTag string

const (
	// BlockEarliest is the genesis block written as a quantity.
	BlockEarliest BlockTag = "0x0"
	// BlockLatest is the most recent block known to the node.
	BlockLatest BlockTag = "latest"
)

var namedBlockTags = map[string]struct{}{
	"earliest":  {},
	"latest":    {},
	"pending":   {},
	"safe":      {},
	"finalized": {},
}

// BlockNumber returns the tag for the block at the given height.
func BlockNumber(n uint64) BlockTag {
	return BlockTag(hexutil.EncodeUint64(n))
}

// ParseBlockTag accepts a named tag, a hex quantity or a decimal height.
// An empty string yields an empty tag so callers can apply their own default.
func ParseBlockTag(s string) (BlockTag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	lower := strings.ToLower(s)
	if _, ok := namedBlockTags[lower]; ok {
		return BlockTag(lower), nil
	}

	if strings.HasPrefix(lower, "0x") {
		n, err := strconv.ParseUint(lower[2:], 16, 64)
		if err != nil {
			return "", fmt.Errorf("invalid block quantity %q", s)
		}
		return BlockNumber(n), nil
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid block tag %q", s)
	}
	return BlockNumber(n), nil
}

// String returns the string representation.
func (b BlockTag) String() string {
	return string(b)
}
