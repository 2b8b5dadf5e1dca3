package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	jsonRPCVersion = "2.0"
	// requestID is fixed: the client issues one request at a time.
	requestID = 1
)

var (
	// ErrHTTPStatus is returned when the node answers with a 4xx/5xx status.
	ErrHTTPStatus = errors.New("rpc endpoint returned error status")
	// ErrMissingResult is returned when a response carries neither result nor error.
	ErrMissingResult = errors.New("rpc response has no result")
)

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

// RPCResponse is a parsed JSON-RPC response envelope, unmodified.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// ResultInto unmarshals the result member into v.
// It returns the response's *RPCError when the node reported one.
func (r *RPCResponse) ResultInto(v any) error {
	if r.Error != nil {
		return r.Error
	}
	if len(r.Result) == 0 || bytes.Equal(r.Result, []byte("null")) {
		return ErrMissingResult
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return errors.Wrap(err, "failed to unmarshal rpc result")
	}
	return nil
}

// RPCClient sends JSON-RPC 2.0 requests to a single node endpoint.
type RPCClient struct {
	endpoint string
	client   *resty.Client
	logger   *zap.Logger
}

// NewRPCClient creates a client for the given endpoint URL.
func NewRPCClient(endpoint string, logger *zap.Logger) (*RPCClient, error) {
	if endpoint == "" {
		return nil, errors.New("rpc endpoint cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New()
	client.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
		if r.StatusCode() >= 400 {
			return errors.Wrapf(ErrHTTPStatus, "%d from %s %s: %s",
				r.StatusCode(), r.Request.Method, r.Request.URL, truncate(r.Body(), 256))
		}
		return nil
	})

	return &RPCClient{
		endpoint: endpoint,
		client:   client,
		logger:   logger,
	}, nil
}

// Request performs one JSON-RPC call and returns the response envelope as sent by the node.
// The error member is not interpreted here; see RPCResponse.ResultInto.
func (c *RPCClient) Request(ctx context.Context, method string, params []any) (*RPCResponse, error) {
	if params == nil {
		params = []any{}
	}

	req := rpcRequest{
		JSONRPC: jsonRPCVersion,
		Method:  method,
		Params:  params,
		ID:      requestID,
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "%s request failed", method)
	}

	c.logger.Debug("rpc call",
		zap.String("method", method),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("took", time.Since(start)))

	var out RPCResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s response", method)
	}

	return &out, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
