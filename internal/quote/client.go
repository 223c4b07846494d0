// Package quote is the HTTP client for the swap-routing aggregator. It
// answers two questions: what would this exact-input swap return right now
// (Price), and give me a firm transaction payload for it (Swap).
package quote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// ErrMissingCredential means the aggregator API key is not configured.
var ErrMissingCredential = errors.New("aggregator api key is not configured")

// UnsupportedPairError means the aggregator has no route for the pair on
// that chain.
type UnsupportedPairError struct {
	ChainID uint64
	Detail  string
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("no route for pair on chain %d: %s", e.ChainID, e.Detail)
}

// UpstreamError wraps transport failures, timeouts and 5xx responses. A
// timeout surfaces exactly like a service error, never as a hang.
type UpstreamError struct {
	Detail string
	Cause  error
}

func (e *UpstreamError) Error() string {
	if e.Cause == nil {
		return "quote service unavailable: " + e.Detail
	}
	return fmt.Sprintf("quote service unavailable: %s: %v", e.Detail, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// Client calls the aggregator API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates an aggregator client. A missing API key is allowed here;
// calls will fail with ErrMissingCredential so the validator can map it to
// its configuration-missing kind.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url cannot be empty")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: cfg.Logger,
	}, nil
}

// Request describes an exact-input quote: sell AmountBaseUnits of SrcToken
// for DstToken on ChainID.
type Request struct {
	ChainID         uint64
	SrcToken        common.Address
	DstToken        common.Address
	AmountBaseUnits *big.Int
	SlippageBps     int
	Taker           string // required for firm swap payloads
}

// Quote is an indicative exact-input price.
type Quote struct {
	DstAmount   *big.Int
	GasUnits    uint64
	GasPriceWei *big.Int
	Raw         []byte // upstream payload, kept for audit/display
}

// SwapPayload is a firm, executable transaction payload.
type SwapPayload struct {
	To        string
	Data      string
	Value     string
	GasLimit  string
	DstAmount *big.Int
	Raw       []byte
}

type priceResponse struct {
	BuyAmount string `json:"buyAmount"`
	Gas       string `json:"gas"`
	GasPrice  string `json:"gasPrice"`
	To        string `json:"to"`
	Data      string `json:"data"`
	Value     string `json:"value"`
}

type errorResponse struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// Price fetches an indicative exact-input quote. One external call.
func (c *Client) Price(ctx context.Context, req Request) (*Quote, error) {
	start := time.Now()
	body, err := c.get(ctx, "/swap/v1/price", req)
	QuoteDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		QuoteErrorsTotal.Inc()
		return nil, err
	}
	QuotesTotal.Inc()

	var decoded priceResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &UpstreamError{Detail: "malformed price response", Cause: err}
	}
	dstAmount, ok := new(big.Int).SetString(decoded.BuyAmount, 10)
	if !ok || dstAmount.Sign() <= 0 {
		return nil, &UpstreamError{Detail: "price response missing buy amount"}
	}

	q := &Quote{DstAmount: dstAmount, Raw: body}
	if gas, err := strconv.ParseUint(decoded.Gas, 10, 64); err == nil {
		q.GasUnits = gas
	}
	if gasPrice, ok := new(big.Int).SetString(decoded.GasPrice, 10); ok {
		q.GasPriceWei = gasPrice
	}
	return q, nil
}

// Swap fetches a firm transaction payload for an exact-input swap.
func (c *Client) Swap(ctx context.Context, req Request) (*SwapPayload, error) {
	if req.Taker == "" {
		return nil, fmt.Errorf("taker address is required for a firm swap payload")
	}

	start := time.Now()
	body, err := c.get(ctx, "/swap/v1/quote", req)
	QuoteDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		QuoteErrorsTotal.Inc()
		return nil, err
	}
	QuotesTotal.Inc()

	var decoded priceResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &UpstreamError{Detail: "malformed swap response", Cause: err}
	}
	if decoded.To == "" || decoded.Data == "" {
		return nil, &UpstreamError{Detail: "swap response missing transaction fields"}
	}
	dstAmount, ok := new(big.Int).SetString(decoded.BuyAmount, 10)
	if !ok {
		return nil, &UpstreamError{Detail: "swap response missing buy amount"}
	}

	value := decoded.Value
	if value == "" {
		value = "0"
	}
	return &SwapPayload{
		To:        decoded.To,
		Data:      decoded.Data,
		Value:     value,
		GasLimit:  decoded.Gas,
		DstAmount: dstAmount,
		Raw:       body,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, req Request) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	params := url.Values{}
	params.Set("chainId", strconv.FormatUint(req.ChainID, 10))
	params.Set("sellToken", req.SrcToken.Hex())
	params.Set("buyToken", req.DstToken.Hex())
	params.Set("sellAmount", req.AmountBaseUnits.String())
	if req.SlippageBps > 0 {
		params.Set("slippageBps", strconv.Itoa(req.SlippageBps))
	}
	if req.Taker != "" {
		params.Set("taker", req.Taker)
	}

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("0x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Detail: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &UpstreamError{Detail: "read response", Cause: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrMissingCredential
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var decoded errorResponse
		_ = json.Unmarshal(body, &decoded)
		detail := decoded.Reason
		if detail == "" {
			detail = string(body)
		}
		c.logger.Debug("quote-rejected",
			zap.Uint64("chain-id", req.ChainID),
			zap.String("reason", detail))
		return nil, &UnsupportedPairError{ChainID: req.ChainID, Detail: detail}
	default:
		return nil, &UpstreamError{Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	}
}
