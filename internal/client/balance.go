package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polyscope/insight-engine/internal/metrics"
)

// balanceOfSelector is the 4-byte selector for ERC-20 balanceOf(address).
const balanceOfSelector = "0x70a08231"

// BalanceClient reads token balances via raw JSON-RPC eth_call.
//
// Balances are summed across distinct token contracts (bridged and native
// USDC are separate assets). RPC endpoints are failover only: per contract,
// the first endpoint that answers wins.
type BalanceClient struct {
	endpoints  []string
	contracts  []string
	decimals   int32
	httpClient *http.Client
}

// NewBalanceClient creates a balance source over the given endpoint and
// contract lists, both tried in order.
func NewBalanceClient(endpoints, contracts []string, decimals int32, timeout time.Duration) *BalanceClient {
	return &BalanceClient{
		endpoints:  endpoints,
		contracts:  contracts,
		decimals:   decimals,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Balance returns the summed token balance for an address. Total failure
// yields zero, never negative and never an error.
func (c *BalanceClient) Balance(ctx context.Context, address string) decimal.Decimal {
	callData := balanceOfSelector + strings.Repeat("0", 24) + strings.TrimPrefix(strings.ToLower(address), "0x")

	total := decimal.Zero
	for _, contract := range c.contracts {
		for _, endpoint := range c.endpoints {
			balance, err := c.ethCall(ctx, endpoint, contract, callData)
			if err != nil {
				metrics.UpstreamRequestsTotal.WithLabelValues("balance", "error").Inc()
				slog.Warn("rpc balance call failed", "endpoint", endpoint, "contract", contract, "err", err)
				continue
			}
			metrics.UpstreamRequestsTotal.WithLabelValues("balance", "ok").Inc()
			if balance.IsPositive() {
				total = total.Add(balance)
			}
			break // this contract answered; no need for the other endpoints
		}
	}
	return total
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *BalanceClient) ethCall(ctx context.Context, endpoint, contract, callData string) (decimal.Decimal, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "eth_call",
		Params:  []any{map[string]string{"to": contract, "data": callData}, "latest"},
		ID:      1,
	})
	if err != nil {
		return decimal.Zero, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return decimal.Zero, err
	}
	if rpcResp.Error != nil {
		return decimal.Zero, fmt.Errorf("rpc error: %s", rpcResp.Error.Message)
	}
	if rpcResp.Result == "" || rpcResp.Result == "0x" {
		return decimal.Zero, fmt.Errorf("empty result")
	}

	units, ok := new(big.Int).SetString(strings.TrimPrefix(rpcResp.Result, "0x"), 16)
	if !ok {
		return decimal.Zero, fmt.Errorf("unparseable result %q", rpcResp.Result)
	}
	return decimal.NewFromBigInt(units, -c.decimals), nil
}
