package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	lamportsPerSOL = 1_000_000_000
	tokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

// RPCClient issues balance queries against a Solana JSON-RPC node.
type RPCClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRPCClient creates a new Solana RPC client.
func NewRPCClient(endpoint string, timeout time.Duration, logger *zap.Logger) *RPCClient {
	return &RPCClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *RPCClient) call(ctx context.Context, method string, params []any, result any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	err = json.Unmarshal(body, &envelope)
	if err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if envelope.Error != nil {
		return envelope.Error
	}

	err = json.Unmarshal(envelope.Result, result)
	if err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}

	return nil
}

// GetBalance returns the wallet's native SOL balance.
func (c *RPCClient) GetBalance(ctx context.Context, wallet string) (decimal.Decimal, error) {
	var result struct {
		Value int64 `json:"value"`
	}

	err := c.call(ctx, "getBalance", []any{wallet}, &result)
	if err != nil {
		return decimal.Zero, fmt.Errorf("getBalance: %w", err)
	}

	return decimal.NewFromInt(result.Value).Div(decimal.NewFromInt(lamportsPerSOL)), nil
}

// TokenHolding is one fungible token balance held by a wallet.
type TokenHolding struct {
	Mint    string
	Balance decimal.Decimal
}

// GetTokenHoldings returns every fungible token account owned by the
// wallet, with decimals already applied.
func (c *RPCClient) GetTokenHoldings(ctx context.Context, wallet string) ([]TokenHolding, error) {
	params := []any{
		wallet,
		map[string]string{"programId": tokenProgramID},
		map[string]string{"encoding": "jsonParsed"},
	}

	var result struct {
		Value []struct {
			Account struct {
				Data struct {
					Parsed struct {
						Info struct {
							Mint        string `json:"mint"`
							TokenAmount struct {
								UIAmountString string `json:"uiAmountString"`
							} `json:"tokenAmount"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"data"`
			} `json:"account"`
		} `json:"value"`
	}

	err := c.call(ctx, "getTokenAccountsByOwner", params, &result)
	if err != nil {
		return nil, fmt.Errorf("getTokenAccountsByOwner: %w", err)
	}

	holdings := make([]TokenHolding, 0, len(result.Value))
	for i := range result.Value {
		info := &result.Value[i].Account.Data.Parsed.Info

		balance, err := decimal.NewFromString(info.TokenAmount.UIAmountString)
		if err != nil {
			c.logger.Warn("skipping-unparseable-token-balance",
				zap.String("mint", info.Mint),
				zap.Error(err))
			continue
		}

		holdings = append(holdings, TokenHolding{
			Mint:    info.Mint,
			Balance: balance,
		})
	}

	return holdings, nil
}
