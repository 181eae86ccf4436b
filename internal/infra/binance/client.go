package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"futures_go/internal/domain"
	"futures_go/internal/infra"
)

// Client is the Binance USDT-M futures REST client (boundary layer).
// It owns the authenticated session: credentials are read once from the
// config at construction and are immutable afterwards, so the client is
// safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     *Signer
	recvWindow int64
	logger     *slog.Logger
}

// NewClient creates a futures testnet client. Missing credentials surface
// as a CredentialError, fatal at startup.
func NewClient(cfg *infra.Config) (*Client, error) {
	key, secret, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: cfg.API.Binance.RestURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		signer:     NewSigner(key, secret),
		recvWindow: cfg.API.Binance.RecvWindowMS,
		logger:     slog.Default().With("module", "binance_client"),
	}, nil
}

// SubmitOrder sends a new order request. params carries the exchange
// parameter set built by the service layer; values are already wire-format
// strings.
func (c *Client) SubmitOrder(ctx context.Context, params domain.OrderParams) (json.RawMessage, error) {
	return c.signedRequest(ctx, http.MethodPost, pathOrder, "submit_order", params)
}

// QueryAccount fetches balances and positions.
func (c *Client) QueryAccount(ctx context.Context) (json.RawMessage, error) {
	return c.signedRequest(ctx, http.MethodGet, pathAccount, "query_account", nil)
}

// QueryOrder looks up a single order by exchange id.
func (c *Client) QueryOrder(ctx context.Context, symbol string, orderID int64) (json.RawMessage, error) {
	params := domain.OrderParams{
		"symbol":  symbol,
		"orderId": strconv.FormatInt(orderID, 10),
	}
	return c.signedRequest(ctx, http.MethodGet, pathOrder, "query_order", params)
}

// CancelOrder cancels an open order by exchange id.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (json.RawMessage, error) {
	params := domain.OrderParams{
		"symbol":  symbol,
		"orderId": strconv.FormatInt(orderID, 10),
	}
	return c.signedRequest(ctx, http.MethodDelete, pathOrder, "cancel_order", params)
}

// signedRequest sends one SIGNED request: parameters go in the query string
// with timestamp and recvWindow appended, followed by the HMAC signature.
// Network failures map to TransportError, non-2xx responses to
// ExchangeRejection with the body preserved verbatim.
func (c *Client) signedRequest(ctx context.Context, method, path, op string, params domain.OrderParams) (json.RawMessage, error) {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	values.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	values.Set("recvWindow", strconv.FormatInt(c.recvWindow, 10))

	query := values.Encode()
	query += "&signature=" + c.signer.Sign(query)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return nil, domain.NewTransportError(op, err)
	}
	req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())

	c.logger.Debug("API request",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("api_key", infra.RedactKey(c.signer.APIKey())),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError(op, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Msg == "" {
			return nil, domain.NewTransportError(op,
				fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)))
		}
		return nil, &domain.ExchangeRejection{
			Code: apiErr.Code,
			Msg:  apiErr.Msg,
			Raw:  json.RawMessage(body),
		}
	}

	return json.RawMessage(body), nil
}
