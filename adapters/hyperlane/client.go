// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package hyperlane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Client speaks to a Hyperlane mailbox service over HTTP and satisfies
// MailboxClient.
type Client struct {
	baseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type dispatchRequest struct {
	DestDomain uint32      `json:"destDomain"`
	Recipient  common.Hash `json:"recipient"`
	Body       []byte      `json:"body"`
}

type dispatchResponse struct {
	MessageID common.Hash `json:"messageId"`
}

func (c *Client) Dispatch(ctx context.Context, destDomain uint32, recipient common.Hash, body []byte) (common.Hash, error) {
	resp := new(dispatchResponse)
	err := c.post(ctx, "/v1/dispatch", &dispatchRequest{
		DestDomain: destDomain,
		Recipient:  recipient,
		Body:       body,
	}, resp)
	if err != nil {
		return common.Hash{}, err
	}

	return resp.MessageID, nil
}

type gasPaymentRequest struct {
	DestDomain uint32 `json:"destDomain"`
	GasLimit   uint64 `json:"gasLimit"`
}

type gasPaymentResponse struct {
	Payment string `json:"payment"`
}

func (c *Client) QuoteGasPayment(ctx context.Context, destDomain uint32, gasLimit uint64) (*big.Int, error) {
	resp := new(gasPaymentResponse)
	err := c.post(ctx, "/v1/quote-gas-payment", &gasPaymentRequest{
		DestDomain: destDomain,
		GasLimit:   gasLimit,
	}, resp)
	if err != nil {
		return nil, err
	}

	payment, ok := new(big.Int).SetString(resp.Payment, 10)
	if !ok {
		return nil, fmt.Errorf("invalid payment %s in paymaster response", resp.Payment)
	}
	return payment, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody interface{}, respBody interface{}) error {
	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, %s", resp.StatusCode, path)
	}
	if respBody == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return json.Unmarshal(body, respBody)
}
