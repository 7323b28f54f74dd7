// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package wormhole

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

// Client speaks to a Wormhole relayer service over HTTP and satisfies
// RelayerClient.
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

type deliveryPriceRequest struct {
	TargetChain uint16 `json:"targetChain"`
	GasLimit    uint64 `json:"gasLimit"`
}

type deliveryPriceResponse struct {
	Price string `json:"price"`
}

func (c *Client) QuoteDeliveryPrice(ctx context.Context, targetChain uint16, gasLimit uint64) (*big.Int, error) {
	resp := new(deliveryPriceResponse)
	err := c.post(ctx, "/v1/quote-delivery-price", &deliveryPriceRequest{
		TargetChain: targetChain,
		GasLimit:    gasLimit,
	}, resp)
	if err != nil {
		return nil, err
	}

	price, ok := new(big.Int).SetString(resp.Price, 10)
	if !ok {
		return nil, fmt.Errorf("invalid price %s in relayer response", resp.Price)
	}
	return price, nil
}

type sendPayloadRequest struct {
	TargetChain uint16         `json:"targetChain"`
	Target      common.Address `json:"target"`
	Payload     []byte         `json:"payload"`
	Fee         string         `json:"fee"`
	GasLimit    uint64         `json:"gasLimit"`
}

type sendPayloadResponse struct {
	Sequence uint64 `json:"sequence"`
}

func (c *Client) SendPayloadToEvm(ctx context.Context, targetChain uint16, target common.Address, payload []byte, fee *big.Int, gasLimit uint64) (uint64, error) {
	resp := new(sendPayloadResponse)
	err := c.post(ctx, "/v1/send-payload", &sendPayloadRequest{
		TargetChain: targetChain,
		Target:      target,
		Payload:     payload,
		Fee:         fee.String(),
		GasLimit:    gasLimit,
	}, resp)
	if err != nil {
		return 0, err
	}

	return resp.Sequence, nil
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
