// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package layerzero

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

// Client speaks to a LayerZero endpoint service over HTTP and satisfies
// EndpointClient.
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

type quoteRequest struct {
	DstEid   uint32 `json:"dstEid"`
	Message  []byte `json:"message"`
	GasLimit uint64 `json:"gasLimit"`
}

type quoteResponse struct {
	NativeFee string `json:"nativeFee"`
}

func (c *Client) Quote(ctx context.Context, dstEid uint32, message []byte, gasLimit uint64) (*big.Int, error) {
	resp := new(quoteResponse)
	err := c.post(ctx, "/v1/quote", &quoteRequest{
		DstEid:   dstEid,
		Message:  message,
		GasLimit: gasLimit,
	}, resp)
	if err != nil {
		return nil, err
	}

	fee, ok := new(big.Int).SetString(resp.NativeFee, 10)
	if !ok {
		return nil, fmt.Errorf("invalid fee %s in endpoint response", resp.NativeFee)
	}
	return fee, nil
}

type lzSendRequest struct {
	DstEid   uint32      `json:"dstEid"`
	Receiver common.Hash `json:"receiver"`
	Message  []byte      `json:"message"`
	Fee      string      `json:"fee"`
	GasLimit uint64      `json:"gasLimit"`
}

type lzSendResponse struct {
	GUID common.Hash `json:"guid"`
}

func (c *Client) Send(ctx context.Context, dstEid uint32, receiver common.Hash, message []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	resp := new(lzSendResponse)
	err := c.post(ctx, "/v1/send", &lzSendRequest{
		DstEid:   dstEid,
		Receiver: receiver,
		Message:  message,
		Fee:      fee.String(),
		GasLimit: gasLimit,
	}, resp)
	if err != nil {
		return common.Hash{}, err
	}

	return resp.GUID, nil
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
