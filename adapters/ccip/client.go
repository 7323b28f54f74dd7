// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package ccip

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

// Client speaks to a CCIP router service over HTTP and satisfies
// RouterClient.
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

type getFeeRequest struct {
	DestSelector uint64         `json:"destSelector"`
	Receiver     common.Address `json:"receiver"`
	Data         []byte         `json:"data"`
	GasLimit     uint64         `json:"gasLimit"`
}

type getFeeResponse struct {
	Fee string `json:"fee"`
}

func (c *Client) GetFee(ctx context.Context, destSelector uint64, receiver common.Address, data []byte, gasLimit uint64) (*big.Int, error) {
	resp := new(getFeeResponse)
	err := c.post(ctx, "/v1/fee", &getFeeRequest{
		DestSelector: destSelector,
		Receiver:     receiver,
		Data:         data,
		GasLimit:     gasLimit,
	}, resp)
	if err != nil {
		return nil, err
	}

	fee, ok := new(big.Int).SetString(resp.Fee, 10)
	if !ok {
		return nil, fmt.Errorf("invalid fee %s in router response", resp.Fee)
	}
	return fee, nil
}

type sendRequest struct {
	DestSelector uint64         `json:"destSelector"`
	Receiver     common.Address `json:"receiver"`
	Data         []byte         `json:"data"`
	Fee          string         `json:"fee"`
	GasLimit     uint64         `json:"gasLimit"`
}

type sendResponse struct {
	MessageID common.Hash `json:"messageId"`
}

func (c *Client) CCIPSend(ctx context.Context, destSelector uint64, receiver common.Address, data []byte, fee *big.Int, gasLimit uint64) (common.Hash, error) {
	resp := new(sendResponse)
	err := c.post(ctx, "/v1/send", &sendRequest{
		DestSelector: destSelector,
		Receiver:     receiver,
		Data:         data,
		Fee:          fee.String(),
		GasLimit:     gasLimit,
	}, resp)
	if err != nil {
		return common.Hash{}, err
	}

	return resp.MessageID, nil
}

type offRampRequest struct {
	SourceSelector uint64         `json:"sourceSelector"`
	OffRamp        common.Address `json:"offRamp"`
}

type offRampResponse struct {
	Valid bool `json:"valid"`
}

func (c *Client) IsOffRamp(ctx context.Context, sourceSelector uint64, offRamp common.Address) (bool, error) {
	resp := new(offRampResponse)
	err := c.post(ctx, "/v1/off-ramp", &offRampRequest{
		SourceSelector: sourceSelector,
		OffRamp:        offRamp,
	}, resp)
	if err != nil {
		return false, err
	}

	return resp.Valid, nil
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
