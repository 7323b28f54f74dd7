// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package axelar

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

// Client speaks to an Axelar gateway service over HTTP and satisfies both
// GatewayClient and GasServiceClient.
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

type callContractRequest struct {
	DestChain   string `json:"destChain"`
	DestAddress string `json:"destAddress"`
	Payload     []byte `json:"payload"`
}

func (c *Client) CallContract(ctx context.Context, destChain string, destAddress string, payload []byte) error {
	return c.post(ctx, "/v1/call-contract", &callContractRequest{
		DestChain:   destChain,
		DestAddress: destAddress,
		Payload:     payload,
	}, nil)
}

type validateCallRequest struct {
	CommandID     common.Hash `json:"commandId"`
	SourceChain   string      `json:"sourceChain"`
	SourceAddress string      `json:"sourceAddress"`
	PayloadHash   common.Hash `json:"payloadHash"`
}

type validateCallResponse struct {
	Valid bool `json:"valid"`
}

func (c *Client) ValidateContractCall(ctx context.Context, commandID common.Hash, sourceChain string, sourceAddress string, payloadHash common.Hash) (bool, error) {
	resp := new(validateCallResponse)
	err := c.post(ctx, "/v1/validate-contract-call", &validateCallRequest{
		CommandID:     commandID,
		SourceChain:   sourceChain,
		SourceAddress: sourceAddress,
		PayloadHash:   payloadHash,
	}, resp)
	if err != nil {
		return false, err
	}

	return resp.Valid, nil
}

type estimateGasFeeRequest struct {
	DestChain  string `json:"destChain"`
	PayloadLen int    `json:"payloadLen"`
	GasLimit   uint64 `json:"gasLimit"`
}

type estimateGasFeeResponse struct {
	Fee string `json:"fee"`
}

func (c *Client) EstimateGasFee(ctx context.Context, destChain string, payloadLen int, gasLimit uint64) (*big.Int, error) {
	resp := new(estimateGasFeeResponse)
	err := c.post(ctx, "/v1/estimate-gas-fee", &estimateGasFeeRequest{
		DestChain:  destChain,
		PayloadLen: payloadLen,
		GasLimit:   gasLimit,
	}, resp)
	if err != nil {
		return nil, err
	}

	fee, ok := new(big.Int).SetString(resp.Fee, 10)
	if !ok {
		return nil, fmt.Errorf("invalid fee %s in gas service response", resp.Fee)
	}
	return fee, nil
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
