// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package connext

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

// Client speaks to a Connext endpoint service over HTTP and satisfies
// ConnextClient.
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

type relayerFeeRequest struct {
	DestDomain uint32 `json:"destDomain"`
}

type relayerFeeResponse struct {
	Fee string `json:"fee"`
}

func (c *Client) QuoteRelayerFee(ctx context.Context, destDomain uint32) (*big.Int, error) {
	resp := new(relayerFeeResponse)
	err := c.post(ctx, "/v1/relayer-fee", &relayerFeeRequest{DestDomain: destDomain}, resp)
	if err != nil {
		return nil, err
	}

	fee, ok := new(big.Int).SetString(resp.Fee, 10)
	if !ok {
		return nil, fmt.Errorf("invalid fee %s in relayer fee response", resp.Fee)
	}
	return fee, nil
}

type xcallRequest struct {
	DestDomain uint32         `json:"destDomain"`
	To         common.Address `json:"to"`
	CallData   []byte         `json:"callData"`
	RelayerFee string         `json:"relayerFee"`
}

type xcallResponse struct {
	TransferID common.Hash `json:"transferId"`
}

func (c *Client) XCall(ctx context.Context, destDomain uint32, to common.Address, callData []byte, relayerFee *big.Int) (common.Hash, error) {
	resp := new(xcallResponse)
	err := c.post(ctx, "/v1/xcall", &xcallRequest{
		DestDomain: destDomain,
		To:         to,
		CallData:   callData,
		RelayerFee: relayerFee.String(),
	}, resp)
	if err != nil {
		return common.Hash{}, err
	}

	return resp.TransferID, nil
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
