// The Licensed Work is (c) 2026 Crosslink
// SPDX-License-Identifier: LGPL-3.0-only

package polymer

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

// Client speaks to a Polymer prover service over HTTP and satisfies
// ProverClient.
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

type quoteProofRequest struct {
	DestChainID uint64 `json:"destChainId"`
}

type quoteProofResponse struct {
	Fee string `json:"fee"`
}

func (c *Client) QuoteProof(ctx context.Context, destChainID uint64) (*big.Int, error) {
	resp := new(quoteProofResponse)
	err := c.post(ctx, "/v1/quote-proof", &quoteProofRequest{DestChainID: destChainID}, resp)
	if err != nil {
		return nil, err
	}

	fee, ok := new(big.Int).SetString(resp.Fee, 10)
	if !ok {
		return nil, fmt.Errorf("invalid fee %s in prover response", resp.Fee)
	}
	return fee, nil
}

type emitMessageRequest struct {
	DestChainID uint64         `json:"destChainId"`
	Destination common.Address `json:"destination"`
	Payload     []byte         `json:"payload"`
}

type emitMessageResponse struct {
	EventID common.Hash `json:"eventId"`
}

func (c *Client) EmitMessage(ctx context.Context, destChainID uint64, destination common.Address, payload []byte) (common.Hash, error) {
	resp := new(emitMessageResponse)
	err := c.post(ctx, "/v1/emit-message", &emitMessageRequest{
		DestChainID: destChainID,
		Destination: destination,
		Payload:     payload,
	}, resp)
	if err != nil {
		return common.Hash{}, err
	}

	return resp.EventID, nil
}

type validateEventRequest struct {
	Proof []byte `json:"proof"`
}

type validateEventResponse struct {
	ChainID uint64         `json:"chainId"`
	Emitter common.Address `json:"emitter"`
	Payload []byte         `json:"payload"`
}

func (c *Client) ValidateEvent(ctx context.Context, proof []byte) (*EventProof, error) {
	resp := new(validateEventResponse)
	err := c.post(ctx, "/v1/validate-event", &validateEventRequest{Proof: proof}, resp)
	if err != nil {
		return nil, err
	}

	return &EventProof{
		ChainID: resp.ChainID,
		Emitter: resp.Emitter,
		Payload: resp.Payload,
	}, nil
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
